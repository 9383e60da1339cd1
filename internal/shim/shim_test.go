package shim_test

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/paytracker/paytracker/internal/app"
	"github.com/paytracker/paytracker/internal/backup"
	"github.com/paytracker/paytracker/internal/blob"
	"github.com/paytracker/paytracker/internal/clients"
	"github.com/paytracker/paytracker/internal/dashboard"
	"github.com/paytracker/paytracker/internal/domain"
	"github.com/paytracker/paytracker/internal/export"
	"github.com/paytracker/paytracker/internal/payments"
	"github.com/paytracker/paytracker/internal/shim"
	"github.com/paytracker/paytracker/internal/store"
)

// newOfflineClient wires the full route table onto an in-memory store and
// returns a client that talks to it without opening a socket.
func newOfflineClient(t *testing.T) *shim.Client {
	t.Helper()
	logger := app.NewLoggerTo(io.Discard, nil)
	st := store.New(store.Options{Blob: blob.NewFileStore(filepath.Join(t.TempDir(), "db.json"))})
	require.NoError(t, st.Open(context.Background()))

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		ClientHandler:    clients.NewHandler(logger, st),
		PaymentHandler:   payments.NewHandler(logger, st),
		DashboardHandler: dashboard.NewHandler(logger, st),
		ExportHandler:    export.NewHandler(logger, st),
		BackupHandler:    backup.NewHandler(logger, st),
	})
	return shim.NewClient(router)
}

func apiErr(t *testing.T, err error) *shim.APIError {
	t.Helper()
	var apiError *shim.APIError
	require.ErrorAs(t, err, &apiError)
	return apiError
}

func TestClientLifecycle(t *testing.T) {
	ctx := context.Background()
	api := newOfflineClient(t)

	created, err := api.CreateClient(ctx, map[string]any{
		"name":    "Maria Santos",
		"email":   "maria@example.com",
		"company": "Santos Trading",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Santos Trading", *created.Company)

	listed, err := api.Clients(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, domain.ClientUpToDate, listed[0].PaymentStatus)

	updated, err := api.UpdateClient(ctx, created.ID, map[string]any{"company": nil})
	require.NoError(t, err)
	require.Nil(t, updated.Company)

	require.NoError(t, api.DeleteClient(ctx, created.ID))

	_, err = api.GetClient(ctx, created.ID)
	require.Equal(t, http.StatusNotFound, apiErr(t, err).StatusCode)
}

func TestPaymentFlowAndDashboard(t *testing.T) {
	ctx := context.Background()
	api := newOfflineClient(t)

	client, err := api.CreateClient(ctx, map[string]any{
		"name":  "Juan Dela Cruz",
		"email": "juan@example.com",
	})
	require.NoError(t, err)

	open, err := api.CreatePayment(ctx, map[string]any{
		"clientId":      client.ID,
		"invoiceNumber": "INV-1001",
		"amount":        "1500.00",
		"dueDate":       "2030-01-15",
	})
	require.NoError(t, err)
	require.Equal(t, domain.PaymentPending, open.Status)

	// A pending invoice already past its due date comes back overdue.
	late, err := api.CreatePayment(ctx, map[string]any{
		"clientId":      client.ID,
		"invoiceNumber": "INV-0990",
		"amount":        "200.00",
		"dueDate":       "2020-01-15",
	})
	require.NoError(t, err)
	require.Equal(t, domain.PaymentOverdue, late.Status)

	paidAt := time.Now().UTC().Format(time.RFC3339)
	paid, err := api.UpdatePayment(ctx, open.ID, map[string]any{
		"status":   "paid",
		"paidDate": paidAt,
	})
	require.NoError(t, err)
	require.Equal(t, domain.PaymentPaid, paid.Status)
	require.NotNil(t, paid.PaidDate)

	stats, err := api.DashboardStats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.TotalClients)
	require.Equal(t, "₱200.00", stats.Outstanding)
	require.Equal(t, "₱1,500.00", stats.PaidThisMonth)
	require.Equal(t, 1, stats.OverdueCount)

	recent, err := api.RecentPayments(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.Equal(t, "INV-1001", recent[0].InvoiceNumber)
	require.Equal(t, "Juan Dela Cruz", recent[0].ClientName)

	overdue, err := api.OverduePayments(ctx)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	require.Equal(t, "INV-0990", overdue[0].InvoiceNumber)
	require.Greater(t, overdue[0].DaysOverdue, 0)

	byClient, err := api.ClientPayments(ctx, client.ID)
	require.NoError(t, err)
	require.Len(t, byClient, 2)

	all, err := api.Payments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "Juan Dela Cruz", all[0].ClientName)

	annotated, err := api.GetClient(ctx, client.ID)
	require.NoError(t, err)
	require.Equal(t, "1500.00", annotated.TotalPaid.String())
	require.Equal(t, "200.00", annotated.Outstanding.String())
	require.Equal(t, domain.ClientOverdue, annotated.PaymentStatus)
}

func TestValidationErrorsSurface(t *testing.T) {
	ctx := context.Background()
	api := newOfflineClient(t)

	_, err := api.CreateClient(ctx, map[string]any{"name": "No Email"})
	apiError := apiErr(t, err)
	require.Equal(t, http.StatusBadRequest, apiError.StatusCode)
	require.Equal(t, "Invalid client data", apiError.Message)
	require.NotEmpty(t, apiError.Fields)

	_, err = api.CreatePayment(ctx, map[string]any{
		"clientId":      "ghost",
		"invoiceNumber": "INV-1",
		"amount":        "10.00",
		"dueDate":       "2030-01-15",
	})
	apiError = apiErr(t, err)
	require.Equal(t, http.StatusBadRequest, apiError.StatusCode)
	require.Equal(t, "client does not exist", apiError.Fields["clientId"])
}

func TestDuplicateEmailConflict(t *testing.T) {
	ctx := context.Background()
	api := newOfflineClient(t)

	_, err := api.CreateClient(ctx, map[string]any{"name": "A", "email": "a@example.com"})
	require.NoError(t, err)

	_, err = api.CreateClient(ctx, map[string]any{"name": "B", "email": "a@example.com"})
	apiError := apiErr(t, err)
	require.Equal(t, http.StatusConflict, apiError.StatusCode)
	require.Equal(t, "Email already in use", apiError.Message)
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	api := newOfflineClient(t)

	client, err := api.CreateClient(ctx, map[string]any{"name": "A", "email": "a@example.com"})
	require.NoError(t, err)
	_, err = api.CreatePayment(ctx, map[string]any{
		"clientId":      client.ID,
		"invoiceNumber": "INV-1",
		"amount":        "100.00",
		"dueDate":       "2030-01-15",
	})
	require.NoError(t, err)

	snap, err := api.Backup(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Clients, 1)
	require.Len(t, snap.Payments, 1)

	imported, err := api.Restore(ctx, snap)
	require.NoError(t, err)
	require.Equal(t, 2, imported)

	listed, err := api.Clients(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestExportCSV(t *testing.T) {
	ctx := context.Background()
	api := newOfflineClient(t)

	_, err := api.CreateClient(ctx, map[string]any{"name": "A", "email": "a@example.com"})
	require.NoError(t, err)

	clientsCSV, err := api.ExportClientsCSV(ctx)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(clientsCSV, "name,company,email"))
	require.Contains(t, clientsCSV, "a@example.com")

	paymentsCSV, err := api.ExportPaymentsCSV(ctx)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(paymentsCSV, "invoiceNumber,clientName"))
}
