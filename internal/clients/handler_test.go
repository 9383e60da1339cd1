package clients_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/paytracker/paytracker/internal/app"
	"github.com/paytracker/paytracker/internal/blob"
	"github.com/paytracker/paytracker/internal/clients"
	"github.com/paytracker/paytracker/internal/domain"
	"github.com/paytracker/paytracker/internal/shared"
	"github.com/paytracker/paytracker/internal/store"
)

func newTestRouter(t *testing.T) (http.Handler, *store.Store) {
	t.Helper()
	logger := app.NewLoggerTo(io.Discard, nil)
	st := store.New(store.Options{Blob: blob.NewFileStore(filepath.Join(t.TempDir(), "db.json"))})
	require.NoError(t, st.Open(context.Background()))

	r := chi.NewRouter()
	r.Route("/api/clients", clients.NewHandler(logger, st).MountRoutes)
	return r, st
}

func timeNowPlusDays(d int) time.Time { return time.Now().AddDate(0, 0, d) }

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateClientValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/clients", `{"name":"No Email"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body shared.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Invalid client data", body.Message)
	require.Contains(t, body.Errors, "Email")
}

func TestCreateClientDuplicateEmailConflict(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/clients", `{"name":"A","email":"a@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/clients", `{"name":"B","email":"a@example.com"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateClientClearsNullableFields(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/clients", `{"name":"A","email":"a@example.com","company":"Acme Corp"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.Client
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, router, http.MethodPatch, "/api/clients/"+created.ID, `{"company":null,"phone":"+63 900 000 0000"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated domain.Client
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Nil(t, updated.Company)
	require.Equal(t, "+63 900 000 0000", *updated.Phone)
	require.Equal(t, "A", updated.Name)
}

func TestUpdateClientRejectsNullName(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/clients", `{"name":"A","email":"a@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.Client
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, router, http.MethodPatch, "/api/clients/"+created.ID, `{"name":null}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body shared.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body.Errors, "name")

	rec = doJSON(t, router, http.MethodPatch, "/api/clients/"+created.ID, `{"email":"not-an-email"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShowClientNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/clients/missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	var body shared.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Client not found", body.Message)
}

func TestListClientsIncludesStats(t *testing.T) {
	router, st := newTestRouter(t)
	ctx := context.Background()

	client, err := st.CreateClient(ctx, store.ClientFields{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)
	_, err = st.CreatePayment(ctx, store.PaymentFields{
		ClientID:      client.ID,
		InvoiceNumber: "INV-1",
		Amount:        domain.MustMoney("1500.00"),
		DueDate:       timeNowPlusDays(7),
	})
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodGet, "/api/clients", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []domain.ClientWithStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	require.Equal(t, "1500.00", listed[0].Outstanding.String())
	require.Equal(t, domain.ClientPending, listed[0].PaymentStatus)
}

func TestDeleteClient(t *testing.T) {
	router, st := newTestRouter(t)

	client, err := st.CreateClient(context.Background(), store.ClientFields{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodDelete, "/api/clients/"+client.ID, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/clients/"+client.ID, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
