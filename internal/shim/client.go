package shim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/paytracker/paytracker/internal/domain"
	"github.com/paytracker/paytracker/internal/shared"
)

// APIError carries a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// Client is a typed client for the API route table. With NewClient it runs
// fully offline against an in-process handler; with NewRemoteClient it talks
// to a live server. Behavior is identical either way.
type Client struct {
	base string
	http *http.Client
}

// NewClient returns a client that serves every request in-process.
func NewClient(handler http.Handler) *Client {
	return &Client{
		base: "http://paytracker.local",
		http: &http.Client{Transport: Transport{Handler: handler}},
	}
}

// NewRemoteClient returns a client for a live server at baseURL.
func NewRemoteClient(baseURL string) *Client {
	return &Client{base: baseURL, http: &http.Client{}}
}

func (c *Client) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	var out domain.DashboardStats
	err := c.do(ctx, http.MethodGet, "/api/dashboard/stats", nil, &out)
	return out, err
}

func (c *Client) RecentPayments(ctx context.Context, limit int) ([]domain.PaymentWithClient, error) {
	path := "/api/dashboard/recent-payments"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out []domain.PaymentWithClient
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) OverduePayments(ctx context.Context) ([]domain.OverduePayment, error) {
	var out []domain.OverduePayment
	err := c.do(ctx, http.MethodGet, "/api/dashboard/overdue-payments", nil, &out)
	return out, err
}

func (c *Client) Clients(ctx context.Context) ([]domain.ClientWithStats, error) {
	var out []domain.ClientWithStats
	err := c.do(ctx, http.MethodGet, "/api/clients", nil, &out)
	return out, err
}

func (c *Client) GetClient(ctx context.Context, id string) (domain.ClientWithStats, error) {
	var out domain.ClientWithStats
	err := c.do(ctx, http.MethodGet, "/api/clients/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) CreateClient(ctx context.Context, body any) (domain.Client, error) {
	var out domain.Client
	err := c.do(ctx, http.MethodPost, "/api/clients", body, &out)
	return out, err
}

func (c *Client) UpdateClient(ctx context.Context, id string, body any) (domain.Client, error) {
	var out domain.Client
	err := c.do(ctx, http.MethodPatch, "/api/clients/"+url.PathEscape(id), body, &out)
	return out, err
}

func (c *Client) DeleteClient(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/clients/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ClientPayments(ctx context.Context, id string) ([]domain.Payment, error) {
	var out []domain.Payment
	err := c.do(ctx, http.MethodGet, "/api/clients/"+url.PathEscape(id)+"/payments", nil, &out)
	return out, err
}

func (c *Client) Payments(ctx context.Context) ([]domain.PaymentWithClient, error) {
	var out []domain.PaymentWithClient
	err := c.do(ctx, http.MethodGet, "/api/payments", nil, &out)
	return out, err
}

func (c *Client) CreatePayment(ctx context.Context, body any) (domain.Payment, error) {
	var out domain.Payment
	err := c.do(ctx, http.MethodPost, "/api/payments", body, &out)
	return out, err
}

func (c *Client) UpdatePayment(ctx context.Context, id string, body any) (domain.Payment, error) {
	var out domain.Payment
	err := c.do(ctx, http.MethodPatch, "/api/payments/"+url.PathEscape(id), body, &out)
	return out, err
}

func (c *Client) DeletePayment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/payments/"+url.PathEscape(id), nil, nil)
}

// ExportClientsCSV returns the clients report as CSV text.
func (c *Client) ExportClientsCSV(ctx context.Context) (string, error) {
	return c.text(ctx, "/api/export/clients")
}

// ExportPaymentsCSV returns the payments report as CSV text.
func (c *Client) ExportPaymentsCSV(ctx context.Context) (string, error) {
	return c.text(ctx, "/api/export/payments")
}

// Backup downloads the full-database envelope.
func (c *Client) Backup(ctx context.Context) (domain.Snapshot, error) {
	var out domain.Snapshot
	err := c.do(ctx, http.MethodGet, "/api/backup", nil, &out)
	return out, err
}

// Restore uploads an envelope and returns the number of records applied.
func (c *Client) Restore(ctx context.Context, snap domain.Snapshot) (int, error) {
	var out map[string]int
	if err := c.do(ctx, http.MethodPost, "/api/restore", snap, &out); err != nil {
		return 0, err
	}
	return out["imported"], nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) text(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", decodeAPIError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var body shared.ErrorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
		apiErr.Fields = body.Errors
	}
	return apiErr
}
