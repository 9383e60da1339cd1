// Package export serializes report views as CSV.
package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/paytracker/paytracker/internal/domain"
)

const (
	csvFlushEvery = 200
	csvBufferSize = 32 * 1024
)

type csvStreamer struct {
	buf          *bufio.Writer
	csv          *csv.Writer
	flushEvery   int
	pendingLines int
}

func newCSVStreamer(w io.Writer) *csvStreamer {
	buf := bufio.NewWriterSize(w, csvBufferSize)
	writer := csv.NewWriter(buf)
	writer.UseCRLF = true
	return &csvStreamer{buf: buf, csv: writer, flushEvery: csvFlushEvery}
}

func (s *csvStreamer) writeRow(row []string) error {
	if s == nil || s.csv == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	if err := s.csv.Write(row); err != nil {
		return err
	}
	s.pendingLines++
	if s.flushEvery > 0 && s.pendingLines >= s.flushEvery {
		return s.Flush()
	}
	return nil
}

func (s *csvStreamer) Flush() error {
	if s == nil || s.csv == nil || s.buf == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	s.csv.Flush()
	if err := s.csv.Error(); err != nil {
		return err
	}
	if err := s.buf.Flush(); err != nil {
		return err
	}
	s.pendingLines = 0
	return nil
}

func (s *csvStreamer) Close() error {
	return s.Flush()
}

// WriteClientsCSV writes the client report: one row per client with its
// derived aggregates. Amounts are bare two-decimal numbers.
func WriteClientsCSV(w io.Writer, rows []domain.ClientWithStats) error {
	streamer := newCSVStreamer(w)
	header := []string{"name", "company", "email", "phone", "address", "totalPaid", "outstanding", "totalPayments", "avgPayment", "lastPaymentDate", "paymentStatus"}
	if err := streamer.writeRow(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := streamer.writeRow([]string{
			r.Name,
			orEmpty(r.Company),
			r.Email,
			orEmpty(r.Phone),
			orEmpty(r.Address),
			r.TotalPaid.String(),
			r.Outstanding.String(),
			strconv.Itoa(r.TotalPayments),
			r.AvgPayment.String(),
			formatDate(r.LastPaymentDate),
			string(r.PaymentStatus),
		}); err != nil {
			return err
		}
	}
	return streamer.Close()
}

// WritePaymentsCSV writes the payment report with resolved client names.
func WritePaymentsCSV(w io.Writer, rows []domain.PaymentWithClient) error {
	streamer := newCSVStreamer(w)
	header := []string{"invoiceNumber", "clientName", "amount", "dueDate", "paidDate", "status", "description"}
	if err := streamer.writeRow(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := streamer.writeRow([]string{
			r.InvoiceNumber,
			r.ClientName,
			r.Amount.String(),
			r.DueDate.Format(time.RFC3339),
			formatDate(r.PaidDate),
			string(r.Status),
			orEmpty(r.Description),
		}); err != nil {
			return err
		}
	}
	return streamer.Close()
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
