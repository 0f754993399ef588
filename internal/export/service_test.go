package export

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vibrantgarden/almo/internal/invoice"
	"github.com/vibrantgarden/almo/internal/order"
)

// Mock Repository
type mockRepo struct {
	listInvoicesFunc func(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error)
}

func (m *mockRepo) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error { return nil }

func (m *mockRepo) GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	return nil, nil
}

func (m *mockRepo) ListInvoices(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	if m.listInvoicesFunc != nil {
		return m.listInvoicesFunc(ctx, filter)
	}

	return nil, nil
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status invoice.Status) error {
	return nil
}

func (m *mockRepo) UpdateDocument(ctx context.Context, id uuid.UUID, documentURL string) error {
	return nil
}

func (m *mockRepo) CreatePayment(ctx context.Context, p *invoice.Payment) error { return nil }

type mockOrderRepo struct{}

func (m *mockOrderRepo) CreateOrder(ctx context.Context, o *order.Order) error { return nil }
func (m *mockOrderRepo) GetOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return nil, nil
}

func (m *mockOrderRepo) ListOrders(ctx context.Context, filter order.ListFilter) ([]*order.Order, error) {
	return nil, nil
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) error {
	return nil
}
func (m *mockOrderRepo) DeleteOrder(ctx context.Context, id uuid.UUID) error { return nil }
func (m *mockOrderRepo) BeginReconcile(ctx context.Context, orderID uuid.UUID) (order.ReconcileTx, error) {
	return nil, nil
}

func TestExportService_Export(t *testing.T) {
	// Setup HTTP server for documents
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/document.pdf" {
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition", "attachment; filename=\"fatura_118.pdf\"")
			w.Write([]byte("fake pdf content"))

			return
		}

		if r.URL.Path == "/document_no_filename" {
			w.Header().Set("Content-Type", "application/pdf")
			w.Write([]byte("fake pdf content"))

			return
		}

		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	// Setup Temp Dir
	tmpDir, err := os.MkdirTemp("", "export_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Setup Data
	date := time.Date(2026, 1, 27, 0, 0, 0, 0, time.UTC)

	inv1 := &invoice.Invoice{
		ID:          uuid.New(),
		Number:      "FT 2026/118",
		InvoiceDate: date,
		TotalAmount: 100000,
		DocumentURL: ts.URL + "/document.pdf",
	}

	inv2 := &invoice.Invoice{
		ID:          uuid.New(),
		Number:      "FT 2026/119",
		InvoiceDate: date,
		TotalAmount: 50000,
		DocumentURL: ts.URL + "/document_no_filename",
	}

	inv3 := &invoice.Invoice{
		ID:          uuid.New(),
		Number:      "FT 2026/120",
		InvoiceDate: date,
		TotalAmount: 25000,
	}

	repo := &mockRepo{
		listInvoicesFunc: func(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
			return []*invoice.Invoice{inv1, inv2, inv3}, nil
		},
	}

	invoiceService := invoice.NewService(repo, order.NewService(&mockOrderRepo{}))
	service := NewService(invoiceService, "test-token")

	// Execution
	filter := invoice.ListFilter{}

	items, err := service.Export(context.Background(), filter, tmpDir)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	// Check Item 1 (With filename from header)
	if items[0].Invoice != inv1 {
		t.Errorf("expected item 1 to be inv1")
	}

	if filepath.Base(items[0].FilePath) != "fatura_118.pdf" {
		t.Errorf("expected fatura_118.pdf, got %s", filepath.Base(items[0].FilePath))
	}

	content1, _ := os.ReadFile(items[0].FilePath)
	if string(content1) != "fake pdf content" {
		t.Errorf("file content mismatch")
	}

	// Check Item 2 (Generated filename)
	if items[1].Invoice != inv2 {
		t.Errorf("expected item 2 to be inv2")
	}

	expectedName2 := "20260127_FT_2026_119.pdf"
	if filepath.Base(items[1].FilePath) != expectedName2 {
		t.Errorf("expected %s, got %s", expectedName2, filepath.Base(items[1].FilePath))
	}

	// Check Item 3 (No document)
	if items[2].Invoice != inv3 {
		t.Errorf("expected item 3 to be inv3")
	}

	if items[2].FilePath != "" {
		t.Errorf("expected empty file path for item 3, got %s", items[2].FilePath)
	}
}

func TestService_GenerateSummary(t *testing.T) {
	s := &Service{}

	date := time.Date(2026, 1, 27, 0, 0, 0, 0, time.UTC)
	items := []Item{
		{
			Invoice: &invoice.Invoice{
				Number:      "FT 2026/118",
				InvoiceDate: date,
				TotalAmount: 100000,
				Payments:    []invoice.Payment{{Amount: 40000}},
			},
			FilePath: "/tmp/fatura_118.pdf",
		},
		{
			Invoice: &invoice.Invoice{
				Number:      "FT 2026/119",
				InvoiceDate: date,
				TotalAmount: 1250,
			},
			FilePath: "",
		},
	}

	body := s.GenerateSummary(items)

	expectedSubstrings := []string{
		"2026-01-27 | FT 2026/118 | 1000.00 € | por pagar 600.00 € | fatura_118.pdf",
		"2026-01-27 | FT 2026/119 | 12.50 € | por pagar 12.50 € | Sem Documento",
	}

	for _, sub := range expectedSubstrings {
		if !strings.Contains(body, sub) {
			t.Errorf("expected body to contain %q", sub)
		}
	}
}
