package export

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vibrantgarden/almo/internal/invoice"
)

// Item represents a single exported invoice with its local file path.
type Item struct {
	Invoice  *invoice.Invoice
	FilePath string
}

// Service downloads supplier invoice documents from the DMS and packages
// them for the accountant.
type Service struct {
	invoices *invoice.Service
	client   *http.Client
	apiToken string
}

func NewService(invoiceService *invoice.Service, apiToken string) *Service {
	return &Service{
		invoices: invoiceService,
		client:   &http.Client{Timeout: 30 * time.Second},
		apiToken: apiToken,
	}
}

// Export downloads documents for invoices matching the filter to the output
// directory. It returns a list of items linking invoices to their downloaded
// files; invoices without an attached document still appear, with an empty
// path.
func (s *Service) Export(ctx context.Context, filter invoice.ListFilter, outputDir string) ([]Item, error) {
	invoices, err := s.invoices.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	items := make([]Item, 0, len(invoices))

	for _, inv := range invoices {
		item := Item{
			Invoice: inv,
		}

		if inv.DocumentURL != "" {
			path, err := s.downloadDocument(ctx, inv, outputDir)
			if err != nil {
				return nil, fmt.Errorf("downloading document for invoice %s: %w", inv.ID, err)
			}

			item.FilePath = path
		}

		items = append(items, item)
	}

	return items, nil
}

func (s *Service) downloadDocument(ctx context.Context, inv *invoice.Invoice, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, inv.DocumentURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	if s.apiToken != "" {
		req.Header.Set("Authorization", "Token "+s.apiToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d for url %s", resp.StatusCode, inv.DocumentURL)
	}

	filename := s.determineFilename(resp, inv)
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return path, nil
}

func (s *Service) determineFilename(resp *http.Response, inv *invoice.Invoice) string {
	// 1. Try to get filename from Content-Disposition header.
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if filename, ok := params["filename"]; ok && filename != "" {
				// Basic sanitization of the filename from the server
				return strings.ReplaceAll(filepath.Base(filename), " ", "_")
			}
		}
	}

	// 2. Fallback: Generate a name from invoice details.
	ext := ".pdf" // Default assumption

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if exts, _ := mime.ExtensionsByType(ct); len(exts) > 0 {
			ext = exts[0]
		}
	}

	// Sanitize invoice number for use in filename
	safeNumber := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, inv.Number)

	// Format: YYYYMMDD_Number.ext
	return fmt.Sprintf("%s_%s%s", inv.InvoiceDate.Format("20060102"), safeNumber, ext)
}

// GenerateSummary creates a formatted summary line per exported invoice,
// suitable for pasting into the monthly handover email.
func (s *Service) GenerateSummary(items []Item) string {
	var sb strings.Builder

	for _, item := range items {
		date := item.Invoice.InvoiceDate.Format("2006-01-02")
		total := float64(item.Invoice.TotalAmount) / 100.0
		outstanding := float64(item.Invoice.Outstanding()) / 100.0

		fileStatus := "Sem Documento"
		if item.FilePath != "" {
			fileStatus = filepath.Base(item.FilePath)
		}

		sb.WriteString(fmt.Sprintf("* %s | %s | %.2f € | por pagar %.2f € | %s\n",
			date, item.Invoice.Number, total, outstanding, fileStatus))
	}

	return sb.String()
}
