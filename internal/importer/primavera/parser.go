package primavera

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	enc "github.com/vibrantgarden/almo/internal/encoding"
	"github.com/vibrantgarden/almo/internal/inventory"
)

// Parser reads Primavera warehouse CSV exports and produces movement rows.
// It auto-detects which export format (movimentos, extrato) is being used
// by matching column headers against known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]inventory.MovementImport, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, colMap, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching Primavera format found: expected columns for movimentos or extrato")
	}

	return parseRows(profile, colMap, rows[headerIdx+1:], headerIdx+1)
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// matchesProfile checks if all required columns of a profile are present.
func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts movements from data rows using the matched profile.
// headerRowNum is the 0-based index of the header in the original file (for error messages).
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]inventory.MovementImport, error) {
	dateIdx := cols[p.DateCol]
	materialIdx := cols[p.MaterialCol]

	docIdx := -1
	if i, ok := cols[p.DocumentCol]; ok {
		docIdx = i
	}

	var movements []inventory.MovementImport

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, skipping header

		date, ok := parseDate(row, dateIdx)
		if !ok {
			continue
		}

		material := cellValue(row, materialIdx)
		if material == "" {
			return nil, fmt.Errorf("row %d: missing material", rowNum)
		}

		quantity, movementType, ok := parseQuantity(p, cols, row)
		if !ok {
			continue
		}

		movements = append(movements, inventory.MovementImport{
			MaterialName: material,
			Type:         movementType,
			Quantity:     quantity,
			MovementDate: date,
			Reference:    cellValue(row, docIdx),
		})
	}

	return movements, nil
}

// parseDate tries to parse a date from the given cell index.
// Returns false for empty cells or unparseable values (footer rows, etc).
func parseDate(row []string, idx int) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	t, err := time.Parse("02-01-2006", s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// parseQuantity extracts the quantity and movement type from a row based on the profile's quantity mode.
func parseQuantity(p *Profile, cols colIndex, row []string) (int64, inventory.MovementType, bool) {
	switch p.QuantityMode {
	case quantitySingle:
		return parseSingleQuantity(row, cols[p.QuantityCol])
	case quantitySplit:
		return parseSplitQuantity(row, cols[p.EntryCol], cols[p.ExitCol])
	}

	return 0, "", false
}

// parseSingleQuantity handles a single signed quantity column.
func parseSingleQuantity(row []string, idx int) (int64, inventory.MovementType, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return 0, "", false
	}

	qty, err := parseEuropeanQuantity(s)
	if err != nil {
		return 0, "", false
	}

	if qty == 0 {
		return 0, "", false
	}

	if qty < 0 {
		return -qty, inventory.MovementOut, true
	}

	return qty, inventory.MovementIn, true
}

// parseSplitQuantity handles separate entry/exit columns.
func parseSplitQuantity(row []string, entryIdx, exitIdx int) (int64, inventory.MovementType, bool) {
	if s := cellValue(row, entryIdx); s != "" {
		qty, err := parseEuropeanQuantity(s)
		if err == nil && qty != 0 {
			return abs(qty), inventory.MovementIn, true
		}
	}

	if s := cellValue(row, exitIdx); s != "" {
		qty, err := parseEuropeanQuantity(s)
		if err == nil && qty != 0 {
			return abs(qty), inventory.MovementOut, true
		}
	}

	return 0, "", false
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}
