package primavera

// quantityMode determines how movement quantities are extracted from a row.
type quantityMode int

const (
	// quantitySingle means one signed column (e.g. "Quantidade" with value "-10,00").
	quantitySingle quantityMode = iota
	// quantitySplit means separate entry and exit columns (e.g. "Entrada"/"Saída").
	quantitySplit
)

// Profile describes the column layout of a Primavera warehouse export format.
// Adding a new format is just adding a new Profile to the profiles slice.
type Profile struct {
	Name         string
	DateCol      string
	MaterialCol  string
	DocumentCol  string
	QuantityMode quantityMode
	QuantityCol  string // used when QuantityMode == quantitySingle
	EntryCol     string // used when QuantityMode == quantitySplit
	ExitCol      string // used when QuantityMode == quantitySplit
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.MaterialCol}

	switch p.QuantityMode {
	case quantitySingle:
		cols = append(cols, p.QuantityCol)
	case quantitySplit:
		cols = append(cols, p.EntryCol, p.ExitCol)
	}

	return cols
}

// profiles is the ordered list of Primavera export formats to try during auto-detection.
// More specific profiles should come first to avoid false matches.
var profiles = []Profile{
	{
		Name:         "movimentos",
		DateCol:      "Data mov.",
		MaterialCol:  "Artigo",
		DocumentCol:  "Documento",
		QuantityMode: quantitySplit,
		EntryCol:     "Entrada",
		ExitCol:      "Saída",
	},
	{
		Name:         "extrato",
		DateCol:      "Data",
		MaterialCol:  "Artigo",
		DocumentCol:  "Doc.",
		QuantityMode: quantitySingle,
		QuantityCol:  "Quantidade",
	},
}
