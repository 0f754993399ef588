package importer

import (
	"io"

	"github.com/vibrantgarden/almo/internal/inventory"
)

type Source string

const (
	SourcePrimavera Source = "primavera"
)

type Importer interface {
	Parse(r io.Reader) ([]inventory.MovementImport, error)
}
