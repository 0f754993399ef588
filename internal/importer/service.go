package importer

import (
	"fmt"
	"io"

	"github.com/vibrantgarden/almo/internal/importer/primavera"
	"github.com/vibrantgarden/almo/internal/inventory"
)

type Service struct {
	primaveraImporter Importer
}

func NewService() *Service {
	return &Service{
		primaveraImporter: primavera.NewParser(),
	}
}

func (s *Service) Import(source Source, r io.Reader) ([]inventory.MovementImport, error) {
	var importer Importer

	switch source {
	case SourcePrimavera:
		importer = s.primaveraImporter
	default:
		return nil, fmt.Errorf("unknown source: %s", source)
	}

	return importer.Parse(r)
}
