package primavera_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/vibrantgarden/almo/internal/importer/primavera"
	"github.com/vibrantgarden/almo/internal/inventory"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestParser_Movimentos(t *testing.T) {
	csv := `Movimentos de armazém - 31-01-2026
Empresa ;VIBRANTGARDEN UNIPESSOAL,LDA
Armazém ;A1 - Principal
Intervalo de ;01-01-2026 a 31-01-2026

Data mov. ;Artigo ;Documento ;Entrada ;Saída ;
30-01-2026;Cimento Portland 42,5R;GR-2026-0012;1.250,00; ;
09-01-2026;Varão de aço 12mm;DN-2026-0003; ;40,00;
`

	p := primavera.NewParser()
	movements, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, movements, 2)

	assert.Equal(t, date(2026, 1, 30), movements[0].MovementDate)
	assert.Equal(t, "Cimento Portland 42,5R", movements[0].MaterialName)
	assert.Equal(t, int64(1250), movements[0].Quantity)
	assert.Equal(t, inventory.MovementIn, movements[0].Type)
	assert.Equal(t, "GR-2026-0012", movements[0].Reference)

	assert.Equal(t, date(2026, 1, 9), movements[1].MovementDate)
	assert.Equal(t, "Varão de aço 12mm", movements[1].MaterialName)
	assert.Equal(t, int64(40), movements[1].Quantity)
	assert.Equal(t, inventory.MovementOut, movements[1].Type)
	assert.Equal(t, "DN-2026-0003", movements[1].Reference)
}

func TestParser_Extrato(t *testing.T) {
	csv := `Extrato de artigo - 15-02-2026
Empresa ;VIBRANTGARDEN UNIPESSOAL,LDA

Data ;Artigo ;Doc. ;Quantidade ;
13-02-2026;Tijolo cerâmico 30x20;GR-2026-0044;500,00;
04-02-2026;Tijolo cerâmico 30x20;DN-2026-0017;-120,00;
`

	p := primavera.NewParser()
	movements, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, movements, 2)

	assert.Equal(t, inventory.MovementIn, movements[0].Type)
	assert.Equal(t, int64(500), movements[0].Quantity)

	assert.Equal(t, inventory.MovementOut, movements[1].Type)
	assert.Equal(t, int64(120), movements[1].Quantity)
	assert.Equal(t, "DN-2026-0017", movements[1].Reference)
}

func TestParser_Latin1Encoding(t *testing.T) {
	utf8CSV := "Data;Artigo;Doc.;Quantidade\n30-01-2026;Betão C25/30;GR-1;10,00\n"

	encoder := charmap.Windows1252.NewEncoder()
	latin1Bytes, err := encoder.Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	p := primavera.NewParser()
	movements, err := p.Parse(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)
	require.Len(t, movements, 1)

	assert.Equal(t, "Betão C25/30", movements[0].MaterialName)
}

func TestParser_DifferentColumnOrder(t *testing.T) {
	csv := `Random;MetaData
Quantidade;Artigo;Data;Ignored
-10,00;AREIA FINA;30-01-2026;XXX
`

	p := primavera.NewParser()
	movements, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, movements, 1)

	assert.Equal(t, "AREIA FINA", movements[0].MaterialName)
	assert.Equal(t, int64(10), movements[0].Quantity)
	assert.Equal(t, inventory.MovementOut, movements[0].Type)
}

func TestParser_EmptyFile(t *testing.T) {
	p := primavera.NewParser()
	_, err := p.Parse(strings.NewReader(""))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no matching Primavera format")
}

func TestParser_HeaderOnly(t *testing.T) {
	csv := `Data;Artigo;Doc.;Quantidade`

	p := primavera.NewParser()
	movements, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestParser_MissingMaterial(t *testing.T) {
	csv := `Data;Artigo;Doc.;Quantidade
30-01-2026;;GR-1;10,00
`

	p := primavera.NewParser()
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "material")
}

func TestParser_SkipsZeroQuantityRows(t *testing.T) {
	csv := `Data;Artigo;Doc.;Quantidade
30-01-2026;AREIA FINA;GR-1;0,00
31-01-2026;AREIA FINA;GR-2;5,00
`

	p := primavera.NewParser()
	movements, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, movements, 1)

	assert.Equal(t, int64(5), movements[0].Quantity)
}

func TestParser_SkipsFooterRows(t *testing.T) {
	csv := `Data;Artigo;Doc.;Quantidade
30-01-2026;AREIA FINA;GR-1;10,00
Totais;;;;
`

	p := primavera.NewParser()
	movements, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, movements, 1)
}

func TestParser_LargeQuantities(t *testing.T) {
	csv := `Data;Artigo;Doc.;Quantidade
30-01-2026;AREIA FINA;GR-1;1.234.567,00
`

	p := primavera.NewParser()
	movements, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, movements, 1)

	assert.Equal(t, int64(1234567), movements[0].Quantity)
}
