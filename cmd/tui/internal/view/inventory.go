package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/vibrantgarden/almo/internal/inventory"
)

type inventoryState int

const (
	inventoryStateBrowse inventoryState = iota
	inventoryStateMovement
	inventoryStateLedger
)

type InventoryModel struct {
	CommonModel
	inventoryService *inventory.Service

	state   inventoryState
	table   table.Model
	records []*inventory.Record
	form    *huh.Form

	ledger []inventory.Movement

	loading bool
	err     error
	status  string

	formType      string
	formQuantity  string
	formDate      string
	formReference string
}

func NewInventoryModel(inventorySvc *inventory.Service) InventoryModel {
	columns := []table.Column{
		{Title: "Material", Width: 38},
		{Title: "Stock", Width: 8},
		{Title: "Min", Width: 6},
		{Title: "Max", Width: 6},
		{Title: "Location", Width: 10},
		{Title: "Status", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return InventoryModel{
		inventoryService: inventorySvc,
		table:            t,
	}
}

func (m InventoryModel) Title() string { return "Inventory" }
func (m InventoryModel) ShortHelp() string {
	switch m.state {
	case inventoryStateMovement:
		return "Navigate form | Esc: cancel"
	case inventoryStateLedger:
		return "Esc: close ledger"
	}
	return "Esc: back | m: record movement | l: ledger | r: refresh"
}

func (m InventoryModel) Init() tea.Cmd {
	return m.loadRecordsCmd()
}

func (m InventoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadRecordsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.records = msg.records
		m.status = ""
		m.refreshTable()
		return m, nil

	case loadLedgerMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading ledger: %v", msg.err)
			m.state = inventoryStateBrowse
			return m, nil
		}
		m.ledger = msg.movements
		m.state = inventoryStateLedger
		return m, nil

	case movementSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}
		m.state = inventoryStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadRecordsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case inventoryStateBrowse:
		return m.updateBrowse(msg)
	case inventoryStateMovement:
		return m.updateMovement(msg)
	case inventoryStateLedger:
		return m.updateLedger(msg)
	}

	return m, nil
}

func (m InventoryModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadRecordsCmd()
		case "m":
			return m.enterMovementMode()
		case "l":
			if rec := m.selected(); rec != nil {
				return m, m.loadLedgerCmd(rec)
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m InventoryModel) selected() *inventory.Record {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.records) {
		return nil
	}

	return m.records[idx]
}

func (m InventoryModel) enterMovementMode() (tea.Model, tea.Cmd) {
	rec := m.selected()
	if rec == nil {
		return m, nil
	}

	m.formType = string(inventory.MovementIn)
	m.formQuantity = ""
	m.formDate = FormatDate(time.Now())
	m.formReference = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("type").
				Title("Movement Type").
				Options(
					huh.NewOption("In", string(inventory.MovementIn)),
					huh.NewOption("Out", string(inventory.MovementOut)),
					huh.NewOption("Adjustment", string(inventory.MovementAdjustment)),
				).
				Value(&m.formType),

			huh.NewInput().
				Key("quantity").
				Title("Quantity").
				Description("Adjustments take a signed quantity").
				Value(&m.formQuantity).
				Validate(validateQuantity),

			huh.NewInput().
				Key("date").
				Title("Movement Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.formDate).
				Validate(validateDate),

			huh.NewInput().
				Key("reference").
				Title("Reference").
				Placeholder("delivery note, stocktake...").
				Value(&m.formReference),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = inventoryStateMovement
	m.table.Blur()
	return m, m.form.Init()
}

func (m InventoryModel) updateMovement(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = inventoryStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveMovementCmd()
}

func (m InventoryModel) updateLedger(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = inventoryStateBrowse
			m.ledger = nil
			return m, nil
		}
	}

	return m, nil
}

func (m InventoryModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading inventory...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := tableView

	switch m.state {
	case inventoryStateMovement:
		if m.form != nil {
			panel := lipgloss.NewStyle().
				Padding(1, 2).
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("63")).
				Width(50).
				Render(fmt.Sprintf("Record Movement\n\n%s", m.form.View()))

			content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
		}
	case inventoryStateLedger:
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, m.ledgerPanel())
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m InventoryModel) ledgerPanel() string {
	var sb strings.Builder
	for _, mv := range m.ledger {
		sb.WriteString(fmt.Sprintf("%s %-10s %6s -> %d\n",
			FormatDate(mv.MovementDate), mv.Type, FormatEffect(mv), mv.BalanceAfter))
	}

	if len(m.ledger) == 0 {
		sb.WriteString("No movements recorded.")
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(46).
		Render(fmt.Sprintf("Movement Ledger\n\n%s", sb.String()))
}

func (m *InventoryModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.records))
	for _, rec := range m.records {
		maxStock := "-"
		if rec.MaximumStock != nil {
			maxStock = fmt.Sprintf("%d", *rec.MaximumStock)
		}

		rows = append(rows, table.Row{
			rec.MaterialID.String(),
			fmt.Sprintf("%d", rec.CurrentStock),
			fmt.Sprintf("%d", rec.MinimumStock),
			maxStock,
			rec.WarehouseLocation,
			stockBadge(rec.StockStatus()),
		})
	}
	m.table.SetRows(rows)
}

func stockBadge(s inventory.StockStatus) string {
	colors := map[inventory.StockStatus]string{
		inventory.StockOutOfStock:  "196",
		inventory.StockLow:         "214",
		inventory.StockNormal:      "46",
		inventory.StockOverstocked: "33",
	}

	return lipgloss.NewStyle().Foreground(lipgloss.Color(colors[s])).Render(string(s))
}

func validateQuantity(s string) error {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid quantity")
	}

	if v == 0 {
		return fmt.Errorf("quantity cannot be zero")
	}

	return nil
}

// Messages

type loadRecordsMsg struct {
	records []*inventory.Record
	err     error
}

func (m InventoryModel) loadRecordsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		records, err := m.inventoryService.List(ctx)
		return loadRecordsMsg{records: records, err: err}
	}
}

type loadLedgerMsg struct {
	movements []inventory.Movement
	err       error
}

func (m InventoryModel) loadLedgerCmd(rec *inventory.Record) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, movements, err := m.inventoryService.Ledger(ctx, rec.ID)
		return loadLedgerMsg{movements: movements, err: err}
	}
}

type movementSavedMsg struct {
	err error
}

func (m InventoryModel) saveMovementCmd() tea.Cmd {
	rec := m.selected()
	if rec == nil {
		return nil
	}

	quantity, _ := strconv.ParseInt(strings.TrimSpace(m.formQuantity), 10, 64)
	date, _ := time.Parse(time.DateOnly, strings.TrimSpace(m.formDate))
	params := inventory.MovementParams{
		Type:         inventory.MovementType(m.formType),
		Quantity:     quantity,
		MovementDate: date,
		Reference:    m.formReference,
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, _, err := m.inventoryService.RecordMovement(ctx, rec.ID, params)
		return movementSavedMsg{err: err}
	}
}
