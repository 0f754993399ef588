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

	"github.com/vibrantgarden/almo/internal/invoice"
)

type invoicesState int

const (
	invoicesStateBrowse invoicesState = iota
	invoicesStatePayment
	invoicesStateStatus
	invoicesStateDocument
)

type InvoicesModel struct {
	CommonModel
	invoiceService *invoice.Service

	state    invoicesState
	table    table.Model
	invoices []*invoice.Invoice
	form     *huh.Form

	statusFilterIdx int

	filter  invoice.ListFilter
	loading bool
	err     error
	status  string

	formAmount    string
	formDate      string
	formMethod    string
	formReference string
	formStatus    string
	formURL       string
}

var invoiceStatusFilters = []invoice.Status{
	"", // all
	invoice.StatusPending,
	invoice.StatusPaid,
	invoice.StatusCancelled,
}

func NewInvoicesModel(invoiceSvc *invoice.Service) InvoicesModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Number", Width: 16},
		{Title: "Status", Width: 10},
		{Title: "Total", Width: 12},
		{Title: "Outstanding", Width: 12},
		{Title: "Document", Width: 30},
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

	return InvoicesModel{
		invoiceService: invoiceSvc,
		table:          t,
		filter:         invoice.ListFilter{},
	}
}

func (m InvoicesModel) Title() string { return "Invoices" }
func (m InvoicesModel) ShortHelp() string {
	if m.state != invoicesStateBrowse {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | p: add payment | x: change status | u: attach document | s: status filter | r: refresh"
}

func (m InvoicesModel) Init() tea.Cmd {
	return m.loadInvoicesCmd()
}

func (m InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadInvoicesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.invoices = msg.invoices
		m.status = ""
		m.refreshTable()
		return m, nil

	case invoiceSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}
		m.state = invoicesStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadInvoicesCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == invoicesStateBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateForm(msg)
}

func (m InvoicesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadInvoicesCmd()
		case "p":
			return m.enterPaymentMode()
		case "x":
			return m.enterStatusMode()
		case "u":
			return m.enterDocumentMode()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(invoiceStatusFilters)
			m.applyFilter()
			return m, m.loadInvoicesCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m InvoicesModel) selected() *invoice.Invoice {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.invoices) {
		return nil
	}

	return m.invoices[idx]
}

func (m InvoicesModel) enterPaymentMode() (tea.Model, tea.Cmd) {
	inv := m.selected()
	if inv == nil {
		return m, nil
	}

	m.formAmount = FormatAmount(inv.Outstanding())
	m.formDate = FormatDate(time.Now())
	m.formMethod = "transfer"
	m.formReference = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title("Amount (EUR)").
				Value(&m.formAmount).
				Validate(validateAmount),

			huh.NewInput().
				Key("date").
				Title("Payment Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.formDate).
				Validate(validateDate),

			huh.NewSelect[string]().
				Key("method").
				Title("Method").
				Options(
					huh.NewOption("Transfer", "transfer"),
					huh.NewOption("Cheque", "cheque"),
					huh.NewOption("Cash", "cash"),
				).
				Value(&m.formMethod),

			huh.NewInput().
				Key("reference").
				Title("Reference").
				Placeholder("optional").
				Value(&m.formReference),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = invoicesStatePayment
	m.table.Blur()
	return m, m.form.Init()
}

func (m InvoicesModel) enterStatusMode() (tea.Model, tea.Cmd) {
	inv := m.selected()
	if inv == nil {
		return m, nil
	}

	m.formStatus = string(inv.Status)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("status").
				Title("Invoice Status").
				Options(
					huh.NewOption("Pending", string(invoice.StatusPending)),
					huh.NewOption("Paid", string(invoice.StatusPaid)),
					huh.NewOption("Cancelled", string(invoice.StatusCancelled)),
				).
				Value(&m.formStatus),
		),
	).WithWidth(40).WithShowHelp(false)

	m.state = invoicesStateStatus
	m.table.Blur()
	return m, m.form.Init()
}

func (m InvoicesModel) enterDocumentMode() (tea.Model, tea.Cmd) {
	inv := m.selected()
	if inv == nil {
		return m, nil
	}

	m.formURL = inv.DocumentURL

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("document_url").
				Title("Document URL").
				Placeholder("https://...").
				Value(&m.formURL),
		),
	).WithWidth(60).WithShowHelp(false)

	m.state = invoicesStateDocument
	m.table.Blur()
	return m, m.form.Init()
}

func (m InvoicesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = invoicesStateBrowse
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

	switch m.state {
	case invoicesStatePayment:
		return m, m.savePaymentCmd()
	case invoicesStateStatus:
		return m, m.saveStatusCmd()
	case invoicesStateDocument:
		return m, m.saveDocumentCmd()
	}

	return m, nil
}

func (m InvoicesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading invoices...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	filterLabel := "All"
	if s := invoiceStatusFilters[m.statusFilterIdx]; s != "" {
		filterLabel = string(s)
	}

	header := fmt.Sprintf("Filter: [s] Status: %s", activeStyle(filterLabel))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state != invoicesStateBrowse && m.form != nil {
		titles := map[invoicesState]string{
			invoicesStatePayment:  "Add Payment",
			invoicesStateStatus:   "Change Status",
			invoicesStateDocument: "Attach Document",
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(50).
			Render(fmt.Sprintf("%s\n\n%s", titles[m.state], m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *InvoicesModel) applyFilter() {
	if s := invoiceStatusFilters[m.statusFilterIdx]; s != "" {
		m.filter.Status = new(s)
	} else {
		m.filter.Status = nil
	}
}

func (m *InvoicesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.invoices))
	for _, inv := range m.invoices {
		rows = append(rows, table.Row{
			FormatDate(inv.InvoiceDate),
			inv.Number,
			string(inv.Status),
			FormatAmount(inv.TotalAmount),
			FormatAmount(inv.Outstanding()),
			inv.DocumentURL,
		})
	}
	m.table.SetRows(rows)
}

func validateAmount(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("invalid amount")
	}

	if v <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	return nil
}

func validateDate(s string) error {
	if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}

	return nil
}

// Messages

type loadInvoicesMsg struct {
	invoices []*invoice.Invoice
	err      error
}

func (m InvoicesModel) loadInvoicesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		invoices, err := m.invoiceService.List(ctx, m.filter)
		return loadInvoicesMsg{invoices: invoices, err: err}
	}
}

type invoiceSavedMsg struct {
	err error
}

func (m InvoicesModel) savePaymentCmd() tea.Cmd {
	inv := m.selected()
	if inv == nil {
		return nil
	}

	amount, _ := strconv.ParseFloat(strings.TrimSpace(m.formAmount), 64)
	date, _ := time.Parse(time.DateOnly, strings.TrimSpace(m.formDate))
	params := invoice.PaymentParams{
		PaymentDate: date,
		Amount:      int64(amount*100 + 0.5),
		Method:      m.formMethod,
		Reference:   m.formReference,
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.invoiceService.AddPayment(ctx, inv.ID, params)
		return invoiceSavedMsg{err: err}
	}
}

func (m InvoicesModel) saveStatusCmd() tea.Cmd {
	inv := m.selected()
	if inv == nil {
		return nil
	}

	status := invoice.Status(m.formStatus)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return invoiceSavedMsg{err: m.invoiceService.UpdateStatus(ctx, inv.ID, status)}
	}
}

func (m InvoicesModel) saveDocumentCmd() tea.Cmd {
	inv := m.selected()
	if inv == nil {
		return nil
	}

	url := m.formURL

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return invoiceSavedMsg{err: m.invoiceService.AttachDocument(ctx, inv.ID, url)}
	}
}
