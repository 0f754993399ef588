package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/vibrantgarden/almo/internal/order"
)

type ordersState int

const (
	ordersStateBrowse ordersState = iota
	ordersStateStatus
)

type OrdersModel struct {
	CommonModel
	orderService *order.Service

	state  ordersState
	table  table.Model
	orders []*order.Order
	form   *huh.Form

	statusFilterIdx int

	filter  order.ListFilter
	loading bool
	err     error
	status  string

	formStatus string
}

var orderStatusFilters = []order.Status{
	"", // all
	order.StatusDraft,
	order.StatusPending,
	order.StatusApproved,
	order.StatusShipped,
	order.StatusReceived,
	order.StatusCancelled,
}

func NewOrdersModel(orderSvc *order.Service) OrdersModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Status", Width: 10},
		{Title: "Items", Width: 6},
		{Title: "Total", Width: 12},
		{Title: "Supplier", Width: 38},
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

	return OrdersModel{
		orderService: orderSvc,
		table:        t,
		filter:       order.ListFilter{},
	}
}

func (m OrdersModel) Title() string { return "Purchase Orders" }
func (m OrdersModel) ShortHelp() string {
	if m.state == ordersStateStatus {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | x: change status | s: status filter | r: refresh"
}

func (m OrdersModel) Init() tea.Cmd {
	return m.loadOrdersCmd()
}

func (m OrdersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadOrdersMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.orders = msg.orders
		m.status = ""
		m.refreshTable()
		return m, nil

	case orderStatusSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}
		m.state = ordersStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadOrdersCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case ordersStateBrowse:
		return m.updateBrowse(msg)
	case ordersStateStatus:
		return m.updateStatus(msg)
	}

	return m, nil
}

func (m OrdersModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadOrdersCmd()
		case "x":
			return m.enterStatusMode()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(orderStatusFilters)
			m.applyFilter()
			return m, m.loadOrdersCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m OrdersModel) enterStatusMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.orders) {
		return m, nil
	}

	m.formStatus = string(m.orders[idx].Status)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("status").
				Title("Order Status").
				Options(
					huh.NewOption("Draft", string(order.StatusDraft)),
					huh.NewOption("Pending", string(order.StatusPending)),
					huh.NewOption("Approved", string(order.StatusApproved)),
					huh.NewOption("Shipped", string(order.StatusShipped)),
					huh.NewOption("Received", string(order.StatusReceived)),
					huh.NewOption("Cancelled", string(order.StatusCancelled)),
				).
				Value(&m.formStatus),
		),
	).WithWidth(40).WithShowHelp(false)

	m.state = ordersStateStatus
	m.table.Blur()
	return m, m.form.Init()
}

func (m OrdersModel) updateStatus(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = ordersStateBrowse
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

	return m, m.saveStatusCmd()
}

func (m OrdersModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading orders...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	filterLabel := "All"
	if s := orderStatusFilters[m.statusFilterIdx]; s != "" {
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

	if panel := m.itemsPanel(); panel != "" {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// itemsPanel renders the selected order's lines, or the status form when the
// user is changing status.
func (m OrdersModel) itemsPanel() string {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.orders) {
		return ""
	}

	o := m.orders[idx]

	var sb strings.Builder
	for _, item := range o.Items {
		sb.WriteString(fmt.Sprintf("%4d x %-10s = %s\n",
			item.Quantity, FormatAmount(item.UnitPrice), FormatAmount(item.LineTotal())))
	}
	sb.WriteString(fmt.Sprintf("\nTotal: %s", FormatAmount(o.TotalAmount)))

	body := sb.String()
	if m.state == ordersStateStatus && m.form != nil {
		body = m.form.View()
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(42).
		Render(fmt.Sprintf("Order %s\n\n%s", o.ID.String()[:8], body))
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *OrdersModel) applyFilter() {
	if s := orderStatusFilters[m.statusFilterIdx]; s != "" {
		m.filter.Status = new(s)
	} else {
		m.filter.Status = nil
	}
}

func (m *OrdersModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.orders))
	for _, o := range m.orders {
		rows = append(rows, table.Row{
			FormatDate(o.OrderDate),
			string(o.Status),
			fmt.Sprintf("%d", len(o.Items)),
			FormatAmount(o.TotalAmount),
			o.SupplierID.String(),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadOrdersMsg struct {
	orders []*order.Order
	err    error
}

func (m OrdersModel) loadOrdersCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		orders, err := m.orderService.List(ctx, m.filter)
		return loadOrdersMsg{orders: orders, err: err}
	}
}

type orderStatusSavedMsg struct {
	err error
}

func (m OrdersModel) saveStatusCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.orders) {
		return nil
	}

	o := m.orders[idx]
	status := order.Status(m.formStatus)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return orderStatusSavedMsg{err: m.orderService.UpdateStatus(ctx, o.ID, status)}
	}
}
