package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/vibrantgarden/almo/cmd/tui/internal/view"
	"github.com/vibrantgarden/almo/internal/config"
	"github.com/vibrantgarden/almo/internal/database"
	"github.com/vibrantgarden/almo/internal/export"
	"github.com/vibrantgarden/almo/internal/importer"
	"github.com/vibrantgarden/almo/internal/inventory"
	inventoryStore "github.com/vibrantgarden/almo/internal/inventory/store"
	"github.com/vibrantgarden/almo/internal/invoice"
	invoiceStore "github.com/vibrantgarden/almo/internal/invoice/store"
	"github.com/vibrantgarden/almo/internal/material"
	materialStore "github.com/vibrantgarden/almo/internal/material/store"
	"github.com/vibrantgarden/almo/internal/order"
	orderStore "github.com/vibrantgarden/almo/internal/order/store"
)

type model struct {
	materialService  *material.Service
	orderService     *order.Service
	invoiceService   *invoice.Service
	inventoryService *inventory.Service
	importService    *importer.Service
	exportService    *export.Service

	currentView View

	ordersView    view.OrdersModel
	invoicesView  view.InvoicesModel
	inventoryView view.InventoryModel
	importView    view.ImportModel
	exportView    view.ExportModel
}

type View int

const (
	ViewMenu      View = 0
	ViewOrders    View = 1
	ViewInvoices  View = 2
	ViewInventory View = 3
	ViewImport    View = 4
	ViewExport    View = 5
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	materialSvc := material.NewService(materialStore.New(db))
	orderSvc := order.NewService(orderStore.New(db))
	invoiceSvc := invoice.NewService(invoiceStore.New(db), orderSvc)
	inventorySvc := inventory.NewService(inventoryStore.New(db))
	impSvc := importer.NewService()
	expSvc := export.NewService(invoiceSvc, cfg.DMS.Token)

	return model{
		materialService:  materialSvc,
		orderService:     orderSvc,
		invoiceService:   invoiceSvc,
		inventoryService: inventorySvc,
		importService:    impSvc,
		exportService:    expSvc,
		currentView:      ViewMenu,
		ordersView:       view.NewOrdersModel(orderSvc),
		invoicesView:     view.NewInvoicesModel(invoiceSvc),
		inventoryView:    view.NewInventoryModel(inventorySvc),
		importView:       view.NewImportModel(impSvc, materialSvc, inventorySvc),
		exportView:       view.NewExportModel(expSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewOrders
				m.ordersView = view.NewOrdersModel(m.orderService)

				return m, m.ordersView.Init()
			case "2":
				m.currentView = ViewInvoices
				m.invoicesView = view.NewInvoicesModel(m.invoiceService)

				return m, m.invoicesView.Init()
			case "3":
				m.currentView = ViewInventory
				m.inventoryView = view.NewInventoryModel(m.inventoryService)

				return m, m.inventoryView.Init()
			case "4":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.importService, m.materialService, m.inventoryService)

				return m, m.importView.Init()
			case "5":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewOrders:
		var newModel tea.Model
		newModel, cmd = m.ordersView.Update(msg)
		m.ordersView = newModel.(view.OrdersModel)
	case ViewInvoices:
		var newModel tea.Model
		newModel, cmd = m.invoicesView.Update(msg)
		m.invoicesView = newModel.(view.InvoicesModel)
	case ViewInventory:
		var newModel tea.Model
		newModel, cmd = m.inventoryView.Update(msg)
		m.inventoryView = newModel.(view.InventoryModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Almo TUI\n\n" +
				"1. Purchase Orders\n" +
				"2. Invoices & Payments\n" +
				"3. Inventory Ledger\n" +
				"4. Import Movements\n" +
				"5. Export Invoice Documents\n\n" +
				"q. Quit",
		)
	case ViewOrders:
		return m.ordersView.View()
	case ViewInvoices:
		return m.invoicesView.View()
	case ViewInventory:
		return m.inventoryView.View()
	case ViewImport:
		return m.importView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
