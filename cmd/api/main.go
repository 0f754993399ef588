package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/vibrantgarden/almo/internal/config"
	"github.com/vibrantgarden/almo/internal/database"
	"github.com/vibrantgarden/almo/internal/export"
	almoHttp "github.com/vibrantgarden/almo/internal/http"
	exportHandler "github.com/vibrantgarden/almo/internal/http/export"
	importHandler "github.com/vibrantgarden/almo/internal/http/importcsv"
	inventoryHandler "github.com/vibrantgarden/almo/internal/http/inventory"
	invoiceHandler "github.com/vibrantgarden/almo/internal/http/invoice"
	materialHandler "github.com/vibrantgarden/almo/internal/http/material"
	orderHandler "github.com/vibrantgarden/almo/internal/http/order"
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

func main() {
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
	defer db.Close()

	var (
		materialService  = material.NewService(materialStore.New(db))
		orderService     = order.NewService(orderStore.New(db))
		invoiceService   = invoice.NewService(invoiceStore.New(db), orderService)
		inventoryService = inventory.NewService(inventoryStore.New(db))
		importService    = importer.NewService()
		exportService    = export.NewService(invoiceService, cfg.DMS.Token)
	)

	var (
		materialH  = materialHandler.NewHandler(materialService)
		orderH     = orderHandler.NewHandler(orderService)
		invoiceH   = invoiceHandler.NewHandler(invoiceService)
		inventoryH = inventoryHandler.NewHandler(inventoryService)
		importH    = importHandler.NewHandler(importService, materialService, inventoryService)
		exportH    = exportHandler.NewHandler(exportService)
	)

	router := almoHttp.New(cfg.Auth.Secret, materialH, orderH, invoiceH, inventoryH, importH, exportH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
