package main

import (
	"fmt"
	"os"

	"github.com/nurpe/jobdesk-billing/internal/config"
	"github.com/nurpe/jobdesk-billing/internal/db"
	"github.com/nurpe/jobdesk-billing/internal/excel"
	httphandler "github.com/nurpe/jobdesk-billing/internal/http"
	"github.com/nurpe/jobdesk-billing/internal/http/middleware"
	"github.com/nurpe/jobdesk-billing/internal/logger"
	"github.com/nurpe/jobdesk-billing/internal/pdf"
	"github.com/nurpe/jobdesk-billing/internal/repository"
	"github.com/nurpe/jobdesk-billing/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	ledger := repository.NewLedgerRepository(database)
	billing := service.NewBillingService(ledger, excel.NewGenerator(), pdf.NewGenerator(), cfg, log)

	handler := httphandler.NewHandler(billing, log)
	router := httphandler.NewRouter(handler, middleware.Profile(), cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting billing service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
