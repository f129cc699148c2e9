package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pdiazg46-design/app-finanza-Facil/internal/domain/budget"
	budgethandler "github.com/pdiazg46-design/app-finanza-Facil/internal/domain/budget/handler"
	"github.com/pdiazg46-design/app-finanza-Facil/internal/domain/fund"
	fundhandler "github.com/pdiazg46-design/app-finanza-Facil/internal/domain/fund/handler"
	"github.com/pdiazg46-design/app-finanza-Facil/internal/domain/voice"
	voicehandler "github.com/pdiazg46-design/app-finanza-Facil/internal/domain/voice/handler"
	"github.com/pdiazg46-design/app-finanza-Facil/pkg/config"
	"github.com/pdiazg46-design/app-finanza-Facil/pkg/cron"
	"github.com/pdiazg46-design/app-finanza-Facil/pkg/db"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Repositories
	BudgetRepo *budget.Repository

	// Services
	Parser        *voice.Parser
	BudgetService *budget.Service
	FundService   *fund.Service
	Scheduler     *cron.Scheduler

	// Handlers
	VoiceHandler  *voicehandler.VoiceHandler
	BudgetHandler *budgethandler.BudgetHandler
	FundHandler   *fundhandler.FundHandler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	deps.initServices()
	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

// initServices initializes the repository and service layers
func (d *Dependencies) initServices() {
	d.BudgetRepo = budget.NewRepository(d.DB.Pool)

	d.Parser = voice.NewParser(voice.NewLexicon())
	d.BudgetService = budget.NewService(
		d.BudgetRepo,
		d.Parser,
		d.Logger,
		d.Config.Voice.HistoryWindow,
		d.Config.Voice.HotProvisionWindow,
	)
	d.FundService = fund.NewService(d.BudgetRepo, d.BudgetService, d.Logger)
	d.Scheduler = cron.NewScheduler(d.BudgetService, d.Config.Voice.RefreshSchedule, d.Logger)

	d.Logger.Info("services initialized")
}

// initHandlers initializes all handler dependencies
func (d *Dependencies) initHandlers() {
	d.VoiceHandler = voicehandler.NewVoiceHandler(d.BudgetService, d.Parser, d.Config.Voice.DefaultCurrency)
	d.BudgetHandler = budgethandler.NewBudgetHandler(d.BudgetService, d.BudgetRepo)
	d.FundHandler = fundhandler.NewFundHandler(d.FundService)

	d.Logger.Info("handlers initialized")
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
