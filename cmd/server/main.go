package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/hexa-center/book-a-room/internal/config"
	"github.com/hexa-center/book-a-room/internal/export"
	httpserver "github.com/hexa-center/book-a-room/internal/interfaces/http"
	"github.com/hexa-center/book-a-room/internal/invoice"
	"github.com/hexa-center/book-a-room/internal/mail"
	"github.com/hexa-center/book-a-room/internal/repository"
	"github.com/hexa-center/book-a-room/internal/twinfield"
	"github.com/hexa-center/book-a-room/pkg/database"
	"github.com/hexa-center/book-a-room/pkg/utils"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting book-a-room",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	roomRepo := repository.NewRoomRepository(db.DB, logger)
	customerRepo := repository.NewCustomerRepository(db.DB, logger)
	bookingRepo := repository.NewBookingRepository(db.DB, logger)
	settingsRepo := repository.NewSettingsRepository(db.DB, logger)
	invoiceRepo := repository.NewInvoiceRepository(db.DB, logger)

	invoiceService := invoice.NewService(db, bookingRepo, roomRepo,
		customerRepo, settingsRepo, invoiceRepo, logger)

	session := twinfield.NewSession(cfg.Twinfield, logger)
	accounting := twinfield.NewClient(cfg.Twinfield, session, logger)
	mailer := mail.NewSender(cfg.Mail, logger)
	register := export.NewRegister(logger)

	handlers := httpserver.NewHandlers(roomRepo, customerRepo, bookingRepo,
		settingsRepo, invoiceRepo, invoiceService, mailer, register,
		session, accounting, logger)

	server := httpserver.NewServer(cfg.Server, handlers, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
