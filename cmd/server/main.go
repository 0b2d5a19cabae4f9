package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"github.com/dvloznov/receipt-ledger/internal/api/handlers"
	"github.com/dvloznov/receipt-ledger/internal/api/middleware"
	"github.com/dvloznov/receipt-ledger/internal/archive"
	"github.com/dvloznov/receipt-ledger/internal/bot"
	"github.com/dvloznov/receipt-ledger/internal/config"
	"github.com/dvloznov/receipt-ledger/internal/extraction"
	"github.com/dvloznov/receipt-ledger/internal/ledger"
	"github.com/dvloznov/receipt-ledger/internal/logger"
	"github.com/dvloznov/receipt-ledger/internal/pipeline"
)

func main() {
	// A local .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	// Client handles are initialized once here and treated as read-only for
	// the life of the process. A handle that fails to initialize stays nil
	// and the pipeline reports a configuration error per request instead of
	// crashing the process; the other front end keeps working.
	var extractor pipeline.Extractor
	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY not set - extraction disabled")
	} else if client, err := extraction.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log); err != nil {
		log.Warn().Err(err).Msg("Failed to initialize extraction client")
	} else {
		extractor = client
	}

	var appender pipeline.Appender
	switch cfg.LedgerBackend {
	case config.BackendSheets:
		if a, err := ledger.NewSheetsAppender(ctx, cfg.CredentialsFile, cfg.SpreadsheetID, cfg.SheetName, log); err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Sheets ledger")
		} else {
			appender = a
		}
	case config.BackendBigQuery:
		if a, err := ledger.NewBigQueryAppender(ctx, cfg.BigQueryProject, cfg.BigQueryDataset, cfg.BigQueryTable, log); err != nil {
			log.Warn().Err(err).Msg("Failed to initialize BigQuery ledger")
		} else {
			appender = a
			defer a.Close()
		}
	case config.BackendCSV:
		if a, err := ledger.NewCSVAppender(cfg.CSVPath, log); err != nil {
			log.Warn().Err(err).Msg("Failed to initialize CSV ledger")
		} else {
			appender = a
		}
	}

	pipe := pipeline.New(extractor, appender, log)

	if cfg.ArchiveBucket != "" {
		if arch, err := archive.NewGCSArchive(ctx, cfg.ArchiveBucket, log); err != nil {
			log.Warn().Err(err).Msg("Failed to initialize image archive")
		} else {
			pipe.WithArchive(arch)
			defer arch.Close()
		}
	}

	transactionsHandler := handlers.NewTransactionsHandler(pipe, log)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/process_transaction", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			transactionsHandler.ProcessTransaction(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		}
	})

	mux.HandleFunc("/health", handlers.Health)

	if cfg.TelegramBotToken == "" {
		log.Warn().Msg("TELEGRAM_BOT_TOKEN not set - Telegram front end disabled")
	} else if botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken); err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Telegram bot")
	} else {
		botHandler := bot.New(botAPI, pipe, log)

		if cfg.WebhookSecret == "" {
			log.Warn().Msg("WEBHOOK_SECRET not set - Telegram webhook disabled")
		} else {
			webhook := botHandler.WebhookHandler()
			mux.HandleFunc("/"+cfg.WebhookSecret, func(w http.ResponseWriter, r *http.Request) {
				if r.Method == http.MethodPost {
					webhook(w, r)
				} else {
					middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
				}
			})

			if cfg.PublicBaseURL != "" {
				if err := botHandler.RegisterWebhook(cfg.PublicBaseURL, cfg.WebhookSecret); err != nil {
					log.Warn().Err(err).Msg("Failed to register Telegram webhook")
				}
			}
		}
	}

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("ledger_backend", cfg.LedgerBackend).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
