package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sentinela_corte_bot/internal/app"
	"sentinela_corte_bot/internal/domain/alert"
	"sentinela_corte_bot/internal/domain/report"
	"sentinela_corte_bot/internal/infra/config"
	idb "sentinela_corte_bot/internal/infra/database"
	"sentinela_corte_bot/internal/infra/logger"
	"sentinela_corte_bot/internal/infra/mailer"
	ireport "sentinela_corte_bot/internal/infra/report"
	"sentinela_corte_bot/internal/infra/scheduler"
	"sentinela_corte_bot/internal/infra/state"
	"sentinela_corte_bot/internal/infra/telegram"

	"github.com/redis/go-redis/v9"
)

func main() {
	fmt.Println("Sentinela Corte starting...")

	mode := flag.String("mode", "loop", "manual: send one report now; loop: run the standing scheduler")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg)
	log.Infof("Configuration loaded. Mode: %s, ScheduleMode: %s, StateBackend: %s", *mode, cfg.ScheduleMode, cfg.StateBackend)

	// Sales database (Oracle).
	salesDB, err := idb.NewOracleConnection(cfg.OracleDSN())
	if err != nil {
		log.Fatalf("FATAL: Could not connect to sales database: %v", err)
	}
	defer salesDB.Close()
	log.Info("Sales database connection established.")

	salesRepo := idb.NewOracleSalesRepository(salesDB, idb.NewQueryLoader(cfg.SQLDir))
	movementRepo := idb.NewOracleMovementRepository(salesRepo, log)

	// Run-state store.
	var store report.StateStore
	switch cfg.StateBackend {
	case config.StateBackendPostgres:
		stateDB, err := idb.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("FATAL: Could not connect to state database: %v", err)
		}
		defer stateDB.Close()
		store = state.NewPostgresStore(stateDB, log)
	case config.StateBackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		defer client.Close()
		store = state.NewRedisStore(client, log)
	default:
		store = state.NewFileStore(cfg.StatePath, log)
	}
	log.Infof("Run-state store initialized (%s).", cfg.StateBackend)

	// Report pipeline.
	mail := mailer.NewClient(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPassword)
	producer := ireport.NewEmailProducer(salesRepo, mail, log, cfg.TemplatePath, cfg.EmailTo, cfg.EmailCc, cfg.EmailBcc)

	// Optional failure alerting.
	var alerter alert.Alerter = alert.Nop{}
	if cfg.TelegramToken != "" && cfg.TelegramAlertChatID != 0 {
		tg, err := telegram.NewAlerter(cfg.TelegramToken, cfg.TelegramAlertChatID, log)
		if err != nil {
			log.Fatalf("FATAL: Could not create Telegram alerter: %v", err)
		}
		alerter = tg
		log.Info("Telegram failure alerting enabled.")
	}

	gate := app.NewCycleService(store, movementRepo, producer, alerter, log,
		cfg.TargetTime, cfg.MovementCategories, cfg.MovementCombine)

	if *mode == "manual" {
		if err := gate.RunManual(context.Background(), time.Now()); err != nil {
			log.Fatalf("Manual cycle failed: %v", err)
		}
		log.Info("Manual cycle completed.")
		return
	}

	var agenda *config.Agenda
	if cfg.ScheduleMode == config.ModeAgenda {
		agenda, err = config.LoadAgenda(cfg.AgendaPath)
		if err != nil {
			log.Fatalf("FATAL: Could not load agenda: %v", err)
		}
	}

	sched := scheduler.NewReportScheduler(gate, log, cfg, agenda)
	if err := sched.Start(); err != nil {
		log.Fatalf("FATAL: Could not start scheduler: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	sched.Stop()
	log.Info("Sentinela Corte shut down gracefully.")
}
