package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mjcarver/gymledger/internal/backup"
	"github.com/mjcarver/gymledger/internal/billing"
	"github.com/mjcarver/gymledger/internal/database"
	"github.com/mjcarver/gymledger/internal/logging"
	"github.com/mjcarver/gymledger/internal/push"
	"github.com/mjcarver/gymledger/internal/server"
)

func main() {
	generateKeys := flag.Bool("generate-vapid-keys", false, "generate a VAPID key pair and exit")
	flag.Parse()

	if *generateKeys {
		pub, priv, err := push.GenerateVAPIDKeys()
		if err != nil {
			fmt.Fprintf(os.Stderr, "generate VAPID keys: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("GYMLEDGER_VAPID_PUBLIC_KEY=%s\n", pub)
		fmt.Printf("GYMLEDGER_VAPID_PRIVATE_KEY=%s\n", priv)
		return
	}

	logger := logging.Setup(os.Getenv("GYMLEDGER_LOG_LEVEL"))

	port := envDefault("GYMLEDGER_PORT", "8080")
	dbPath := envDefault("GYMLEDGER_DB_PATH", "gymledger.db")

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	billingCfg := billing.Config{
		SecretKey:     os.Getenv("GYMLEDGER_STRIPE_SECRET_KEY"),
		WebhookSecret: os.Getenv("GYMLEDGER_STRIPE_WEBHOOK_SECRET"),
		SuccessURL:    envDefault("GYMLEDGER_CHECKOUT_SUCCESS_URL", "http://localhost:"+port+"/payment/success"),
		CancelURL:     envDefault("GYMLEDGER_CHECKOUT_CANCEL_URL", "http://localhost:"+port+"/payment/cancel"),
		Currency:      os.Getenv("GYMLEDGER_CURRENCY"),
	}

	pushCfg := push.Config{
		VAPIDPublicKey:  os.Getenv("GYMLEDGER_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("GYMLEDGER_VAPID_PRIVATE_KEY"),
		Subscriber:      os.Getenv("GYMLEDGER_VAPID_SUBSCRIBER"),
	}
	if !pushCfg.Enabled() {
		logger.Info("VAPID keys not set, push delivery disabled")
	}

	backupCfg := backup.Config{
		S3: backup.S3Config{
			Endpoint:  os.Getenv("GYMLEDGER_S3_ENDPOINT"),
			Bucket:    os.Getenv("GYMLEDGER_S3_BUCKET"),
			Region:    envDefault("GYMLEDGER_S3_REGION", "us-east-1"),
			AccessKey: os.Getenv("GYMLEDGER_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("GYMLEDGER_S3_SECRET_KEY"),
		},
		DBPath:        dbPath,
		ScheduleHour:  envInt("GYMLEDGER_BACKUP_HOUR", 3),
		RetentionDays: envInt("GYMLEDGER_BACKUP_RETENTION_DAYS", 30),
	}

	srv := server.New(db, billingCfg, pushCfg, backupCfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv.Scheduler().Start(ctx)
	defer srv.Scheduler().Stop()
	srv.BackupManager().Start(ctx)
	defer srv.BackupManager().Stop()

	go cleanupLoop(ctx, srv, logger)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("gymledger listening", "port", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

// cleanupLoop prunes expired sessions, stale reminder dedup records, and rate
// limiter entries once an hour.
func cleanupLoop(ctx context.Context, srv *server.Server, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := srv.SessionStore().DeleteExpired(); err != nil {
				logger.Error("cleanup sessions", "error", err)
			} else if n > 0 {
				logger.Debug("expired sessions removed", "count", n)
			}

			// Reminder records for end dates more than a year gone can
			// never match a live membership again
			cutoff := time.Now().UTC().AddDate(-1, 0, 0)
			if n, err := srv.ReminderStore().CleanupBefore(cutoff); err != nil {
				logger.Error("cleanup reminders", "error", err)
			} else if n > 0 {
				logger.Debug("stale reminder records removed", "count", n)
			}

			srv.RateLimiter().Cleanup()
		}
	}
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
