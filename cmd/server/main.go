package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"puntoventa/backend/internal/config"
	"puntoventa/backend/internal/display"
	"puntoventa/backend/internal/httpapi"
	"puntoventa/backend/internal/invoicing"
	"puntoventa/backend/internal/ledger"
	"puntoventa/backend/internal/sale"
	"puntoventa/backend/internal/statestore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if err := validateSecurityConfig(cfg); err != nil {
		log.Fatalf("invalid security configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	closers := make([]func() error, 0, 3)

	var snapshots statestore.SnapshotStore
	switch {
	case cfg.DatabaseURL != "":
		pg, err := statestore.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres unavailable (%v) and DATABASE_URL is set; refusing to start without durable state", err)
		}
		snapshots = pg
		closers = append(closers, pg.Close)
		log.Println("state store: postgres")
	case cfg.RedisAddr != "":
		rs := statestore.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rs.Ping(ctx); err != nil {
			log.Printf("redis unavailable (%v), state will not survive restarts", err)
			snapshots = statestore.Noop{}
		} else {
			snapshots = rs
			closers = append(closers, rs.Close)
			log.Println("state store: redis")
		}
	default:
		snapshots = statestore.NewMemory()
		log.Println("state store: in-memory (state will not survive restarts)")
	}

	var sink display.Sink = display.Noop{}
	if cfg.RedisAddr != "" {
		rd := display.NewRedisSink(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.DisplayChannel)
		if err := rd.Ping(ctx); err != nil {
			log.Printf("display channel unavailable (%v), mirroring disabled", err)
		} else {
			sink = rd
			closers = append(closers, rd.Close)
			log.Println("display: redis pub/sub")
		}
	}

	var invoicer sale.Invoicer
	if cfg.InvoicingURL != "" {
		client, err := invoicing.NewClient(cfg.InvoicingURL, cfg.InvoicingToken, cfg.InvoicingTimeout())
		if err != nil {
			log.Fatalf("invoicing client: %v", err)
		}
		invoicer = client
		log.Println("invoicing: remote")
	} else {
		log.Println("invoicing: disabled, issuing training documents")
	}

	builder := sale.NewBuilder(invoicer, cfg.InvoicingTimeout())
	engine := ledger.NewEngine(builder, snapshots, sink, cfg.Settings())
	engine.Load(ctx)

	auth := httpapi.NewAuthManager(
		cfg.AuthSecret,
		time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute,
		cfg.SeedAdminPassword,
		cfg.SeedCashierPassword,
	)
	api := httpapi.New(engine, auth, cfg.AllowedOrigin)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("POS backend listening on %s", cfg.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Printf("close error: %v", err)
		}
	}

	log.Println("server stopped")
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be set and at least 32 characters")
	}
	return nil
}
