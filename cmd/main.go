package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	apicontext "github.com/s123600g/tokenforge/internal/api/http/context"
	"github.com/s123600g/tokenforge/internal/api/http/router"
	"github.com/s123600g/tokenforge/internal/config"
	"github.com/s123600g/tokenforge/internal/logger"
	"github.com/s123600g/tokenforge/internal/model"
	"github.com/s123600g/tokenforge/internal/repository/memory"
	"github.com/s123600g/tokenforge/internal/repository/postgres"
	"github.com/s123600g/tokenforge/internal/repository/sqlite"
	"github.com/s123600g/tokenforge/internal/server"
	"github.com/s123600g/tokenforge/internal/service"
	"github.com/s123600g/tokenforge/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	store, closeStore, err := newLineageStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize lineage store", "adapter", cfg.Database.Adapter, "error", err)
	}
	defer closeStore()

	signer := token.NewSigner()
	lifecycle := service.NewTokenLifecycle(store, signer, logger)
	ctxMgr := apicontext.NewManager()

	r := router.New(lifecycle, signer, ctxMgr, cfg, logger)
	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func newLineageStore(ctx context.Context, cfg *config.Config) (model.LineageStore, func(), error) {
	switch cfg.Database.Adapter {
	case "postgres":
		db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewLineageRepository(db), func() { db.Close() }, nil
	case "sqlite":
		repo, err := sqlite.Open(cfg.Database.SQLiteFile)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil
	case "memory":
		return memory.NewLineageRepository(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown database adapter %q", cfg.Database.Adapter)
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
