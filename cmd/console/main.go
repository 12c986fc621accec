package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/cache"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/client"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/config"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/orchestrator"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/query"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/repository"
	"github.com/wrightcn2/Inventory-Search-Code-Test/pkg/logger"

	"go.uber.org/zap"
)

// Interactive search client. Reads commands from stdin and prints every
// state the orchestrator publishes.

var (
	local   = flag.Bool("local", false, "Query a generated in-process dataset instead of the HTTP service")
	baseURL = flag.String("url", "", "Inventory Search API base URL (default QUERY_SERVICE_URL)")
)

func main() {
	flag.Parse()

	cfg := config.Load()
	if *baseURL != "" {
		cfg.QueryServiceURL = *baseURL
	}

	appLogger := logger.New(cfg.Environment)
	defer appLogger.Sync()

	transport := newTransport(cfg, appLogger)
	searcher := client.NewCachedClient(transport, cache.Options{
		TTL:      cfg.CacheTTL,
		Capacity: cfg.CacheCapacity,
		Logger:   appLogger,
	})
	defer searcher.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	orch := orchestrator.New(searcher, orchestrator.Options{
		Debounce: cfg.Debounce,
		Logger:   appLogger,
		OnChange: func(s orchestrator.State) { printState(os.Stdout, s) },
	})
	go orch.Run(ctx)

	fmt.Fprintln(os.Stdout, helpText)
	if err := runREPL(ctx, os.Stdin, os.Stdout, orch); err != nil {
		appLogger.Error("Console stopped", zap.Error(err))
	}
}

func newTransport(cfg *config.Config, log *zap.Logger) client.Transport {
	if *local {
		log.Info("Using generated dataset",
			zap.Int("records", cfg.SeedRecords),
			zap.Int64("seed", cfg.SeedValue),
		)
		repo := repository.NewInMemoryRepository(repository.Generate(cfg.SeedRecords, cfg.SeedValue))
		return client.NewLocalTransport(query.NewEngine(repo))
	}
	log.Info("Using Inventory Search API", zap.String("url", cfg.QueryServiceURL))
	return client.NewHTTPTransport(cfg.QueryServiceURL, cfg.TransportTimeout, log)
}

// runREPL applies one command per line until quit, EOF or ctx is done
func runREPL(ctx context.Context, in io.Reader, out io.Writer, orch *orchestrator.Orchestrator) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		cmd, err := parseCommand(scanner.Text())
		if err != nil {
			fmt.Fprintln(out, "error:", err)
			continue
		}
		quit, err := cmd.apply(orch, out)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}
