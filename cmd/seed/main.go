package main

import (
	"context"
	"flag"
	"time"

	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/config"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/kafka"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/repository"
	"github.com/wrightcn2/Inventory-Search-Code-Test/pkg/logger"

	"go.uber.org/zap"
)

// Writes a generated dataset to a SQLite snapshot that the API can load
// with SQLITE_PATH. With -notify, a running API consuming the stock topic
// reloads the new snapshot.

var (
	dbPath  = flag.String("db", "", "Snapshot path (default SQLITE_PATH, then inventory.db)")
	records = flag.Int("records", 0, "Number of records (default SEED_RECORDS)")
	seed    = flag.Int64("seed", 0, "Generator seed (default SEED_VALUE)")
	notify  = flag.Bool("notify", false, "Publish InventoryItemUpdated to KAFKA_TOPIC_STOCK after writing")
)

func main() {
	flag.Parse()

	cfg := config.Load()
	appLogger := logger.New(cfg.Environment)
	defer appLogger.Sync()

	path := firstNonEmpty(*dbPath, cfg.SQLitePath, "inventory.db")
	count := cfg.SeedRecords
	if *records > 0 {
		count = *records
	}
	value := cfg.SeedValue
	if *seed != 0 {
		value = *seed
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	items := repository.Generate(count, value)
	if err := repository.WriteSnapshot(ctx, path, items); err != nil {
		appLogger.Fatal("Failed to write snapshot", zap.String("path", path), zap.Error(err))
	}

	appLogger.Info("Snapshot written",
		zap.String("path", path),
		zap.Int("records", len(items)),
		zap.Int64("seed", value),
	)

	if !*notify {
		return
	}
	publisher, err := kafka.NewPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create Kafka publisher", zap.Error(err))
	}
	defer publisher.Close()

	if err := publisher.Publish(ctx, kafka.EventItemUpdated, kafka.StockEvent{}); err != nil {
		appLogger.Fatal("Failed to announce snapshot", zap.Error(err))
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
