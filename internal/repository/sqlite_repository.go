package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS inventory_items (
	id                 INTEGER PRIMARY KEY,
	part_number        TEXT NOT NULL,
	supplier_sku       TEXT NOT NULL,
	description        TEXT NOT NULL,
	branch             TEXT NOT NULL,
	available_qty      INTEGER NOT NULL CHECK (available_qty >= 0),
	uom                TEXT NOT NULL,
	lead_time_days     INTEGER,
	last_purchase_date TEXT
);
CREATE TABLE IF NOT EXISTS inventory_lots (
	item_id         INTEGER NOT NULL REFERENCES inventory_items(id),
	seq             INTEGER NOT NULL,
	lot_number      TEXT NOT NULL,
	qty             INTEGER NOT NULL,
	expiration_date TEXT,
	PRIMARY KEY (item_id, seq)
);
`

// NewSQLiteRepository loads a snapshot database into an in-memory repository.
// The database is read once per call; SnapshotRepository calls it again on reload.
func NewSQLiteRepository(ctx context.Context, dbPath string) (*InMemoryReadRepository, error) {
	db, err := sql.Open("sqlite3", dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	items, err := loadItems(ctx, db)
	if err != nil {
		return nil, err
	}
	return NewInMemoryRepository(items), nil
}

func loadItems(ctx context.Context, db *sql.DB) ([]models.InventoryItem, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, part_number, supplier_sku, description, branch, available_qty, uom,
		       lead_time_days, last_purchase_date
		FROM inventory_items
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := make([]models.InventoryItem, 0)
	index := make(map[int64]int)
	for rows.Next() {
		var (
			id        int64
			item      models.InventoryItem
			leadTime  sql.NullInt64
			purchased sql.NullString
		)
		if err := rows.Scan(
			&id,
			&item.PartNumber,
			&item.SupplierSKU,
			&item.Description,
			&item.Branch,
			&item.AvailableQty,
			&item.Uom,
			&leadTime,
			&purchased,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}

		if leadTime.Valid {
			v := int(leadTime.Int64)
			item.LeadTimeDays = &v
		}
		if t, ok := parseTime(purchased); ok {
			item.LastPurchaseDate = &t
		}

		index[id] = len(items)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	lotRows, err := db.QueryContext(ctx, `
		SELECT item_id, lot_number, qty, expiration_date
		FROM inventory_lots
		ORDER BY item_id, seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list lots: %w", err)
	}
	defer lotRows.Close()

	for lotRows.Next() {
		var (
			itemID int64
			lot    models.Lot
			exp    sql.NullString
		)
		if err := lotRows.Scan(&itemID, &lot.LotNumber, &lot.Qty, &exp); err != nil {
			return nil, fmt.Errorf("failed to scan lot: %w", err)
		}
		if t, ok := parseTime(exp); ok {
			lot.ExpirationDate = &t
		}
		if i, ok := index[itemID]; ok {
			items[i].Lots = append(items[i].Lots, lot)
		}
	}
	if err := lotRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lots: %w", err)
	}

	return items, nil
}

// WriteSnapshot creates the schema at dbPath and replaces its contents with items
func WriteSnapshot(ctx context.Context, dbPath string, items []models.InventoryItem) error {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory_lots; DELETE FROM inventory_items;`); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	for i, item := range items {
		id := int64(i + 1)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO inventory_items
				(id, part_number, supplier_sku, description, branch, available_qty, uom, lead_time_days, last_purchase_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			id,
			item.PartNumber,
			item.SupplierSKU,
			item.Description,
			item.Branch,
			item.AvailableQty,
			item.Uom,
			nullInt(item.LeadTimeDays),
			nullTime(item.LastPurchaseDate),
		); err != nil {
			return fmt.Errorf("failed to insert item %s: %w", item.PartNumber, err)
		}

		for seq, lot := range item.Lots {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO inventory_lots (item_id, seq, lot_number, qty, expiration_date)
				VALUES (?, ?, ?, ?, ?)
			`, id, seq, lot.LotNumber, lot.Qty, nullTime(lot.ExpirationDate)); err != nil {
				return fmt.Errorf("failed to insert lot %s: %w", lot.LotNumber, err)
			}
		}
	}

	return tx.Commit()
}

func parseTime(s sql.NullString) (time.Time, bool) {
	if !s.Valid {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}
