package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/crumbworks/bakeops/internal/config"
	"github.com/crumbworks/bakeops/pkg/logger"
	"github.com/urfave/cli/v2"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const schema = `
CREATE TABLE IF NOT EXISTS suppliers (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	contact_name TEXT,
	email TEXT,
	phone TEXT,
	address TEXT,
	notes TEXT,
	lead_time_days INT NOT NULL DEFAULT 1 CHECK (lead_time_days >= 1),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS ingredients (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	unit TEXT NOT NULL,
	cost_per_unit DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (cost_per_unit >= 0),
	current_stock DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (current_stock >= 0),
	supplier_id BIGINT REFERENCES suppliers(id) ON DELETE SET NULL,
	own_lead_time_days INT NOT NULL DEFAULT 1 CHECK (own_lead_time_days >= 1),
	last_updated TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS recipes (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	pos_item_id TEXT UNIQUE,
	sale_price DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (sale_price >= 0),
	category TEXT,
	description TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS recipe_items (
	id BIGSERIAL PRIMARY KEY,
	recipe_id BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
	ingredient_id BIGINT NOT NULL REFERENCES ingredients(id) ON DELETE CASCADE,
	quantity DOUBLE PRECISION NOT NULL CHECK (quantity > 0),
	UNIQUE (recipe_id, ingredient_id)
);

CREATE TABLE IF NOT EXISTS sales (
	id BIGSERIAL PRIMARY KEY,
	pos_transaction_id TEXT NOT NULL UNIQUE,
	item_name TEXT NOT NULL,
	quantity INT NOT NULL CHECK (quantity > 0),
	total_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
	timestamp TIMESTAMPTZ NOT NULL,
	usage_applied BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS daily_usage (
	id BIGSERIAL PRIMARY KEY,
	ingredient_id BIGINT NOT NULL REFERENCES ingredients(id) ON DELETE CASCADE,
	day DATE NOT NULL,
	quantity_used DOUBLE PRECISION NOT NULL DEFAULT 0,
	UNIQUE (ingredient_id, day)
);

CREATE TABLE IF NOT EXISTS supplier_orders (
	id BIGSERIAL PRIMARY KEY,
	supplier_id BIGINT NOT NULL REFERENCES suppliers(id) ON DELETE CASCADE,
	order_date TIMESTAMPTZ NOT NULL DEFAULT now(),
	expected_delivery_date TIMESTAMPTZ,
	actual_delivery_date TIMESTAMPTZ,
	status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'delivered', 'cancelled')),
	total_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
	notes TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS supplier_order_items (
	id BIGSERIAL PRIMARY KEY,
	order_id BIGINT NOT NULL REFERENCES supplier_orders(id) ON DELETE CASCADE,
	ingredient_id BIGINT NOT NULL REFERENCES ingredients(id),
	quantity DOUBLE PRECISION NOT NULL CHECK (quantity > 0),
	unit_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_cost DOUBLE PRECISION NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS profit_history (
	id BIGSERIAL PRIMARY KEY,
	recipe_id BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
	date DATE NOT NULL,
	sale_price DOUBLE PRECISION NOT NULL DEFAULT 0,
	ingredient_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
	profit DOUBLE PRECISION NOT NULL DEFAULT 0,
	profit_margin DOUBLE PRECISION NOT NULL DEFAULT 0,
	quantity_sold INT NOT NULL DEFAULT 0,
	UNIQUE (recipe_id, date)
);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_sales_timestamp ON sales (timestamp);
CREATE INDEX IF NOT EXISTS idx_sales_usage_applied ON sales (usage_applied) WHERE NOT usage_applied;
CREATE INDEX IF NOT EXISTS idx_daily_usage_day ON daily_usage (day);
CREATE INDEX IF NOT EXISTS idx_supplier_orders_status ON supplier_orders (status);
`

// patches are idempotent statements applied on top of an existing schema.
var patches = []string{
	`ALTER TABLE ingredients ADD COLUMN IF NOT EXISTS own_lead_time_days INT NOT NULL DEFAULT 1`,
	`ALTER TABLE recipes ADD COLUMN IF NOT EXISTS pos_item_id TEXT`,
	`ALTER TABLE sales ADD COLUMN IF NOT EXISTS usage_applied BOOLEAN NOT NULL DEFAULT FALSE`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_recipes_pos_item_id ON recipes (pos_item_id)`,
	// Paired drop-and-add so deleting a supplier removes its order history.
	`ALTER TABLE supplier_orders DROP CONSTRAINT IF EXISTS supplier_orders_supplier_id_fkey`,
	`ALTER TABLE supplier_orders ADD CONSTRAINT supplier_orders_supplier_id_fkey
		FOREIGN KEY (supplier_id) REFERENCES suppliers(id) ON DELETE CASCADE`,
}

func main() {
	app := &cli.App{
		Name:  "migrate",
		Usage: "manage the database schema",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create all tables and indexes",
				Action: func(c *cli.Context) error {
					return withDB(func(db *sql.DB) error {
						if _, err := db.Exec(schema); err != nil {
							return fmt.Errorf("failed to create schema: %w", err)
						}
						logger.Log.Info().Msg("schema created")
						return nil
					})
				},
			},
			{
				Name:  "up",
				Usage: "apply idempotent schema patches",
				Action: func(c *cli.Context) error {
					return withDB(func(db *sql.DB) error {
						for _, patch := range patches {
							if _, err := db.Exec(patch); err != nil {
								return fmt.Errorf("failed to apply patch: %w", err)
							}
						}
						logger.Log.Info().Int("patches", len(patches)).Msg("schema patches applied")
						return nil
					})
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("migration failed")
	}
}

func withDB(fn func(*sql.DB) error) error {
	cfg := config.Load()
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
		cfg.Database.Password, cfg.Database.DBName, cfg.Database.SSLMode)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}

	return fn(db)
}
