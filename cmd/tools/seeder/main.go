package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	createSchema(db)
	seedParties(db)

	log.Println("Seeding completed successfully!")
}

func createSchema(db *sql.DB) {
	fmt.Println("Creating schema...")
	statements := []string{
		`CREATE TABLE IF NOT EXISTS parties (
			id UUID PRIMARY KEY,
			serial BIGSERIAL,
			kind TEXT NOT NULL CHECK (kind IN ('customer', 'supplier')),
			name TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			village TEXT NOT NULL DEFAULT '',
			crate_terms JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (kind, serial)
		)`,
		`CREATE TABLE IF NOT EXISTS trades (
			id UUID PRIMARY KEY,
			kind TEXT NOT NULL CHECK (kind IN ('sale', 'purchase')),
			memo_no BIGSERIAL,
			counterparty_serial BIGINT NOT NULL DEFAULT 0,
			expenses DOUBLE PRECISION NOT NULL DEFAULT 0,
			commission DOUBLE PRECISION NOT NULL DEFAULT 0,
			crate_price DOUBLE PRECISION NOT NULL DEFAULT 0,
			total DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS trade_lines (
			id UUID PRIMARY KEY,
			trade_id UUID NOT NULL REFERENCES trades(id) ON DELETE CASCADE,
			position INT NOT NULL,
			product_id TEXT NOT NULL DEFAULT '',
			product_name TEXT NOT NULL,
			counterparty_serial BIGINT NOT NULL DEFAULT 0,
			cost DOUBLE PRECISION NOT NULL DEFAULT 0,
			crate JSONB NOT NULL DEFAULT '{}',
			crate_type TEXT NOT NULL DEFAULT '',
			commission_rate DOUBLE PRECISION,
			transportation DOUBLE PRECISION NOT NULL DEFAULT 0,
			moshjid DOUBLE PRECISION NOT NULL DEFAULT 0,
			van_vara DOUBLE PRECISION NOT NULL DEFAULT 0,
			trading_post DOUBLE PRECISION NOT NULL DEFAULT 0,
			labour DOUBLE PRECISION NOT NULL DEFAULT 0,
			expenses DOUBLE PRECISION NOT NULL DEFAULT 0,
			commission DOUBLE PRECISION NOT NULL DEFAULT 0,
			crate_price DOUBLE PRECISION NOT NULL DEFAULT 0,
			total DOUBLE PRECISION NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS trade_lines_trade_id_idx ON trade_lines (trade_id)`,
		`CREATE TABLE IF NOT EXISTS invoices (
			id UUID PRIMARY KEY,
			trade_id UUID NOT NULL UNIQUE REFERENCES trades(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			memo_no BIGINT NOT NULL,
			counterparty_serial BIGINT NOT NULL DEFAULT 0,
			lines JSONB NOT NULL DEFAULT '[]',
			expenses DOUBLE PRECISION NOT NULL DEFAULT 0,
			commission DOUBLE PRECISION NOT NULL DEFAULT 0,
			crate_price DOUBLE PRECISION NOT NULL DEFAULT 0,
			total DOUBLE PRECISION NOT NULL DEFAULT 0,
			rendered_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS domain_events (
			id UUID PRIMARY KEY,
			topic TEXT NOT NULL,
			aggregate_id UUID NOT NULL,
			payload JSONB NOT NULL DEFAULT '{}',
			occurred_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS domain_events_aggregate_idx ON domain_events (aggregate_id, occurred_at)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("Failed to create schema: %v", err)
		}
	}
}

func seedParties(db *sql.DB) {
	parties := []struct {
		Kind    string
		Name    string
		Phone   string
		Village string
		Terms   string
	}{
		{"customer", "Rahim Uddin", "01711000001", "Charghat", `{"plastic": {"qty": 0, "price": 20}, "wood": {"qty": 0, "price": 35}}`},
		{"customer", "Karim Sheikh", "01711000002", "Baneshwar", `{"type_one": {"qty": 0, "price": 25}, "type_two": {"qty": 0, "price": 15}}`},
		{"customer", "Abdul Malek", "01711000003", "Puthia", `{"plastic": {"qty": 0, "price": 18}}`},
		{"supplier", "Hasan Ali", "01722000001", "Bagha", `{"plastic": {"qty": 0, "price": 22}}`},
		{"supplier", "Joynal Abedin", "01722000002", "Arani", `{"type_one": {"qty": 0, "price": 28}, "type_two": {"qty": 0, "price": 16}}`},
		{"supplier", "Mokbul Hossain", "01722000003", "Charghat", `{}`},
	}

	fmt.Println("Seeding Parties...")
	for _, p := range parties {
		_, err := db.Exec(`
			INSERT INTO parties (id, kind, name, phone, village, crate_terms)
			VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
			ON CONFLICT DO NOTHING`,
			p.Kind, p.Name, p.Phone, p.Village, p.Terms,
		)
		if err != nil {
			log.Fatalf("Failed to seed party %s: %v", p.Name, err)
		}
	}
}
