// Package database owns the MySQL pool shared by the seat, ledger and
// chat repositories.
package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/worldmic/seat-service/internal/config"
)

// Open builds the connection pool from the loaded configuration and
// verifies it with a bounded ping before anything else touches the
// store.  The charset must stay utf8mb4: tip messages and chat text
// carry arbitrary user input.
func Open(cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn(cfg))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DBPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s at %s: %w", cfg.DBName, cfg.DBHost, err)
	}
	return db, nil
}

// dsn assembles the driver DSN.  parseTime turns DATETIME columns into
// time.Time on scan and loc=UTC keeps stored hold expiries comparable
// to time.Now, which the lazy expiry path relies on.
func dsn(cfg config.Config) string {
	auth := cfg.DBUser
	if cfg.DBPass != "" {
		auth += ":" + cfg.DBPass
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, cfg.DBHost, cfg.DBPort, cfg.DBName)
}
