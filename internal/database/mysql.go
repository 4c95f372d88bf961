package database

import (
	"context"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"golden-palette/internal/config"
	"golden-palette/internal/logger"
)

// NewMySQL opens a sqlx handle on the configured MySQL database
func NewMySQL(cfg *config.Config, log *logger.Logger) (*sqlx.DB, error) {
	var db *sqlx.DB
	err := withRetries(log, "mysql_connection_failed", "mysql", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		conn, err := sqlx.ConnectContext(ctx, "mysql", cfg.MySQLDSN())
		if err != nil {
			return err
		}
		db = conn
		return nil
	})
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}
