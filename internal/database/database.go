package database

import (
	"database/sql"
	"log"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// OpenDB initializes and returns the database connection pool.
// The DSN is read from the DB_DSN environment variable, with a local
// development fallback.
func OpenDB() (*sql.DB, error) {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(127.0.0.1:3306)/inventory_app?parseTime=true"
	}
	return OpenDBWithDSN(dsn)
}

// OpenDBWithDSN creates and configures a DB connection pool using any
// provided DSN string.
func OpenDBWithDSN(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Connection pool settings.
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Ping to verify the connection before the server starts taking traffic.
	if err := db.Ping(); err != nil {
		log.Printf("Error connecting to database: %v", err)
		return nil, err
	}

	log.Println("Database connection pool established successfully")
	return db, nil
}

// EnsureSchema creates the three tables the application needs if they do
// not exist yet. It is idempotent and safe to run on every boot, replacing
// the one-shot initialize endpoint of the old deployment.
func EnsureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            BIGINT AUTO_INCREMENT PRIMARY KEY,
			username      VARCHAR(80)  NOT NULL UNIQUE,
			email         VARCHAR(120) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			role          VARCHAR(20)  NOT NULL DEFAULT 'user',
			created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id           BIGINT AUTO_INCREMENT PRIMARY KEY,
			name         VARCHAR(100) NOT NULL,
			quantity     DOUBLE       NOT NULL DEFAULT 0,
			unit         VARCHAR(20)  NOT NULL,
			vendor       VARCHAR(100) NULL,
			last_updated DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
			created_by   BIGINT       NULL,
			updated_by   BIGINT       NULL
		)`,
		`CREATE TABLE IF NOT EXISTS inventory_changes (
			id                BIGINT AUTO_INCREMENT PRIMARY KEY,
			item_id           BIGINT      NOT NULL,
			previous_quantity DOUBLE      NOT NULL DEFAULT 0,
			new_quantity      DOUBLE      NOT NULL,
			change_type       VARCHAR(20) NOT NULL,
			timestamp         DATETIME    NOT NULL DEFAULT CURRENT_TIMESTAMP,
			user_id           BIGINT      NULL,
			INDEX idx_changes_item (item_id, timestamp)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	log.Println("Database schema verified")
	return nil
}
