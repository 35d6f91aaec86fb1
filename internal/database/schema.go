package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Migrate creates the tables used by the application when they do not
// exist yet.  The unique key on (theme_id, date, time_id) backs up the
// service-level duplicate check, which is not atomic with the insert.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	stmts, ok := schemas[db.DriverName()]
	if !ok {
		return fmt.Errorf("no schema for driver %q", db.DriverName())
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}

var schemas = map[string][]string{
	DriverMySQL: {
		`CREATE TABLE IF NOT EXISTS members (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(16) NOT NULL DEFAULT 'USER',
			UNIQUE KEY uk_members_email (email)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS times (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			start_at TIME NOT NULL,
			UNIQUE KEY uk_times_start_at (start_at)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS themes (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description VARCHAR(1024) NOT NULL,
			thumbnail VARCHAR(1024) NOT NULL
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS reservations (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			member_id BIGINT UNSIGNED NOT NULL,
			date DATE NOT NULL,
			time_id BIGINT UNSIGNED NOT NULL,
			theme_id BIGINT UNSIGNED NOT NULL,
			UNIQUE KEY uk_reservations_slot (theme_id, date, time_id),
			KEY idx_reservations_member (member_id),
			CONSTRAINT fk_reservations_member FOREIGN KEY (member_id) REFERENCES members (id),
			CONSTRAINT fk_reservations_time FOREIGN KEY (time_id) REFERENCES times (id),
			CONSTRAINT fk_reservations_theme FOREIGN KEY (theme_id) REFERENCES themes (id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	},
	DriverPostgres: {
		`CREATE TABLE IF NOT EXISTS members (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(16) NOT NULL DEFAULT 'USER'
		)`,
		`CREATE TABLE IF NOT EXISTS times (
			id BIGSERIAL PRIMARY KEY,
			start_at VARCHAR(8) NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS themes (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description VARCHAR(1024) NOT NULL,
			thumbnail VARCHAR(1024) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS reservations (
			id BIGSERIAL PRIMARY KEY,
			member_id BIGINT NOT NULL REFERENCES members (id),
			date VARCHAR(10) NOT NULL,
			time_id BIGINT NOT NULL REFERENCES times (id),
			theme_id BIGINT NOT NULL REFERENCES themes (id),
			UNIQUE (theme_id, date, time_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_member ON reservations (member_id)`,
	},
	// SQLite columns are TEXT rather than DATE/TIME so the driver hands
	// back the stored strings untouched.
	DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS members (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'USER'
		)`,
		`CREATE TABLE IF NOT EXISTS times (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			start_at TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS themes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT NOT NULL,
			thumbnail TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS reservations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			member_id INTEGER NOT NULL REFERENCES members (id),
			date TEXT NOT NULL,
			time_id INTEGER NOT NULL REFERENCES times (id),
			theme_id INTEGER NOT NULL REFERENCES themes (id),
			UNIQUE (theme_id, date, time_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_member ON reservations (member_id)`,
	},
}
