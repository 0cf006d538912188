package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
	CREATE TABLE IF NOT EXISTS messwerte (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		Datum TEXT NOT NULL,
		Temperatur REAL,
		Luftfeuchtigkeit REAL,
		Lichtlevel TEXT,
		Lichtbewertung TEXT,
		Relaystatus TEXT
	)
`

// SQLiteLog inserts records into the messwerte table.
type SQLiteLog struct {
	db *sql.DB
}

// OpenSQLite opens the database and creates the table if needed.
func OpenSQLite(path string) (*SQLiteLog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create messwerte table: %w", err)
	}
	return &SQLiteLog{db: db}, nil
}

func (s *SQLiteLog) Name() string { return "sqlite" }

func (s *SQLiteLog) Append(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messwerte (Datum, Temperatur, Luftfeuchtigkeit, Lichtlevel, Lichtbewertung, Relaystatus)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.Timestamp, rec.Temperature, rec.Humidity, rec.Lux, rec.Classification, rec.Relay)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// Records returns all rows in insertion order.
func (s *SQLiteLog) Records(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT Datum, Temperatur, Luftfeuchtigkeit, Lichtlevel, Lichtbewertung, Relaystatus
		FROM messwerte ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Timestamp, &rec.Temperature, &rec.Humidity, &rec.Lux, &rec.Classification, &rec.Relay); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}
	return records, nil
}

func (s *SQLiteLog) Close() error {
	return s.db.Close()
}
