package service

import (
	"database/sql"
	"fmt"
	"time"
)

// The snapshot cache keeps the raw body of the last successful fetch so
// reports can rerun offline. There is only ever one row.

func SaveSnapshot(db *sql.DB, raw []byte, fetchedAt time.Time) error {
	_, err := db.Exec(`
INSERT INTO fetch_cache(id, raw_json, fetched_at)
VALUES(1, ?, ?)
ON CONFLICT(id) DO UPDATE SET raw_json=excluded.raw_json, fetched_at=excluded.fetched_at
`, string(raw), fetchedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save fetch snapshot: %w", err)
	}
	return nil
}

func LoadSnapshot(db *sql.DB) ([]byte, time.Time, bool, error) {
	var raw string
	var fetchedAtRaw string
	err := db.QueryRow(`SELECT raw_json, fetched_at FROM fetch_cache WHERE id = 1`).Scan(&raw, &fetchedAtRaw)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("load fetch snapshot: %w", err)
	}
	fetchedAt, err := time.Parse(time.RFC3339, fetchedAtRaw)
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("parse snapshot fetched_at: %w", err)
	}
	return []byte(raw), fetchedAt, true, nil
}
