package source

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/chainrecon/chainrecon/pkg/recon/event"
)

// LoadSQLite reads one event batch from the events table of a SQLite
// database, ordered by timestamp. The expected schema:
//
//	CREATE TABLE events (
//	    event_type TEXT NOT NULL,
//	    timestamp  INTEGER NOT NULL,
//	    host       TEXT,
//	    src        TEXT,
//	    dst        TEXT,
//	    user       TEXT,
//	    privilege  TEXT
//	);
func LoadSQLite(ctx context.Context, path string) ([]event.Record, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT event_type, timestamp,
		       COALESCE(host, ''), COALESCE(src, ''), COALESCE(dst, ''),
		       COALESCE(user, ''), COALESCE(privilege, '')
		FROM events
		ORDER BY timestamp, rowid`)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var batch []event.Record
	for rows.Next() {
		var rec event.Record
		if err := rows.Scan(&rec.EventType, &rec.Timestamp,
			&rec.Host, &rec.Src, &rec.Dst, &rec.User, &rec.Privilege); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		batch = append(batch, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return batch, nil
}
