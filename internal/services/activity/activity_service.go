package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// ActivityService writes and queries the audit log in ClickHouse. A nil
// service is valid: Record becomes a no-op and List returns an empty slice,
// so deployments without ClickHouse run unchanged.
type ActivityService struct {
	conn driver.Conn
}

func NewActivityService(conn driver.Conn) (*ActivityService, error) {
	s := &ActivityService{conn: conn}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.createTable(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *ActivityService) createTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS activity_log (
			Timestamp DateTime64(3) DEFAULT now64(3),
			UserId String,
			UserEmail String,
			Action LowCardinality(String),
			Target String,
			Detail String
		)
		ENGINE = MergeTree()
		ORDER BY (Timestamp, Action)
		TTL toDateTime(Timestamp) + INTERVAL 90 DAY
	`

	if err := s.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create activity table: %w", err)
	}

	return nil
}

// Record appends an event. Failures are logged and swallowed so audit
// logging never breaks the request path.
func (s *ActivityService) Record(ctx context.Context, ev *Event) {
	if s == nil {
		return
	}

	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	query := `
		INSERT INTO activity_log (Timestamp, UserId, UserEmail, Action, Target, Detail)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	if err := s.conn.Exec(ctx, query, ev.Timestamp, ev.UserID, ev.UserEmail, ev.Action, ev.Target, ev.Detail); err != nil {
		slog.ErrorContext(ctx, "failed to record activity", "action", ev.Action, "error", err)
	}
}

// List returns the most recent events, newest first
func (s *ActivityService) List(ctx context.Context, limit int) ([]Event, error) {
	if s == nil {
		return []Event{}, nil
	}

	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}

	query := `
		SELECT Timestamp, UserId, UserEmail, Action, Target, Detail
		FROM activity_log
		ORDER BY Timestamp DESC
		LIMIT ?
	`

	rows, err := s.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.Timestamp, &ev.UserID, &ev.UserEmail, &ev.Action, &ev.Target, &ev.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		events = append(events, ev)
	}

	return events, nil
}
