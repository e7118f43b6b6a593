package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"studio/internal/domain"
	"studio/internal/infra"
	"studio/internal/sqlinline"
)

// Render is the outcome of one generation job.
type Render struct {
	ImageID  string
	Name     string
	Preset   domain.PresetID
	Color    string
	LogoID   string
	Status   domain.ImageStatus
	Error    string
	Duration time.Duration
	At       time.Time
}

// Recorder receives job outcomes.
type Recorder interface {
	Record(ctx context.Context, r Render) error
}

// Nop discards every outcome.
type Nop struct{}

func (Nop) Record(context.Context, Render) error { return nil }

// Summary aggregates renders since a point in time.
type Summary struct {
	Since         time.Time `json:"since"`
	Completed     int64     `json:"completed"`
	Failed        int64     `json:"failed"`
	AvgDurationMS int64     `json:"avg_duration_ms"`
}

// SQLRecorder appends outcomes to studio_renders.
type SQLRecorder struct {
	sql infra.SQLExecutor
	now func() time.Time
}

func NewSQLRecorder(sql infra.SQLExecutor) *SQLRecorder {
	return &SQLRecorder{sql: sql, now: time.Now}
}

// Migrate creates the table when missing.
func (r *SQLRecorder) Migrate(ctx context.Context) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QCreateRendersTable); err != nil {
		return fmt.Errorf("ledger: migrate: %w", err)
	}
	return nil
}

func (r *SQLRecorder) Record(ctx context.Context, rec Render) error {
	at := rec.At
	if at.IsZero() {
		at = r.now()
	}
	_, err := r.sql.Exec(ctx, sqlinline.QInsertRender,
		uuid.NewString(),
		rec.ImageID,
		rec.Name,
		string(rec.Preset),
		rec.Color,
		rec.LogoID,
		string(rec.Status),
		rec.Error,
		rec.Duration.Milliseconds(),
		at,
	)
	if err != nil {
		return fmt.Errorf("ledger: record: %w", err)
	}
	return nil
}

// Summary reports the last 24 hours. The average covers all statuses.
func (r *SQLRecorder) Summary(ctx context.Context) (Summary, error) {
	since := r.now().Add(-24 * time.Hour)
	rows, err := r.sql.Query(ctx, sqlinline.QRenderSummary, since)
	if err != nil {
		return Summary{}, fmt.Errorf("ledger: summary: %w", err)
	}
	defer rows.Close()

	out := Summary{Since: since}
	var total, weighted int64
	for rows.Next() {
		var (
			status string
			count  int64
			avg    int64
		)
		if err := rows.Scan(&status, &count, &avg); err != nil {
			return Summary{}, fmt.Errorf("ledger: scan summary: %w", err)
		}
		switch domain.ImageStatus(status) {
		case domain.ImageStatusCompleted:
			out.Completed = count
		case domain.ImageStatusFailed:
			out.Failed = count
		}
		total += count
		weighted += avg * count
	}
	if err := rows.Err(); err != nil {
		return Summary{}, fmt.Errorf("ledger: read summary: %w", err)
	}
	if total > 0 {
		out.AvgDurationMS = weighted / total
	}
	return out, nil
}

var (
	_ Recorder = Nop{}
	_ Recorder = (*SQLRecorder)(nil)
)
