package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/mira/internal/core"
	"github.com/sandevgo/mira/pkg/log"
)

type TurnsRepo struct {
	db *sql.DB
}

func NewTurnsRepo(db *sql.DB) *TurnsRepo {
	return &TurnsRepo{db: db}
}

func (r *TurnsRepo) Add(ctx context.Context, t *core.Turn) error {
	if !t.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", core.ErrValidation, t.Role)
	}
	if t.PersonaID == "" {
		return fmt.Errorf("%w: persona id is empty", core.ErrValidation)
	}

	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO turns (persona_id, role, content, emotion, tokens, latency_ms, important, deleted, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.PersonaID, t.Role, t.Content, t.Emotion, t.Tokens, t.LatencyMS, t.Important, t.Deleted, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert turn: %w", err)
	}

	t.ID, err = res.LastInsertId()
	return err
}

func (r *TurnsRepo) Recent(ctx context.Context, personaID string, limit int) ([]core.Turn, error) {
	// Fetch the LAST 'limit' turns by ordering DESC; id breaks
	// same-timestamp ties by insertion order.
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, persona_id, role, content, emotion, tokens, latency_ms, important, created_at
		 FROM turns WHERE persona_id = ? AND deleted = 0
		 ORDER BY created_at DESC, id DESC LIMIT ?`,
		personaID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []core.Turn
	for rows.Next() {
		var t core.Turn
		if err := rows.Scan(&t.ID, &t.PersonaID, &t.Role, &t.Content, &t.Emotion,
			&t.Tokens, &t.LatencyMS, &t.Important, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Back to chronological order for the LLM.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}

	log.FromCtx(ctx).Debug().Int("count", len(turns)).Msg("loaded history turns")
	return turns, nil
}

func (r *TurnsRepo) MarkDeleted(ctx context.Context, id int64) error {
	return r.setFlag(ctx, id, "deleted", true)
}

func (r *TurnsRepo) MarkImportant(ctx context.Context, id int64, important bool) error {
	return r.setFlag(ctx, id, "important", important)
}

func (r *TurnsRepo) setFlag(ctx context.Context, id int64, column string, value bool) error {
	// column is one of two fixed names, never caller input.
	res, err := r.db.ExecContext(ctx,
		`UPDATE turns SET `+column+` = ? WHERE id = ?`, value, id)
	if err != nil {
		return fmt.Errorf("failed to set %s flag: %w", column, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("turn %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *TurnsRepo) Aggregates(ctx context.Context, personaID string) (core.TurnAggregates, error) {
	agg := core.TurnAggregates{ByRole: make(map[core.Role]int)}

	rows, err := r.db.QueryContext(ctx,
		`SELECT role, COUNT(*), COALESCE(SUM(LENGTH(content)), 0)
		 FROM turns WHERE persona_id = ? AND deleted = 0 GROUP BY role`,
		personaID,
	)
	if err != nil {
		return agg, fmt.Errorf("failed to aggregate turns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var role core.Role
		var count int
		var chars int64
		if err := rows.Scan(&role, &count, &chars); err != nil {
			return agg, fmt.Errorf("failed to scan aggregate row: %w", err)
		}
		agg.ByRole[role] = count
		agg.TotalChars += chars
	}
	if err := rows.Err(); err != nil {
		return agg, err
	}

	first, err := r.timeBound(ctx, personaID, "ASC")
	if err != nil {
		return agg, fmt.Errorf("failed to read first turn time: %w", err)
	}
	last, err := r.timeBound(ctx, personaID, "DESC")
	if err != nil {
		return agg, fmt.Errorf("failed to read last turn time: %w", err)
	}
	agg.FirstAt = first
	agg.LastAt = last
	return agg, nil
}

// timeBound reads the earliest or latest turn time. MIN/MAX over
// created_at would strip the column's DATETIME affinity and the driver
// would hand back a bare string, so the bound is read off the column
// itself.
func (r *TurnsRepo) timeBound(ctx context.Context, personaID, dir string) (time.Time, error) {
	var t time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT created_at FROM turns WHERE persona_id = ? AND deleted = 0
		 ORDER BY created_at `+dir+` LIMIT 1`,
		personaID,
	).Scan(&t)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	return t, err
}

func (r *TurnsRepo) EmotionSeries(ctx context.Context, personaID string, limit int) ([]core.Emotion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT emotion FROM turns
		 WHERE persona_id = ? AND role = ? AND emotion <> '' AND deleted = 0
		 ORDER BY created_at DESC, id DESC LIMIT ?`,
		personaID, core.RoleUser, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query emotion series: %w", err)
	}
	defer rows.Close()

	var series []core.Emotion
	for rows.Next() {
		var e core.Emotion
		if err := rows.Scan(&e); err != nil {
			return nil, fmt.Errorf("failed to scan emotion: %w", err)
		}
		series = append(series, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(series)-1; i < j; i, j = i+1, j-1 {
		series[i], series[j] = series[j], series[i]
	}
	return series, nil
}
