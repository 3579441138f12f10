package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/mira/internal/core"
)

type MemoriesRepo struct {
	db *sql.DB
}

func NewMemoriesRepo(db *sql.DB) *MemoriesRepo {
	return &MemoriesRepo{db: db}
}

// validateMemory enforces the store-boundary invariants: non-empty
// value, closed category set, importance in range.
func validateMemory(m *core.Memory) error {
	if strings.TrimSpace(m.Value) == "" {
		return fmt.Errorf("%w: memory value is empty", core.ErrValidation)
	}
	if !m.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", core.ErrValidation, m.Category)
	}
	if m.Importance < core.MinImportance || m.Importance > core.MaxImportance {
		return fmt.Errorf("%w: importance %d out of range [%d,%d]",
			core.ErrValidation, m.Importance, core.MinImportance, core.MaxImportance)
	}
	if m.PersonaID == "" {
		return fmt.Errorf("%w: persona id is empty", core.ErrValidation)
	}
	return nil
}

func (r *MemoriesRepo) Create(ctx context.Context, m *core.Memory) error {
	if err := validateMemory(m); err != nil {
		return err
	}

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	tagsJSON, err := marshalTags(m.Tags)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO memories (persona_id, category, key, value, importance, context, tags, source_turn_id, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.PersonaID, m.Category, m.Key, m.Value, m.Importance, m.Context, tagsJSON,
		m.SourceTurnID, m.CreatedAt, m.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert memory: %w", err)
	}

	m.ID, err = res.LastInsertId()
	return err
}

func (r *MemoriesRepo) Get(ctx context.Context, id int64) (core.Memory, error) {
	row := r.db.QueryRowContext(ctx,
		memorySelect+` WHERE id = ?`, id)

	m, err := scanMemory(row)
	if err == sql.ErrNoRows {
		return core.Memory{}, fmt.Errorf("memory %d: %w", id, core.ErrNotFound)
	}
	return m, err
}

func (r *MemoriesRepo) List(ctx context.Context, personaID string, f core.MemoryFilter) ([]core.Memory, error) {
	query := memorySelect + ` WHERE persona_id = ? AND (expires_at IS NULL OR expires_at > ?)`
	args := []any{personaID, time.Now().UTC()}

	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.MinImportance > 0 {
		query += ` AND importance >= ?`
		args = append(args, f.MinImportance)
	}
	// NULL last-accessed sorts after any real access time.
	query += ` ORDER BY importance DESC, last_accessed IS NULL, last_accessed DESC, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list memories: %w", err)
	}
	defer rows.Close()

	return scanMemories(rows)
}

func (r *MemoriesRepo) Search(ctx context.Context, personaID, query string, limit int) ([]core.Memory, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	pattern := "%" + escapeLike(query) + "%"
	now := time.Now().UTC()

	rows, err := tx.QueryContext(ctx,
		memorySelect+` WHERE persona_id = ?
			AND (expires_at IS NULL OR expires_at > ?)
			AND (key LIKE ? ESCAPE '\' OR value LIKE ? ESCAPE '\')
			ORDER BY importance DESC, id LIMIT ?`,
		personaID, now, pattern, pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search memories: %w", err)
	}

	memories, err := scanMemories(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	// Every hit counts as an access.
	for i := range memories {
		if _, err := tx.ExecContext(ctx,
			`UPDATE memories SET access_count = access_count + 1, last_accessed = ? WHERE id = ?`,
			now, memories[i].ID,
		); err != nil {
			return nil, fmt.Errorf("failed to bump access count: %w", err)
		}
		memories[i].AccessCount++
		t := now
		memories[i].LastAccessed = &t
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return memories, nil
}

func (r *MemoriesRepo) Update(ctx context.Context, id int64, p core.MemoryPatch) error {
	var sets []string
	var args []any

	if p.Key != nil {
		sets = append(sets, "key = ?")
		args = append(args, *p.Key)
	}
	if p.Value != nil {
		if strings.TrimSpace(*p.Value) == "" {
			return fmt.Errorf("%w: memory value is empty", core.ErrValidation)
		}
		sets = append(sets, "value = ?")
		args = append(args, *p.Value)
	}
	if p.Context != nil {
		sets = append(sets, "context = ?")
		args = append(args, *p.Context)
	}
	if p.Importance != nil {
		if *p.Importance < core.MinImportance || *p.Importance > core.MaxImportance {
			return fmt.Errorf("%w: importance %d out of range", core.ErrValidation, *p.Importance)
		}
		sets = append(sets, "importance = ?")
		args = append(args, *p.Importance)
	}
	if p.Tags != nil {
		tagsJSON, err := marshalTags(p.Tags)
		if err != nil {
			return err
		}
		sets = append(sets, "tags = ?")
		args = append(args, tagsJSON)
	}
	if p.ExpiresAt != nil {
		sets = append(sets, "expires_at = ?")
		args = append(args, *p.ExpiresAt)
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	res, err := r.db.ExecContext(ctx,
		`UPDATE memories SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update memory: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("memory %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *MemoriesRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM memories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete memory: %w", err)
	}
	return nil
}

// Merge applies a consolidation result atomically: updating the primary
// and removing the secondary either both happen or neither does.
func (r *MemoriesRepo) Merge(ctx context.Context, primary core.Memory, secondaryID int64) error {
	if err := validateMemory(&primary); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	tagsJSON, err := marshalTags(primary.Tags)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE memories SET value = ?, importance = ?, tags = ? WHERE id = ?`,
		primary.Value, primary.Importance, tagsJSON, primary.ID,
	); err != nil {
		return fmt.Errorf("failed to update merge primary: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM memories WHERE id = ?`, secondaryID,
	); err != nil {
		return fmt.Errorf("failed to delete merge secondary: %w", err)
	}

	return tx.Commit()
}

func (r *MemoriesRepo) PurgeExpired(ctx context.Context, personaID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM memories WHERE persona_id = ? AND expires_at IS NOT NULL AND expires_at <= ?`,
		personaID, time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired memories: %w", err)
	}
	return res.RowsAffected()
}

const memorySelect = `SELECT id, persona_id, category, key, value, importance, context, tags,
	source_turn_id, created_at, last_accessed, access_count, expires_at FROM memories`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMemory(row rowScanner) (core.Memory, error) {
	var m core.Memory
	var tagsStr sql.NullString
	var sourceTurn sql.NullInt64
	var lastAccessed, expiresAt sql.NullTime

	if err := row.Scan(&m.ID, &m.PersonaID, &m.Category, &m.Key, &m.Value, &m.Importance,
		&m.Context, &tagsStr, &sourceTurn, &m.CreatedAt, &lastAccessed, &m.AccessCount, &expiresAt,
	); err != nil {
		return core.Memory{}, err
	}

	if tagsStr.Valid && tagsStr.String != "" {
		if err := json.Unmarshal([]byte(tagsStr.String), &m.Tags); err != nil {
			return core.Memory{}, fmt.Errorf("failed to unmarshal tags: %w", err)
		}
	}
	if sourceTurn.Valid {
		m.SourceTurnID = &sourceTurn.Int64
	}
	if lastAccessed.Valid {
		t := lastAccessed.Time
		m.LastAccessed = &t
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		m.ExpiresAt = &t
	}
	return m, nil
}

func scanMemories(rows *sql.Rows) ([]core.Memory, error) {
	var memories []core.Memory
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan memory: %w", err)
		}
		memories = append(memories, m)
	}
	return memories, rows.Err()
}

func marshalTags(tags []string) (string, error) {
	if len(tags) == 0 {
		return "", nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tags: %w", err)
	}
	return string(data), nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
