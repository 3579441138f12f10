package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/mira/internal/config"
	"github.com/sandevgo/mira/internal/core"
	"github.com/sandevgo/mira/internal/text"
	"github.com/sandevgo/mira/pkg/log"
)

const extractionSystemPrompt = `You extract long-term facts about the user from a chat exchange.
Return ONLY a JSON array. Each element: {"content": string, "category": string, "importance": number}.
Categories: identity, preference, experience, relationship, other.
Importance: 1 (trivial) to 5 (defining). Extract only durable facts about the user,
not small talk. Return [] when the exchange contains nothing worth keeping.`

// consolidateThreshold is the Jaccard similarity above which two
// memories in the same category are treated as duplicates.
const consolidateThreshold = 0.8

// sourceQuoteRunes caps the user quote stored as a memory's context.
const sourceQuoteRunes = 60

// Curator runs the memory lifecycle: extraction of new facts from
// exchanges, consolidation of near-duplicates and forgetting of stale
// low-value entries.
type Curator struct {
	repo     core.MemoriesRepository
	provider core.AIProvider
	cfg      *config.EngineConfig
	now      func() time.Time
}

func NewCurator(repo core.MemoriesRepository, provider core.AIProvider, cfg *config.EngineConfig) *Curator {
	return &Curator{
		repo:     repo,
		provider: provider,
		cfg:      cfg,
		now:      time.Now,
	}
}

type extractedFact struct {
	Content    string  `json:"content"`
	Category   string  `json:"category"`
	Importance float64 `json:"importance"`
}

// ExtractFromExchange asks the backend for durable facts in one
// user/assistant exchange and persists them. A backend that returns
// garbage yields zero memories, not an error cascade: only transport
// failures propagate.
func (c *Curator) ExtractFromExchange(ctx context.Context, personaID, userMsg, assistantMsg string, sourceTurnID *int64) ([]core.Memory, error) {
	history := []core.Message{
		{Role: core.RoleSystem, Content: extractionSystemPrompt},
		{Role: core.RoleUser, Content: fmt.Sprintf("User: %s\nAssistant: %s", userMsg, assistantMsg)},
	}

	completion, err := c.provider.Chat(ctx, history, core.GenOptions{Temperature: 0.1})
	if err != nil {
		return nil, fmt.Errorf("extraction call: %w", err)
	}

	facts := parseFacts(ctx, completion.Content)
	if len(facts) == 0 {
		return nil, nil
	}

	quote := truncateRunes(userMsg, sourceQuoteRunes)
	created := make([]core.Memory, 0, len(facts))
	for _, f := range facts {
		m := core.Memory{
			PersonaID:    personaID,
			Category:     normalizeCategory(f.Category),
			Value:        strings.TrimSpace(f.Content),
			Importance:   clampImportance(int(f.Importance)),
			Context:      quote,
			SourceTurnID: sourceTurnID,
		}
		if m.Value == "" {
			continue
		}
		if err := c.repo.Create(ctx, &m); err != nil {
			return created, fmt.Errorf("persist extracted memory: %w", err)
		}
		created = append(created, m)
	}

	log.FromCtx(ctx).Debug().
		Str("persona", personaID).
		Int("extracted", len(created)).
		Msg("memory extraction")

	return created, nil
}

// parseFacts pulls the JSON array out of a completion that may be
// wrapped in code fences or prose. Anything unparseable is dropped.
func parseFacts(ctx context.Context, content string) []extractedFact {
	raw := extractJSONArray(content)
	if raw == "" {
		log.FromCtx(ctx).Debug().Msg("no JSON array in extraction response")
		return nil
	}

	var facts []extractedFact
	if err := json.Unmarshal([]byte(raw), &facts); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("malformed extraction response")
		return nil
	}
	return facts
}

// extractJSONArray finds the outermost JSON array in a string. Models
// like to wrap their output in markdown fences or explanations.
func extractJSONArray(s string) string {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return s[start : end+1]
}

// categorySynonyms maps loose model vocabulary onto the closed set.
var categorySynonyms = map[string]core.MemoryCategory{
	"identity":      core.CategoryIdentity,
	"personal":      core.CategoryIdentity,
	"profile":       core.CategoryIdentity,
	"preference":    core.CategoryPreference,
	"preferences":   core.CategoryPreference,
	"like":          core.CategoryPreference,
	"likes":         core.CategoryPreference,
	"dislike":       core.CategoryPreference,
	"experience":    core.CategoryExperience,
	"experiences":   core.CategoryExperience,
	"event":         core.CategoryExperience,
	"history":       core.CategoryExperience,
	"relationship":  core.CategoryRelationship,
	"relationships": core.CategoryRelationship,
	"family":        core.CategoryRelationship,
	"friend":        core.CategoryRelationship,
	"social":        core.CategoryRelationship,
}

func normalizeCategory(s string) core.MemoryCategory {
	if c, ok := categorySynonyms[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c
	}
	return core.CategoryOther
}

func clampImportance(v int) int {
	if v < core.MinImportance {
		return core.DefaultImportance
	}
	if v > core.MaxImportance {
		return core.MaxImportance
	}
	return v
}

func truncateRunes(s string, n int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n]) + "…"
}

// Consolidate merges near-duplicate memories within each category.
// The more important (or, on a tie, older) memory survives as primary;
// values are joined, importance takes the max and tags are unioned.
// Returns the number of merges performed.
func (c *Curator) Consolidate(ctx context.Context, personaID string) (int, error) {
	all, err := c.repo.List(ctx, personaID, core.MemoryFilter{})
	if err != nil {
		return 0, fmt.Errorf("consolidate list: %w", err)
	}

	byCategory := make(map[core.MemoryCategory][]core.Memory)
	for _, m := range all {
		byCategory[m.Category] = append(byCategory[m.Category], m)
	}

	merged := 0
	for _, group := range byCategory {
		gone := make(map[int64]bool)
		for i := 0; i < len(group); i++ {
			if gone[group[i].ID] {
				continue
			}
			for j := i + 1; j < len(group); j++ {
				if gone[group[j].ID] {
					continue
				}
				if text.Jaccard(group[i].Value, group[j].Value) <= consolidateThreshold {
					continue
				}

				primary, secondary := pickPrimary(group[i], group[j])
				combined := mergeMemories(primary, secondary)
				if err := c.repo.Merge(ctx, combined, secondary.ID); err != nil {
					return merged, fmt.Errorf("merge %d into %d: %w", secondary.ID, primary.ID, err)
				}
				gone[secondary.ID] = true
				merged++
				if primary.ID == group[i].ID {
					group[i] = combined
					continue
				}
				group[j] = combined
				break
			}
		}
	}

	if merged > 0 {
		log.FromCtx(ctx).Info().
			Str("persona", personaID).
			Int("merged", merged).
			Msg("memory consolidation")
	}
	return merged, nil
}

func pickPrimary(a, b core.Memory) (primary, secondary core.Memory) {
	if b.Importance > a.Importance {
		return b, a
	}
	if b.Importance == a.Importance && b.CreatedAt.Before(a.CreatedAt) {
		return b, a
	}
	return a, b
}

func mergeMemories(primary, secondary core.Memory) core.Memory {
	out := primary
	if secondary.Value != primary.Value {
		out.Value = primary.Value + "; " + secondary.Value
	}
	if secondary.Importance > out.Importance {
		out.Importance = secondary.Importance
	}
	out.Tags = unionTags(primary.Tags, secondary.Tags)
	return out
}

func unionTags(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var out []string
	for _, t := range a {
		if _, dup := seen[t]; !dup {
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	for _, t := range b {
		if _, dup := seen[t]; !dup {
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// Prune deletes memories that are both old and unimportant. Both
// conditions must hold: an old but important memory stays, as does a
// fresh trivial one. Returns the number of deletions.
func (c *Curator) Prune(ctx context.Context, personaID string) (int, error) {
	all, err := c.repo.List(ctx, personaID, core.MemoryFilter{})
	if err != nil {
		return 0, fmt.Errorf("prune list: %w", err)
	}

	maxAge := float64(c.cfg.ForgetMaxAgeDays)
	deleted := 0
	for _, m := range all {
		ageDays := c.now().Sub(m.CreatedAt).Hours() / 24
		if ageDays <= maxAge || m.Importance >= c.cfg.ForgetMinImportance {
			continue
		}
		if err := c.repo.Delete(ctx, m.ID); err != nil {
			return deleted, fmt.Errorf("prune delete %d: %w", m.ID, err)
		}
		deleted++
	}

	if deleted > 0 {
		log.FromCtx(ctx).Info().
			Str("persona", personaID).
			Int("deleted", deleted).
			Msg("memory pruning")
	}
	return deleted, nil
}

// PurgeExpired removes memories whose explicit expiry has passed.
func (c *Curator) PurgeExpired(ctx context.Context, personaID string) (int64, error) {
	return c.repo.PurgeExpired(ctx, personaID)
}
