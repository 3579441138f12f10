package prompt

import (
	"strings"
	"testing"

	"github.com/sandevgo/mira/internal/core"
)

func testPersona() core.Persona {
	return core.Persona{
		ID:         "p1",
		Name:       "Mira",
		Age:        24,
		Gender:     "female",
		Occupation: "illustrator",
		Traits: core.Traits{
			Extroversion: 0.8,
			Rationality:  0.5,
			Seriousness:  0.2,
			Openness:     0.9,
			Gentleness:   0.75,
		},
		Background: "Moved to the city for art school.",
		Experiences: []core.Experience{
			{Description: "minor thing", Importance: 1},
			{Description: "first exhibition", Importance: 5},
			{Description: "trip to Yunnan", Importance: 4},
			{Description: "adopted a cat", Importance: 3},
			{Description: "learned to surf", Importance: 2},
			{Description: "even more minor thing", Importance: 1},
		},
		Examples: []core.ExamplePair{
			{User: "hi", Assistant: "hello there, how was your day?"},
			{User: "I had a rough day.", Assistant: "Come sit down, tell me everything."},
			{User: "x", Assistant: "too short user message"},
		},
	}
}

func TestCompose_SectionOrder(t *testing.T) {
	t.Parallel()

	c := NewComposer()
	got := c.Compose(testPersona(), Options{
		Memories: []core.Memory{
			{Value: "likes iced coffee", Context: "我喜欢喝冰咖啡"},
		},
		Emotion:         core.EmotionSad,
		EmotionGuidance: "Be gentle and empathetic.",
		IncludeExamples: true,
	})

	markers := []string{
		"You are Mira, a 24-year-old female illustrator.",
		"# Personality",
		"# Background",
		"# Life experiences",
		"# Dialogue style",
		"# Ground rules",
		"# What you remember about the user",
		"# Current mood",
		"# Example exchanges",
	}
	pos := -1
	for _, m := range markers {
		i := strings.Index(got, m)
		if i == -1 {
			t.Fatalf("missing section %q", m)
		}
		if i < pos {
			t.Errorf("section %q out of order", m)
		}
		pos = i
	}
}

func TestCompose_TraitThresholds(t *testing.T) {
	t.Parallel()

	c := NewComposer()
	p := testPersona()
	got := c.Compose(p, Options{})

	if !strings.Contains(got, "outgoing and energized") {
		t.Error("high extroversion sentence missing")
	}
	if !strings.Contains(got, "balance reasoning with gut feeling") {
		t.Error("mid rationality sentence missing")
	}
	if !strings.Contains(got, "playful and quick to laugh") {
		t.Error("low seriousness sentence missing")
	}
}

func TestCompose_ExperiencesTopFiveByImportance(t *testing.T) {
	t.Parallel()

	c := NewComposer()
	got := c.Compose(testPersona(), Options{})

	if !strings.Contains(got, "first exhibition") {
		t.Error("most important experience missing")
	}
	if strings.Contains(got, "even more minor thing") {
		t.Error("sixth experience should be cut")
	}
	// The top-5 cut keeps the importance-sorted head, so the first
	// importance-1 entry survives and the second does not.
	if !strings.Contains(got, "minor thing") {
		t.Error("fifth experience missing")
	}
}

func TestCompose_OptionalSectionsOmitted(t *testing.T) {
	t.Parallel()

	c := NewComposer()
	got := c.Compose(testPersona(), Options{})

	for _, absent := range []string{"# What you remember", "# Current mood", "# Example exchanges"} {
		if strings.Contains(got, absent) {
			t.Errorf("optional section %q present without input", absent)
		}
	}
	if !strings.Contains(got, "Never mention being an AI") {
		t.Error("ground rules missing")
	}
}

func TestCompose_MemoryBlock(t *testing.T) {
	t.Parallel()

	c := NewComposer()
	got := c.Compose(testPersona(), Options{
		Memories: []core.Memory{
			{Value: "likes iced coffee", Context: "我喜欢喝冰咖啡"},
			{Value: "works as a nurse"},
		},
	})

	if !strings.Contains(got, "1. likes iced coffee (from: \"我喜欢喝冰咖啡\")") {
		t.Error("numbered memory with context missing")
	}
	if !strings.Contains(got, "2. works as a nurse\n") {
		t.Error("memory without context should have no parenthetical")
	}
	if !strings.Contains(got, "never recite them") {
		t.Error("usage instruction missing")
	}
}

func TestCompose_ExampleFiltering(t *testing.T) {
	t.Parallel()

	c := NewComposer()
	got := c.Compose(testPersona(), Options{IncludeExamples: true})

	if strings.Contains(got, "hello there, how was your day?") {
		t.Error("trivial greeting pair not filtered")
	}
	if strings.Contains(got, "too short user message") {
		t.Error("out-of-length pair not filtered")
	}
	if !strings.Contains(got, "1. User: I had a rough day.") {
		t.Error("usable example missing or misnumbered")
	}
}
