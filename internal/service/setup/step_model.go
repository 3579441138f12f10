package setup

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ModelStep picks the model identifier. Custom providers also need a
// base URL first.
type ModelStep struct {
	input    textinput.Model
	urlInput textinput.Model
	needURL  bool
	urlDone  bool
	ready    bool
}

func NewModelStep() Step {
	return &ModelStep{}
}

func (s *ModelStep) Init() tea.Cmd {
	return nil
}

func (s *ModelStep) setup(state *State) {
	s.needURL = state.EnvVars["LLM_PROVIDER"] == "custom"

	s.urlInput = textinput.New()
	s.urlInput.Placeholder = "https://my-endpoint.example.com/v1"
	s.urlInput.CharLimit = 255
	s.urlInput.Width = 50

	s.input = textinput.New()
	s.input.CharLimit = 128
	s.input.Width = 50
	switch state.EnvVars["LLM_PROVIDER"] {
	case "openrouter":
		s.input.Placeholder = "google/gemma-3-27b-it:free"
	case "openai":
		s.input.Placeholder = "gpt-4o-mini"
	case "ollama":
		s.input.Placeholder = "qwen2.5:7b"
	default:
		s.input.Placeholder = "model identifier"
	}

	if s.needURL {
		s.urlInput.Focus()
	} else {
		s.input.Focus()
	}
	s.ready = true
}

func (s *ModelStep) Update(msg tea.Msg, state *State, width, height int) (Step, tea.Cmd) {
	if !s.ready {
		s.setup(state)
		return s, textinput.Blink
	}

	var cmd tea.Cmd
	if s.needURL && !s.urlDone {
		s.urlInput, cmd = s.urlInput.Update(msg)
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
			state.EnvVars["CUSTOM_OPENAI_BASE_URL"] = s.urlInput.Value()
			s.urlDone = true
			s.input.Focus()
			return s, textinput.Blink
		}
		return s, cmd
	}

	s.input, cmd = s.input.Update(msg)
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if v := s.input.Value(); v != "" {
			state.EnvVars["LLM_MODEL"] = v
		}
		return nil, nil
	}
	return s, cmd
}

func (s *ModelStep) View(state *State) string {
	if !s.ready {
		return "Loading..."
	}
	if s.needURL && !s.urlDone {
		return fmt.Sprintf("Enter the base URL of your OpenAI-compatible endpoint:\n\n%s\n\n(press enter to confirm)\n", s.urlInput.View())
	}
	return fmt.Sprintf("Enter the model to chat with (empty keeps the default):\n\n%s\n\n(press enter to confirm)\n", s.input.View())
}
