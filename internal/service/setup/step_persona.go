package setup

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// PersonaStep selects which persona id to chat with by default.
type PersonaStep struct {
	input textinput.Model
	ready bool
}

func NewPersonaStep() Step {
	return &PersonaStep{}
}

func (s *PersonaStep) Init() tea.Cmd {
	return nil
}

func (s *PersonaStep) Update(msg tea.Msg, state *State, width, height int) (Step, tea.Cmd) {
	if !s.ready {
		s.input = textinput.New()
		s.input.Placeholder = "default"
		s.input.CharLimit = 64
		s.input.Width = 30
		s.input.Focus()
		s.ready = true
		return s, textinput.Blink
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if v := s.input.Value(); v != "" {
			state.EnvVars["MIRA_PERSONA"] = v
		}
		return nil, nil
	}
	return s, cmd
}

func (s *PersonaStep) View(state *State) string {
	if !s.ready {
		return "Loading..."
	}
	return fmt.Sprintf("Persona id to use (empty keeps 'default'; edit personas.yaml later to add your own):\n\n%s\n\n(press enter to confirm)\n", s.input.View())
}
