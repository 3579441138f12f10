package setup

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/yaml.v3"

	"github.com/sandevgo/mira/internal/config"
	"github.com/sandevgo/mira/internal/core"
	"github.com/sandevgo/mira/internal/persona"
	"github.com/sandevgo/mira/pkg/env"
)

// envFile mirrors the AppConfig env surface so the wizard output stays
// in sync with what the app parses.
type envFile struct {
	Provider      string `env:"LLM_PROVIDER"`
	Model         string `env:"LLM_MODEL"`
	OpenAIKey     string `env:"OPENAI_API_KEY"`
	OpenRouterKey string `env:"OPENROUTER_API_KEY"`
	OllamaBaseURL string `env:"OLLAMA_BASE_URL"`
	OllamaKey     string `env:"OLLAMA_API_KEY"`
	CustomBaseURL string `env:"CUSTOM_OPENAI_BASE_URL"`
	CustomKey     string `env:"CUSTOM_OPENAI_API_KEY"`
	PersonaID     string `env:"MIRA_PERSONA"`
}

// SaveEnvStep writes the collected configuration to the .env file.
type SaveEnvStep struct {
	err   error
	saved bool
}

func NewSaveEnvStep() Step {
	return &SaveEnvStep{}
}

type nextMsg struct{}

func (s *SaveEnvStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *SaveEnvStep) Update(msg tea.Msg, state *State, width, height int) (Step, tea.Cmd) {
	if s.saved {
		return nil, nil
	}

	path := config.GetRuntimePath()
	if err := os.MkdirAll(path, 0755); err != nil {
		s.err = fmt.Errorf("failed to create runtime directory: %w", err)
		return s, nil
	}

	envPath := filepath.Join(path, ".env")
	if _, err := os.Stat(envPath); err == nil {
		s.err = fmt.Errorf(".env file already exists at %s", envPath)
		return s, nil
	}

	file := envFile{
		Provider:      state.EnvVars["LLM_PROVIDER"],
		Model:         state.EnvVars["LLM_MODEL"],
		OpenAIKey:     state.EnvVars["OPENAI_API_KEY"],
		OpenRouterKey: state.EnvVars["OPENROUTER_API_KEY"],
		OllamaBaseURL: state.EnvVars["OLLAMA_BASE_URL"],
		OllamaKey:     state.EnvVars["OLLAMA_API_KEY"],
		CustomBaseURL: state.EnvVars["CUSTOM_OPENAI_BASE_URL"],
		CustomKey:     state.EnvVars["CUSTOM_OPENAI_API_KEY"],
		PersonaID:     state.EnvVars["MIRA_PERSONA"],
	}
	content, err := env.MarshalEnv(&file)
	if err != nil {
		s.err = err
		return s, nil
	}

	if err := os.WriteFile(envPath, []byte(content), 0600); err != nil {
		s.err = err
		return s, nil
	}

	s.saved = true
	return nil, nil
}

func (s *SaveEnvStep) View(state *State) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.saved {
		return "Configuration saved successfully!\n"
	}
	return "Saving configuration...\n"
}

// InitializeFilesStep seeds the runtime directory with a starter
// personas.yaml the user can edit.
type InitializeFilesStep struct {
	err  error
	done bool
}

func NewInitializeFilesStep() Step {
	return &InitializeFilesStep{}
}

func (s *InitializeFilesStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *InitializeFilesStep) Update(msg tea.Msg, state *State, width, height int) (Step, tea.Cmd) {
	if s.done {
		return nil, nil
	}

	path := config.GetRuntimePath()
	if err := os.MkdirAll(path, 0755); err != nil {
		s.err = fmt.Errorf("failed to create runtime directory: %w", err)
		return s, nil
	}

	personasPath := filepath.Join(path, "personas.yaml")
	if _, err := os.Stat(personasPath); err == nil {
		// Keep the user's existing personas.
		s.done = true
		return nil, nil
	}

	data, err := yaml.Marshal(struct {
		Personas []core.Persona `yaml:"personas"`
	}{Personas: []core.Persona{persona.DefaultPersona}})
	if err != nil {
		s.err = err
		return s, nil
	}

	if err := os.WriteFile(personasPath, data, 0644); err != nil {
		s.err = fmt.Errorf("failed to write %s: %w", personasPath, err)
		return s, nil
	}

	s.done = true
	return nil, nil
}

func (s *InitializeFilesStep) View(state *State) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.done {
		return "Runtime files initialized successfully!\n"
	}
	return "Initializing runtime files...\n"
}
