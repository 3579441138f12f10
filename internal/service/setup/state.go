package setup

// State accumulates the env values collected across wizard steps.
type State struct {
	EnvVars map[string]string
}

func NewState() *State {
	return &State{
		EnvVars: make(map[string]string),
	}
}
