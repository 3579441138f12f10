package core

import "context"

// AIProvider is the opaque remote completion service. It is the only
// collaborator that can fail over the network.
type AIProvider interface {
	Chat(ctx context.Context, history []Message, opts GenOptions) (Completion, error)
}

// PersonaProvider resolves a persona id to its read-only definition.
type PersonaProvider interface {
	Get(ctx context.Context, id string) (Persona, error)
}
