package chat

import "context"

// Result is the canonical outcome of one chat capability call. Every
// provider wire shape is normalized into this type at the client boundary;
// nothing outside the client package inspects raw provider payloads.
type Result struct {
	// Text is the fully buffered generated text.
	Text string
	// SessionID is the provider-assigned session handle. It carries the
	// server-side conversational context for one party and is scoped to a
	// single conversation.
	SessionID string
}

// Request describes one message sent to the chat capability.
type Request struct {
	// Credential is the opaque bearer for the party issuing the message.
	Credential string
	// Message is the user-visible message body.
	Message string
	// SessionID resumes an existing provider session when non-empty.
	SessionID string
	// SystemPrompt seeds persona instructions. Only meaningful on the
	// first message of a session; sessions already carry their persona.
	SystemPrompt string
}

// ChunkFunc receives partial generated text in arrival order. It is never
// invoked after the originating call returns.
type ChunkFunc func(chunk string)

// Capability is the contract this system requires from the conversational
// AI provider.
type Capability interface {
	// Send issues a blocking request and returns the buffered result.
	Send(ctx context.Context, req Request) (*Result, error)
	// SendStream behaves like Send but invokes onChunk as partial text
	// arrives. The returned Result is authoritative even when it differs
	// from the accumulated chunks.
	SendStream(ctx context.Context, req Request, onChunk ChunkFunc) (*Result, error)
}

// CredentialProvider resolves a usable bearer credential for a user.
// Refresh logic is the provider's concern; callers only see a valid
// credential or an error.
type CredentialProvider interface {
	ValidCredential(ctx context.Context, userID string) (string, error)
}
