package interview

import "context"

// Repository persists interview conversations. CreateIfAbsent must be
// race-safe: two concurrent requests for the same (user, job) pair resolve
// to a single row.
type Repository interface {
	FindByPublicID(ctx context.Context, publicID string) (*Conversation, error)
	FindByUserAndJob(ctx context.Context, userID, jobID string) (*Conversation, error)
	CreateIfAbsent(ctx context.Context, conv *Conversation) (*Conversation, error)
	Update(ctx context.Context, conv *Conversation) error
}
