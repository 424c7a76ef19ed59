package talent

import "context"

// UserRepository exposes account lookups needed by credentials and interviews.
type UserRepository interface {
	FindByPublicID(ctx context.Context, publicID string) (*User, error)
	UpdateTokens(ctx context.Context, publicID, accessToken, refreshToken string, expiresAt int64) error
}

// ProfileRepository fetches candidate profiles.
type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*CandidateProfile, error)
}

// JobRepository exposes job lookups for interviews and recommendations.
type JobRepository interface {
	FindByPublicID(ctx context.Context, publicID string) (*Job, error)
	ListOpen(ctx context.Context, limit int) ([]*Job, error)
}

// MatchRepository persists like/pass decisions. Upsert is keyed on
// (user, job) so repeated decisions update in place.
type MatchRepository interface {
	Upsert(ctx context.Context, userID, jobID string, status MatchStatus, unlocked bool) (*Match, error)
	FindByUserAndJob(ctx context.Context, userID, jobID string) (*Match, error)
}
