package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"zhipin-server/internal/domain/interview"
	"zhipin-server/internal/domain/talent"
)

type mockJobRepo struct {
	jobs []*talent.Job
	err  error
}

func (m *mockJobRepo) FindByPublicID(ctx context.Context, publicID string) (*talent.Job, error) {
	for _, job := range m.jobs {
		if job.PublicID == publicID {
			return job, nil
		}
	}
	return nil, errors.New("job not found")
}

func (m *mockJobRepo) ListOpen(ctx context.Context, limit int) ([]*talent.Job, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.jobs, nil
}

type mockProfileRepo struct {
	profile *talent.CandidateProfile
	err     error
}

func (m *mockProfileRepo) FindByUserID(ctx context.Context, userID string) (*talent.CandidateProfile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.profile, nil
}

type mockInterviewService struct {
	interview.Service

	createOrGetFunc func(ctx context.Context, userID, jobID string) (*interview.Conversation, error)
}

func (m *mockInterviewService) CreateOrGet(ctx context.Context, userID, jobID string) (*interview.Conversation, error) {
	return m.createOrGetFunc(ctx, userID, jobID)
}

type mockConversationRepo struct {
	byPair map[string]*interview.Conversation
}

func pairKey(userID, jobID string) string { return userID + "|" + jobID }

func (m *mockConversationRepo) FindByPublicID(ctx context.Context, publicID string) (*interview.Conversation, error) {
	for _, conv := range m.byPair {
		if conv.PublicID == publicID {
			return conv, nil
		}
	}
	return nil, interview.ErrNotFound
}

func (m *mockConversationRepo) FindByUserAndJob(ctx context.Context, userID, jobID string) (*interview.Conversation, error) {
	if conv, ok := m.byPair[pairKey(userID, jobID)]; ok {
		return conv, nil
	}
	return nil, interview.ErrNotFound
}

func (m *mockConversationRepo) CreateIfAbsent(ctx context.Context, conv *interview.Conversation) (*interview.Conversation, error) {
	if existing, ok := m.byPair[pairKey(conv.UserID, conv.JobID)]; ok {
		return existing, nil
	}
	if m.byPair == nil {
		m.byPair = map[string]*interview.Conversation{}
	}
	m.byPair[pairKey(conv.UserID, conv.JobID)] = conv
	return conv, nil
}

func (m *mockConversationRepo) Update(ctx context.Context, conv *interview.Conversation) error {
	return nil
}

type mockEnqueuer struct {
	enqueued []string
	err      error
}

func (m *mockEnqueuer) EnqueueAutoInterview(ctx context.Context, conversationID, userID, jobID string) error {
	if m.err != nil {
		return m.err
	}
	m.enqueued = append(m.enqueued, conversationID)
	return nil
}

func testProfile() *talent.CandidateProfile {
	return &talent.CandidateProfile{
		UserID:   "user_1",
		Name:     "张三",
		Title:    "Go 后端工程师",
		City:     "北京",
		YearsExp: 3,
		Skills:   "Go, Kubernetes, PostgreSQL",
	}
}

func testJob(publicID, title, city string) *talent.Job {
	return &talent.Job{
		PublicID:       publicID,
		EmployerUserID: "emp_1",
		Title:          title,
		City:           city,
		Status:         talent.JobStatusOpen,
	}
}

func TestRecommendRanksByScore(t *testing.T) {
	jobs := &mockJobRepo{jobs: []*talent.Job{
		testJob("job_far", "行政专员", "成都"),
		testJob("job_near", "Go 后端工程师", "北京"),
	}}
	svc := NewService(jobs, &mockProfileRepo{profile: testProfile()}, nil, &mockConversationRepo{}, &mockEnqueuer{}, zerolog.Nop())

	recs, err := svc.Recommend(context.Background(), "user_1", 10, false)
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	if recs[0].Job.PublicID != "job_near" {
		t.Errorf("expected best match first, got %s", recs[0].Job.PublicID)
	}
	if recs[0].Score <= recs[1].Score {
		t.Errorf("expected descending scores, got %d then %d", recs[0].Score, recs[1].Score)
	}
}

func TestRecommendSkipsOwnPostings(t *testing.T) {
	own := testJob("job_own", "Go 后端工程师", "北京")
	own.EmployerUserID = "user_1"
	jobs := &mockJobRepo{jobs: []*talent.Job{own, testJob("job_other", "Go 后端工程师", "北京")}}
	svc := NewService(jobs, &mockProfileRepo{profile: testProfile()}, nil, &mockConversationRepo{}, &mockEnqueuer{}, zerolog.Nop())

	recs, err := svc.Recommend(context.Background(), "user_1", 10, false)
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if len(recs) != 1 || recs[0].Job.PublicID != "job_other" {
		t.Fatalf("expected own posting to be skipped, got %+v", recs)
	}
}

func TestRecommendCapsResults(t *testing.T) {
	jobs := &mockJobRepo{jobs: []*talent.Job{
		testJob("job_1", "Go 后端工程师", "北京"),
		testJob("job_2", "Go 工程师", "北京"),
		testJob("job_3", "后端工程师", "上海"),
	}}
	svc := NewService(jobs, &mockProfileRepo{profile: testProfile()}, nil, &mockConversationRepo{}, &mockEnqueuer{}, zerolog.Nop())

	recs, err := svc.Recommend(context.Background(), "user_1", 2, false)
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("expected 2 recommendations, got %d", len(recs))
	}
}

func TestRecommendRequiresProfile(t *testing.T) {
	svc := NewService(&mockJobRepo{}, &mockProfileRepo{err: errors.New("no rows")}, nil, &mockConversationRepo{}, &mockEnqueuer{}, zerolog.Nop())

	_, err := svc.Recommend(context.Background(), "user_1", 10, false)
	if !errors.Is(err, interview.ErrProfileRequired) {
		t.Fatalf("expected ErrProfileRequired, got %v", err)
	}
}

func TestRecommendAutoStartEnqueues(t *testing.T) {
	jobs := &mockJobRepo{jobs: []*talent.Job{testJob("job_1", "Go 后端工程师", "北京")}}
	enqueuer := &mockEnqueuer{}
	interviews := &mockInterviewService{
		createOrGetFunc: func(ctx context.Context, userID, jobID string) (*interview.Conversation, error) {
			return &interview.Conversation{PublicID: "conv_" + jobID, UserID: userID, JobID: jobID, Status: interview.StatusPending}, nil
		},
	}
	svc := NewService(jobs, &mockProfileRepo{profile: testProfile()}, interviews, &mockConversationRepo{}, enqueuer, zerolog.Nop())

	recs, err := svc.Recommend(context.Background(), "user_1", 10, true)
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if recs[0].ConversationID != "conv_job_1" {
		t.Errorf("expected conversation id on recommendation, got %q", recs[0].ConversationID)
	}
	if len(enqueuer.enqueued) != 1 || enqueuer.enqueued[0] != "conv_job_1" {
		t.Errorf("expected one enqueued task, got %v", enqueuer.enqueued)
	}
}

func TestRecommendAnnotatesExistingAIScore(t *testing.T) {
	jobs := &mockJobRepo{jobs: []*talent.Job{testJob("job_1", "Go 后端工程师", "北京")}}
	score := 85
	conversations := &mockConversationRepo{byPair: map[string]*interview.Conversation{
		pairKey("user_1", "job_1"): {
			PublicID:   "conv_scored",
			UserID:     "user_1",
			JobID:      "job_1",
			Status:     interview.StatusCompleted,
			MatchScore: &score,
		},
	}}
	enqueuer := &mockEnqueuer{}
	svc := NewService(jobs, &mockProfileRepo{profile: testProfile()}, nil, conversations, enqueuer, zerolog.Nop())

	recs, err := svc.Recommend(context.Background(), "user_1", 10, true)
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if recs[0].AIScore == nil || *recs[0].AIScore != 85 {
		t.Errorf("expected AI score 85, got %v", recs[0].AIScore)
	}
	if recs[0].ConversationID != "conv_scored" {
		t.Errorf("expected existing conversation id, got %q", recs[0].ConversationID)
	}
	if len(enqueuer.enqueued) != 0 {
		t.Errorf("expected scored pair to be skipped, got %v", enqueuer.enqueued)
	}
}

func TestRecommendAutoStartSkipsTerminalConversations(t *testing.T) {
	jobs := &mockJobRepo{jobs: []*talent.Job{testJob("job_1", "Go 后端工程师", "北京")}}
	enqueuer := &mockEnqueuer{}
	interviews := &mockInterviewService{
		createOrGetFunc: func(ctx context.Context, userID, jobID string) (*interview.Conversation, error) {
			return &interview.Conversation{PublicID: "conv_done", UserID: userID, JobID: jobID, Status: interview.StatusCompleted}, nil
		},
	}
	svc := NewService(jobs, &mockProfileRepo{profile: testProfile()}, interviews, &mockConversationRepo{}, enqueuer, zerolog.Nop())

	recs, err := svc.Recommend(context.Background(), "user_1", 10, true)
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if recs[0].ConversationID != "conv_done" {
		t.Errorf("expected conversation id even for finished runs, got %q", recs[0].ConversationID)
	}
	if len(enqueuer.enqueued) != 0 {
		t.Errorf("expected no enqueued tasks, got %v", enqueuer.enqueued)
	}
}
