package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/recruitment-service/internal/config"
	"github.com/spec-kit/recruitment-service/internal/domain"
	"github.com/spec-kit/recruitment-service/internal/events"
	"github.com/spec-kit/recruitment-service/internal/repository"
)

// memDB backs every fake repository so cross-aggregate effects are visible.
type memDB struct {
	mu         sync.Mutex
	seq        int
	users      map[string]domain.User
	candidates map[string]domain.Candidate
	stages     map[string]domain.Stage
	history    []domain.CandidateHistory
	comments   []domain.CandidateComment
	perms      map[string]domain.RecruiterPermissions
	resets     map[string]domain.PasswordResetToken
	interviews map[string]domain.Interview
}

func newMemDB() *memDB {
	return &memDB{
		users:      map[string]domain.User{},
		candidates: map[string]domain.Candidate{},
		stages:     map[string]domain.Stage{},
		perms:      map[string]domain.RecruiterPermissions{},
		resets:     map[string]domain.PasswordResetToken{},
		interviews: map[string]domain.Interview{},
	}
}

func (db *memDB) nextID(prefix string) string {
	db.seq++
	return fmt.Sprintf("%s-%d", prefix, db.seq)
}

func testConfig() config.Config {
	return config.Config{Auth: config.AuthConfig{
		JWTSecret:               "test-secret",
		AccessTokenTTLMinutes:   60,
		PasswordResetTTLMinutes: 30,
		BcryptCost:              bcrypt.MinCost,
	}}
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
}

type fakeUsers struct{ db *memDB }

func (f fakeUsers) Create(_ context.Context, user *domain.User) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, u := range f.db.users {
		if strings.EqualFold(u.Email, user.Email) {
			return uniqueViolation()
		}
	}
	user.ID = f.db.nextID("user")
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.db.users[user.ID] = *user
	return nil
}

func (f fakeUsers) Update(_ context.Context, user *domain.User) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.db.users[user.ID] = *user
	return nil
}

func (f fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	u, ok := f.db.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, u := range f.db.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f fakeUsers) ListByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var result []domain.User
	for _, u := range f.db.users {
		if u.Role == role {
			result = append(result, u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f fakeUsers) Delete(_ context.Context, id string, role domain.Role) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	u, ok := f.db.users[id]
	if !ok || u.Role != role {
		return pgx.ErrNoRows
	}
	delete(f.db.users, id)
	return nil
}

type fakeCandidates struct {
	db *memDB
	// beforeUpdate runs ahead of the version check to simulate a concurrent writer.
	beforeUpdate func()
}

func (f *fakeCandidates) CreateWithUser(ctx context.Context, user *domain.User, candidate *domain.Candidate, actorID *string) error {
	if err := (fakeUsers{f.db}).Create(ctx, user); err != nil {
		return err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	candidate.ID = f.db.nextID("cand")
	candidate.UserID = user.ID
	candidate.Version = 1
	f.db.candidates[candidate.ID] = *candidate
	f.db.history = append(f.db.history, domain.CandidateHistory{
		ID:          f.db.nextID("hist"),
		CandidateID: candidate.ID,
		ActorID:     actorID,
		Action:      domain.ActionCreated,
		NewStageID:  candidate.StageID,
		NewStatus:   candidate.Status,
	})
	return nil
}

func (f *fakeCandidates) Update(_ context.Context, candidate *domain.Candidate, expectedVersion int, entry *domain.CandidateHistory) error {
	if f.beforeUpdate != nil {
		f.beforeUpdate()
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	stored, ok := f.db.candidates[candidate.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Version != expectedVersion {
		return repository.ErrStaleVersion
	}
	candidate.Version = stored.Version + 1
	f.db.candidates[candidate.ID] = *candidate
	if entry != nil {
		entry.ID = f.db.nextID("hist")
		entry.CandidateID = candidate.ID
		f.db.history = append(f.db.history, *entry)
	}
	return nil
}

func (f *fakeCandidates) GetByID(_ context.Context, id string) (*domain.Candidate, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	c, ok := f.db.candidates[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &c, nil
}

func (f *fakeCandidates) GetByUserID(_ context.Context, userID string) (*domain.Candidate, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, c := range f.db.candidates {
		if c.UserID == userID {
			return &c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeCandidates) ListWithFilter(_ context.Context, filter repository.CandidateFilter) ([]domain.Candidate, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var result []domain.Candidate
	for _, c := range f.db.candidates {
		if filter.StageID != nil && (c.StageID == nil || *c.StageID != *filter.StageID) {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, s := range filter.Statuses {
				match = match || c.Status == s
			}
			if !match {
				continue
			}
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeCandidates) TouchLastInterview(_ context.Context, id string, at time.Time) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	c, ok := f.db.candidates[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if c.LastInterviewAt == nil || c.LastInterviewAt.Before(at) {
		c.LastInterviewAt = &at
		f.db.candidates[id] = c
	}
	return nil
}

func (f *fakeCandidates) Delete(_ context.Context, id string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	c, ok := f.db.candidates[id]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(f.db.candidates, id)
	delete(f.db.users, c.UserID)
	return nil
}

type fakeStages struct{ db *memDB }

func (f fakeStages) Create(_ context.Context, stage *domain.Stage) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	stage.ID = f.db.nextID("stage")
	f.db.stages[stage.ID] = *stage
	return nil
}

func (f fakeStages) Update(_ context.Context, stage *domain.Stage) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.stages[stage.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.db.stages[stage.ID] = *stage
	return nil
}

func (f fakeStages) GetByID(_ context.Context, id string) (*domain.Stage, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	s, ok := f.db.stages[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &s, nil
}

func (f fakeStages) List(_ context.Context, includeInactive bool) ([]domain.Stage, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var result []domain.Stage
	for _, s := range f.db.stages {
		if s.Active || includeInactive {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Order < result[j].Order })
	return result, nil
}

func (f fakeStages) CountCandidates(_ context.Context, stageID string) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var n int64
	for _, c := range f.db.candidates {
		if c.StageID != nil && *c.StageID == stageID {
			n++
		}
	}
	return n, nil
}

func (f fakeStages) Retire(_ context.Context, stageID string, opts repository.RetireOptions) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	stage, ok := f.db.stages[stageID]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	var moved int64
	if opts.ReassignTo != nil {
		for id, c := range f.db.candidates {
			if c.StageID == nil || *c.StageID != stageID {
				continue
			}
			target := *opts.ReassignTo
			f.db.history = append(f.db.history, domain.CandidateHistory{
				ID:          f.db.nextID("hist"),
				CandidateID: id,
				ActorID:     opts.ActorID,
				Action:      domain.ActionSetStage,
				OldStageID:  c.StageID,
				NewStageID:  &target,
				OldStatus:   c.Status,
				NewStatus:   c.Status,
			})
			c.StageID = &target
			c.Version++
			f.db.candidates[id] = c
			moved++
		}
	}
	if opts.Delete {
		delete(f.db.stages, stageID)
	} else {
		stage.Active = false
		f.db.stages[stageID] = stage
	}
	return moved, nil
}

type fakeHistory struct{ db *memDB }

func (f fakeHistory) ListByCandidate(_ context.Context, candidateID string) ([]domain.CandidateHistory, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var result []domain.CandidateHistory
	for _, h := range f.db.history {
		if h.CandidateID == candidateID {
			result = append(result, h)
		}
	}
	return result, nil
}

type fakeComments struct{ db *memDB }

func (f fakeComments) Create(_ context.Context, comment *domain.CandidateComment) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	comment.ID = f.db.nextID("comment")
	f.db.comments = append(f.db.comments, *comment)
	return nil
}

func (f fakeComments) ListByCandidate(_ context.Context, candidateID string) ([]domain.CandidateComment, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var result []domain.CandidateComment
	for _, c := range f.db.comments {
		if c.CandidateID == candidateID {
			result = append(result, c)
		}
	}
	return result, nil
}

type fakePerms struct{ db *memDB }

func (f fakePerms) Get(_ context.Context, userID string) (*domain.RecruiterPermissions, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	p, ok := f.db.perms[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (f fakePerms) Upsert(_ context.Context, p *domain.RecruiterPermissions) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	p.UpdatedAt = time.Now()
	f.db.perms[p.UserID] = *p
	return nil
}

type fakeResets struct{ db *memDB }

func (f fakeResets) Create(_ context.Context, token *domain.PasswordResetToken) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	now := time.Now()
	for key, t := range f.db.resets {
		if t.UserID == token.UserID && t.UsedAt == nil {
			t.UsedAt = &now
			f.db.resets[key] = t
		}
	}
	token.ID = f.db.nextID("reset")
	f.db.resets[token.Token] = *token
	return nil
}

func (f fakeResets) GetByToken(_ context.Context, token string) (*domain.PasswordResetToken, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	t, ok := f.db.resets[token]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &t, nil
}

func (f fakeResets) MarkUsed(_ context.Context, id string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for key, t := range f.db.resets {
		if t.ID == id {
			if t.UsedAt != nil {
				return repository.ErrResetTokenConsumed
			}
			now := time.Now()
			t.UsedAt = &now
			f.db.resets[key] = t
			return nil
		}
	}
	return repository.ErrResetTokenConsumed
}

type fakeInterviews struct{ db *memDB }

func (f fakeInterviews) Create(_ context.Context, interview *domain.Interview) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	interview.ID = f.db.nextID("interview")
	f.db.interviews[interview.ID] = *interview
	return nil
}

func (f fakeInterviews) Update(_ context.Context, interview *domain.Interview) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.interviews[interview.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.db.interviews[interview.ID] = *interview
	return nil
}

func (f fakeInterviews) GetByID(_ context.Context, id string) (*domain.Interview, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	i, ok := f.db.interviews[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &i, nil
}

func (f fakeInterviews) List(_ context.Context, filter repository.InterviewFilter) ([]domain.Interview, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var result []domain.Interview
	for _, i := range f.db.interviews {
		if filter.CandidateID != nil && i.CandidateID != *filter.CandidateID {
			continue
		}
		result = append(result, i)
	}
	sort.Slice(result, func(a, b int) bool { return result[a].ScheduledAt.Before(result[b].ScheduledAt) })
	return result, nil
}

func (f fakeInterviews) Delete(_ context.Context, id string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.interviews[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.db.interviews, id)
	return nil
}

// fakeCVStore keeps uploaded files in memory.
type fakeCVStore struct {
	files map[string][]byte
}

func (s *fakeCVStore) Save(_ context.Context, name string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	if s.files == nil {
		s.files = map[string][]byte{}
	}
	url := "/uploads/" + name
	s.files[url] = buf.Bytes()
	return url, nil
}

func (s *fakeCVStore) Remove(_ context.Context, url string) error {
	delete(s.files, url)
	return nil
}

// recordingDispatcher captures published events.
type recordingDispatcher struct {
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	out := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Type)
	}
	return out
}

func seedStage(db *memDB, id, name string, order int, active bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.stages[id] = domain.Stage{ID: id, Name: name, Order: order, Active: active}
}

func seedCandidate(db *memDB, id string, stageID *string, status domain.CandidateStatus) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.candidates[id] = domain.Candidate{
		ID:        id,
		UserID:    "user-" + id,
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     id + "@example.com",
		Position:  "Engineer",
		StageID:   stageID,
		Status:    status,
		Version:   1,
	}
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }
