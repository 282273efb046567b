package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fadilmartias/resume-screener/internal/model"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrCandidateNotFound = errors.New("candidate not found")
)

const sessionIDPrefix = "analysis_"

// SessionStore keeps the outcome of each analysis run. Candidate membership is
// fixed at creation; only verdict and recruiter notes change afterwards.
type SessionStore interface {
	Create(ctx context.Context, candidates []model.Candidate, createdAt time.Time) (string, error)
	Get(ctx context.Context, id string) (*model.AnalysisSession, error)
	List(ctx context.Context) ([]model.SessionSummary, error)
	Latest(ctx context.Context) (*model.AnalysisSession, error)
	FindCandidateByEmail(ctx context.Context, email string) (*model.Candidate, error)
	UpdateCandidate(ctx context.Context, email string, notes *string, verdict *model.Verdict) (*model.Candidate, error)
	Clear(ctx context.Context) error
}

// sessionID derives an id from the creation second, appending _2, _3... until
// taken reports the id as free.
func sessionID(createdAt time.Time, taken func(string) (bool, error)) (string, error) {
	base := fmt.Sprintf("%s%d", sessionIDPrefix, createdAt.Unix())
	id := base
	for n := 2; ; n++ {
		used, err := taken(id)
		if err != nil {
			return "", err
		}
		if !used {
			return id, nil
		}
		id = fmt.Sprintf("%s_%d", base, n)
	}
}

// emailKey folds an address for lookups. Stored emails are lowercased at
// evaluation time, so matching is case-insensitive.
func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type MemorySessionStore struct {
	mu          sync.RWMutex
	maxSessions int
	order       []string
	sessions    map[string]*model.AnalysisSession
}

// NewMemorySessionStore keeps at most maxSessions sessions, dropping the
// oldest first. maxSessions <= 0 disables eviction.
func NewMemorySessionStore(maxSessions int) *MemorySessionStore {
	return &MemorySessionStore{
		maxSessions: maxSessions,
		sessions:    make(map[string]*model.AnalysisSession),
	}
}

func (s *MemorySessionStore) Create(_ context.Context, candidates []model.Candidate, createdAt time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := sessionID(createdAt, func(id string) (bool, error) {
		_, ok := s.sessions[id]
		return ok, nil
	})
	if err != nil {
		return "", err
	}

	s.sessions[id] = &model.AnalysisSession{
		ID:         id,
		CreatedAt:  createdAt,
		Candidates: cloneCandidates(candidates),
	}
	s.order = append(s.order, id)

	for s.maxSessions > 0 && len(s.order) > s.maxSessions {
		delete(s.sessions, s.order[0])
		s.order = s.order[1:]
	}
	return id, nil
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (*model.AnalysisSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return cloneSession(sess), nil
}

func (s *MemorySessionStore) List(_ context.Context) ([]model.SessionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.SessionSummary, 0, len(s.order))
	for _, id := range s.order {
		sess := s.sessions[id]
		out = append(out, model.SessionSummary{
			ID:              sess.ID,
			CreatedAt:       sess.CreatedAt,
			TotalCandidates: len(sess.Candidates),
		})
	}
	return out, nil
}

func (s *MemorySessionStore) Latest(_ context.Context) (*model.AnalysisSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.order) == 0 {
		return nil, ErrSessionNotFound
	}
	return cloneSession(s.sessions[s.order[len(s.order)-1]]), nil
}

func (s *MemorySessionStore) FindCandidateByEmail(_ context.Context, email string) (*model.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.find(email)
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrCandidateNotFound, email)
	}
	found := *c
	return &found, nil
}

// UpdateCandidate changes the first candidate matching email. A nil argument
// leaves that field as is; an empty notes string clears the notes.
func (s *MemorySessionStore) UpdateCandidate(_ context.Context, email string, notes *string, verdict *model.Verdict) (*model.Candidate, error) {
	if verdict != nil && !verdict.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidVerdict, *verdict)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.find(email)
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrCandidateNotFound, email)
	}
	if notes != nil {
		c.RecruiterNotes = *notes
	}
	if verdict != nil {
		c.Verdict = *verdict
	}
	updated := *c
	return &updated, nil
}

func (s *MemorySessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = nil
	s.sessions = make(map[string]*model.AnalysisSession)
	return nil
}

// find scans sessions oldest first and candidates in ranked order.
// Callers hold the lock.
func (s *MemorySessionStore) find(email string) *model.Candidate {
	key := emailKey(email)
	for _, id := range s.order {
		sess := s.sessions[id]
		for i := range sess.Candidates {
			if emailKey(sess.Candidates[i].Email) == key {
				return &sess.Candidates[i]
			}
		}
	}
	return nil
}

func cloneCandidates(in []model.Candidate) []model.Candidate {
	out := make([]model.Candidate, len(in))
	copy(out, in)
	return out
}

func cloneSession(s *model.AnalysisSession) *model.AnalysisSession {
	return &model.AnalysisSession{
		ID:         s.ID,
		CreatedAt:  s.CreatedAt,
		Candidates: cloneCandidates(s.Candidates),
	}
}
