package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	apperrors "github.com/fadilmartias/resume-screener/internal/errors"
	"github.com/fadilmartias/resume-screener/internal/model"
	"github.com/fadilmartias/resume-screener/internal/repository"
	"github.com/fadilmartias/resume-screener/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, body string
}

type stubMailer struct {
	mu     sync.Mutex
	sent   []sentMail
	reject map[string]error
}

func (m *stubMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.reject[to]; err != nil {
		return err
	}
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

type stubRenderer struct{}

func (stubRenderer) RenderSummary(c model.Candidate) ([]byte, error) {
	return []byte("%PDF-" + c.Name), nil
}

func candidate(name, email string, score float64, v model.Verdict) model.Candidate {
	return model.Candidate{
		ScoreRecord: model.ScoreRecord{Name: name, Email: email, Score: score, ResumeFile: name + ".pdf"},
		Verdict:     v,
	}
}

func seededSessions(t *testing.T) (*SessionUsecase, *repository.MemorySessionStore, *stubMailer, string) {
	t.Helper()
	store := repository.NewMemorySessionStore(0)
	id, err := store.Create(context.Background(), []model.Candidate{
		candidate("Ana Lima", "ana@example.com", 91, model.VerdictShortlist),
		candidate("Budi Santoso", "budi@example.com", 62, model.VerdictReview),
		candidate("Chen Wei", "chen@example.com", 20, model.VerdictReject),
	}, time.Unix(1700000000, 0))
	require.NoError(t, err)

	mailer := &stubMailer{reject: map[string]error{}}
	uc := NewSessionUsecase(store, stubRenderer{}, mailer, nil)
	uc.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC) }
	return uc, store, mailer, id
}

func TestSessionListPagination(t *testing.T) {
	store := repository.NewMemorySessionStore(0)
	base := time.Unix(1700000000, 0)
	for i := 0; i < 5; i++ {
		_, err := store.Create(context.Background(), nil, base.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
	}
	uc := NewSessionUsecase(store, stubRenderer{}, nil, nil)

	items, page, err := uc.List(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, fmt.Sprintf("analysis_%d", base.Add(2*time.Second).Unix()), items[0].ID)
	assert.Equal(t, 3, page.From)
	assert.Equal(t, 4, page.To)
	assert.Equal(t, int64(3), page.TotalPages)
	assert.Equal(t, int64(5), page.TotalItems)
	assert.True(t, page.HasMore)

	items, page, err = uc.List(context.Background(), 9, 0)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, defaultPageSize, page.PageSize)
	assert.False(t, page.HasMore)
	assert.Zero(t, page.From)
}

func TestSessionGetNotFound(t *testing.T) {
	uc, _, _, _ := seededSessions(t)

	_, err := uc.Get(context.Background(), "analysis_1")
	assert.Equal(t, apperrors.ErrTypeNotFound, apperrors.TypeOf(err))
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestSessionUpdateCandidate(t *testing.T) {
	uc, store, _, id := seededSessions(t)
	ctx := context.Background()

	notes := "strong portfolio"
	verdict := "shortlist"
	c, err := uc.UpdateCandidate(ctx, UpdateCandidateInput{Email: "budi@example.com", RecruiterNotes: &notes, Verdict: &verdict})
	require.NoError(t, err)
	assert.Equal(t, model.VerdictShortlist, c.Verdict)
	assert.Equal(t, notes, c.RecruiterNotes)

	empty := ""
	c, err = uc.UpdateCandidate(ctx, UpdateCandidateInput{Email: "budi@example.com", Verdict: &empty})
	require.NoError(t, err)
	assert.Equal(t, model.VerdictShortlist, c.Verdict)
	assert.Equal(t, notes, c.RecruiterNotes)

	sess, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, notes, sess.Candidates[1].RecruiterNotes)

	bad := "maybe"
	_, err = uc.UpdateCandidate(ctx, UpdateCandidateInput{Email: "budi@example.com", Verdict: &bad})
	assert.Equal(t, apperrors.ErrTypeInvalidInput, apperrors.TypeOf(err))

	_, err = uc.UpdateCandidate(ctx, UpdateCandidateInput{Email: "nobody@example.com", RecruiterNotes: &notes})
	assert.Equal(t, apperrors.ErrTypeNotFound, apperrors.TypeOf(err))

	_, err = uc.UpdateCandidate(ctx, UpdateCandidateInput{Email: " "})
	assert.Equal(t, apperrors.ErrTypeInvalidInput, apperrors.TypeOf(err))
}

func TestSessionExport(t *testing.T) {
	uc, _, _, id := seededSessions(t)
	ctx := context.Background()

	f, err := uc.Export(ctx, "", "shortlist", "")
	require.NoError(t, err)
	assert.Equal(t, "shortlist_candidates_20240309_140500.csv", f.Name)
	assert.Equal(t, "text/csv", f.ContentType)

	rows, err := csv.NewReader(bytes.NewReader(f.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Contains(t, rows[1], "ana@example.com")

	f, err = uc.Export(ctx, id, "", "csv")
	require.NoError(t, err)
	assert.Equal(t, "all_candidates_20240309_140500.csv", f.Name)
	rows, err = csv.NewReader(bytes.NewReader(f.Data)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	_, err = uc.Export(ctx, id, "", "pdf")
	assert.Equal(t, apperrors.ErrTypeInvalidInput, apperrors.TypeOf(err))

	_, err = uc.Export(ctx, id, "later", "csv")
	assert.Equal(t, apperrors.ErrTypeInvalidInput, apperrors.TypeOf(err))

	empty := NewSessionUsecase(repository.NewMemorySessionStore(0), stubRenderer{}, nil, nil)
	_, err = empty.Export(ctx, "", "", "csv")
	assert.Equal(t, apperrors.ErrTypeNotFound, apperrors.TypeOf(err))
	assert.Equal(t, "no analysis data available", apperrors.MessageOf(err))
}

func TestSessionSummary(t *testing.T) {
	uc, _, _, _ := seededSessions(t)

	f, err := uc.Summary(context.Background(), "chen@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Chen_Wei_Summary.pdf", f.Name)
	assert.Equal(t, "application/pdf", f.ContentType)
	assert.Equal(t, "%PDF-Chen Wei", string(f.Data))

	f, err = uc.Summary(context.Background(), "Chen@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, "Chen_Wei_Summary.pdf", f.Name)

	_, err = uc.Summary(context.Background(), "ghost@example.com")
	assert.Equal(t, apperrors.ErrTypeNotFound, apperrors.TypeOf(err))
}

func TestSendEmail(t *testing.T) {
	uc, _, mailer, _ := seededSessions(t)
	ctx := context.Background()

	require.NoError(t, uc.SendEmail(ctx, "ana@example.com", "Hello", "Body"))
	require.Len(t, mailer.sent, 1)

	err := uc.SendEmail(ctx, "ana@example.com", "", "Body")
	assert.Equal(t, apperrors.ErrTypeInvalidInput, apperrors.TypeOf(err))

	mailer.reject["bad"] = service.ErrInvalidRecipient
	err = uc.SendEmail(ctx, "bad", "Hi", "Body")
	assert.Equal(t, apperrors.ErrTypeInvalidInput, apperrors.TypeOf(err))

	mailer.reject["down@example.com"] = errors.New("smtp unavailable")
	err = uc.SendEmail(ctx, "down@example.com", "Hi", "Body")
	assert.Equal(t, apperrors.ErrTypeUnavailable, apperrors.TypeOf(err))

	disabled := NewSessionUsecase(repository.NewMemorySessionStore(0), stubRenderer{}, nil, nil)
	err = disabled.SendEmail(ctx, "ana@example.com", "Hi", "Body")
	assert.ErrorIs(t, err, ErrEmailDisabled)
}

func TestSendBulkEmail(t *testing.T) {
	uc, _, mailer, _ := seededSessions(t)
	mailer.reject["chen@example.com"] = errors.New("mailbox full")

	res, err := uc.SendBulkEmail(context.Background(), BulkEmailInput{
		Emails:      []string{"ana@example.com", "chen@example.com", "stranger@example.com"},
		Verdict:     "shortlist",
		Role:        "Backend Engineer",
		CompanyName: "Acme",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ana@example.com", "stranger@example.com"}, res.Sent)
	assert.Equal(t, map[string]string{"chen@example.com": "mailbox full"}, res.Failed)

	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "Interview Opportunity - Backend Engineer at Acme", mailer.sent[0].subject)
	assert.Contains(t, mailer.sent[0].body, "Dear Ana Lima,")
	assert.Contains(t, mailer.sent[1].body, "Dear Candidate,")

	_, err = uc.SendBulkEmail(context.Background(), BulkEmailInput{Emails: []string{"ana@example.com"}, Verdict: "pending"})
	assert.Equal(t, apperrors.ErrTypeInvalidInput, apperrors.TypeOf(err))

	mailer.reject["ana@example.com"] = errors.New("quota")
	_, err = uc.SendBulkEmail(context.Background(), BulkEmailInput{Emails: []string{"ana@example.com"}, Verdict: "reject"})
	assert.Equal(t, apperrors.ErrTypeUnavailable, apperrors.TypeOf(err))
}

func TestRenderTemplateDefaults(t *testing.T) {
	subject, body := renderTemplate(model.VerdictReject, TemplateData{})
	assert.Equal(t, "Update on your application for Position at Our Company", subject)
	assert.Contains(t, body, "Dear Candidate,")
	assert.Contains(t, body, "Our Company Recruitment Team")
}
