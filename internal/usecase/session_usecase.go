package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	apperrors "github.com/fadilmartias/resume-screener/internal/errors"
	"github.com/fadilmartias/resume-screener/internal/export"
	"github.com/fadilmartias/resume-screener/internal/logger"
	"github.com/fadilmartias/resume-screener/internal/model"
	"github.com/fadilmartias/resume-screener/internal/repository"
	"github.com/fadilmartias/resume-screener/internal/response"
	"github.com/fadilmartias/resume-screener/internal/scoring"
	"github.com/fadilmartias/resume-screener/internal/service"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var ErrEmailDisabled = errors.New("email sender is not configured")

// File is a rendered download.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type UpdateCandidateInput struct {
	Email          string
	RecruiterNotes *string
	Verdict        *string
}

type BulkEmailInput struct {
	Emails      []string
	Verdict     string
	Role        string
	CompanyName string
}

type BulkEmailResult struct {
	Sent   []string          `json:"sent"`
	Failed map[string]string `json:"failed,omitempty"`
}

// SessionUsecase serves everything done with a session after it was created.
type SessionUsecase struct {
	sessions repository.SessionStore
	renderer service.SummaryRenderer
	mailer   service.EmailSender
	log      *zap.Logger
	now      func() time.Time
}

func NewSessionUsecase(sessions repository.SessionStore, renderer service.SummaryRenderer, mailer service.EmailSender, log *zap.Logger) *SessionUsecase {
	return &SessionUsecase{
		sessions: sessions,
		renderer: renderer,
		mailer:   mailer,
		log:      logger.OrNop(log),
		now:      time.Now,
	}
}

func (u *SessionUsecase) Get(ctx context.Context, id string) (*model.AnalysisSession, error) {
	sess, err := u.sessions.Get(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	return sess, nil
}

// List pages through session summaries in creation order.
func (u *SessionUsecase) List(ctx context.Context, page, pageSize int) ([]model.SessionSummary, *response.Pagination, error) {
	all, err := u.sessions.List(ctx)
	if err != nil {
		return nil, nil, storeError(err)
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	pageSize = min(pageSize, maxPageSize)

	total := len(all)
	from := min((page-1)*pageSize, total)
	to := min(from+pageSize, total)
	totalPages := (total + pageSize - 1) / pageSize

	p := &response.Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int64(totalPages),
		TotalItems: int64(total),
		HasMore:    to < total,
	}
	if to > from {
		p.From = from + 1
		p.To = to
	}
	return all[from:to], p, nil
}

func (u *SessionUsecase) Clear(ctx context.Context) error {
	if err := u.sessions.Clear(ctx); err != nil {
		return storeError(err)
	}
	u.log.Info("sessions cleared")
	return nil
}

func (u *SessionUsecase) UpdateCandidate(ctx context.Context, in UpdateCandidateInput) (*model.Candidate, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, apperrors.InvalidInput("candidate_id is required", nil)
	}

	var verdict *model.Verdict
	if in.Verdict != nil && strings.TrimSpace(*in.Verdict) != "" {
		v, err := model.ParseVerdict(*in.Verdict)
		if err != nil {
			return nil, apperrors.InvalidInput("verdict must be shortlist, review or reject", err)
		}
		verdict = &v
	}

	c, err := u.sessions.UpdateCandidate(ctx, email, in.RecruiterNotes, verdict)
	if err != nil {
		return nil, storeError(err)
	}
	u.log.Info("candidate updated", zap.String("email", email), zap.String("verdict", string(c.Verdict)))
	return c, nil
}

// Export renders a session, the latest when sessionID is empty, optionally
// filtered by verdict.
func (u *SessionUsecase) Export(ctx context.Context, sessionID, verdict, format string) (*File, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error(), err)
	}

	var v model.Verdict
	if strings.TrimSpace(verdict) != "" {
		if v, err = model.ParseVerdict(verdict); err != nil {
			return nil, apperrors.InvalidInput("verdict must be shortlist, review or reject", err)
		}
	}

	var sess *model.AnalysisSession
	if sessionID == "" {
		sess, err = u.sessions.Latest(ctx)
	} else {
		sess, err = u.sessions.Get(ctx, sessionID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, apperrors.NotFound("no analysis data available", err)
		}
		return nil, storeError(err)
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, f, scoring.FilterByVerdict(sess.Candidates, v)); err != nil {
		return nil, apperrors.Internal("failed to export candidates", err)
	}
	return &File{
		Name:        export.FileName(v, f, u.now()),
		ContentType: f.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

func (u *SessionUsecase) Summary(ctx context.Context, email string) (*File, error) {
	c, err := u.sessions.FindCandidateByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err)
	}
	data, err := u.renderer.RenderSummary(*c)
	if err != nil {
		return nil, apperrors.Internal("failed to render summary", err)
	}
	return &File{
		Name:        service.SummaryFileName(*c),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

func (u *SessionUsecase) SendEmail(ctx context.Context, to, subject, body string) error {
	if u.mailer == nil {
		return apperrors.Unavailable(ErrEmailDisabled.Error(), ErrEmailDisabled)
	}
	if strings.TrimSpace(subject) == "" || strings.TrimSpace(body) == "" {
		return apperrors.InvalidInput("subject and body are required", nil)
	}
	if err := u.mailer.Send(ctx, to, subject, body); err != nil {
		return mailError(err)
	}
	return nil
}

// SendBulkEmail mails every listed candidate the template for verdict.
// Recipients are tried independently; failures are reported per address.
func (u *SessionUsecase) SendBulkEmail(ctx context.Context, in BulkEmailInput) (*BulkEmailResult, error) {
	if u.mailer == nil {
		return nil, apperrors.Unavailable(ErrEmailDisabled.Error(), ErrEmailDisabled)
	}
	if len(in.Emails) == 0 {
		return nil, apperrors.InvalidInput("candidate_emails is required", nil)
	}
	verdict, err := model.ParseVerdict(in.Verdict)
	if err != nil {
		return nil, apperrors.InvalidInput("verdict must be shortlist, review or reject", err)
	}

	res := &BulkEmailResult{Sent: []string{}}
	for _, email := range in.Emails {
		name := ""
		if c, err := u.sessions.FindCandidateByEmail(ctx, email); err == nil {
			name = c.Name
		}
		subject, body := renderTemplate(verdict, TemplateData{Name: name, Role: in.Role, CompanyName: in.CompanyName})
		if err := u.mailer.Send(ctx, email, subject, body); err != nil {
			u.log.Warn("bulk email failed", zap.String("to", email), zap.Error(err))
			if res.Failed == nil {
				res.Failed = map[string]string{}
			}
			res.Failed[email] = err.Error()
			continue
		}
		res.Sent = append(res.Sent, email)
	}

	if len(res.Sent) == 0 {
		return res, apperrors.Unavailable("email sending failed for every recipient", nil)
	}
	return res, nil
}

func storeError(err error) error {
	switch {
	case errors.Is(err, repository.ErrSessionNotFound):
		return apperrors.NotFound("session not found or expired", err)
	case errors.Is(err, repository.ErrCandidateNotFound):
		return apperrors.NotFound("candidate not found", err)
	case errors.Is(err, model.ErrInvalidVerdict):
		return apperrors.InvalidInput("verdict must be shortlist, review or reject", err)
	}
	return apperrors.Internal("session store failure", err)
}

func mailError(err error) error {
	if errors.Is(err, service.ErrInvalidRecipient) {
		return apperrors.InvalidInput("invalid email recipient", err)
	}
	return apperrors.Unavailable("email sending failed", err)
}
