package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fadilmartias/resume-screener/internal/model"
	"gorm.io/gorm"
)

const sessionOrder = "analysis_sessions.created_at ASC, analysis_sessions.id ASC"

type GormSessionStore struct {
	db          *gorm.DB
	maxSessions int
}

func NewGormSessionStore(db *gorm.DB, maxSessions int) *GormSessionStore {
	return &GormSessionStore{db: db, maxSessions: maxSessions}
}

func (r *GormSessionStore) Create(ctx context.Context, candidates []model.Candidate, createdAt time.Time) (string, error) {
	var id string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		id, err = sessionID(createdAt, func(id string) (bool, error) {
			var n int64
			err := tx.Model(&model.SessionRecord{}).Where("id = ?", id).Count(&n).Error
			return n > 0, err
		})
		if err != nil {
			return err
		}

		rec := model.SessionRecord{ID: id, CreatedAt: createdAt}
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		if len(candidates) > 0 {
			rows := make([]model.CandidateRecord, len(candidates))
			for i, c := range candidates {
				rows[i] = model.NewCandidateRecord(id, i, c)
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return r.evict(tx)
	})
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return id, nil
}

func (r *GormSessionStore) evict(tx *gorm.DB) error {
	if r.maxSessions <= 0 {
		return nil
	}
	var ids []string
	err := tx.Model(&model.SessionRecord{}).
		Order(sessionOrder).
		Pluck("id", &ids).Error
	if err != nil || len(ids) <= r.maxSessions {
		return err
	}
	stale := ids[:len(ids)-r.maxSessions]
	if err := tx.Where("session_id IN ?", stale).Delete(&model.CandidateRecord{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", stale).Delete(&model.SessionRecord{}).Error
}

func (r *GormSessionStore) Get(ctx context.Context, id string) (*model.AnalysisSession, error) {
	var rec model.SessionRecord
	err := r.withCandidates(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return toSession(rec), nil
}

func (r *GormSessionStore) List(ctx context.Context) ([]model.SessionSummary, error) {
	var rows []struct {
		ID              string
		CreatedAt       time.Time
		TotalCandidates int
	}
	err := r.db.WithContext(ctx).
		Model(&model.SessionRecord{}).
		Select("analysis_sessions.id, analysis_sessions.created_at, COUNT(analysis_candidates.id) AS total_candidates").
		Joins("LEFT JOIN analysis_candidates ON analysis_candidates.session_id = analysis_sessions.id").
		Group("analysis_sessions.id, analysis_sessions.created_at").
		Order(sessionOrder).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]model.SessionSummary, len(rows))
	for i, row := range rows {
		out[i] = model.SessionSummary{ID: row.ID, CreatedAt: row.CreatedAt, TotalCandidates: row.TotalCandidates}
	}
	return out, nil
}

func (r *GormSessionStore) Latest(ctx context.Context) (*model.AnalysisSession, error) {
	var rec model.SessionRecord
	err := r.withCandidates(ctx).
		Order("analysis_sessions.created_at DESC, analysis_sessions.id DESC").
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return toSession(rec), nil
}

func (r *GormSessionStore) FindCandidateByEmail(ctx context.Context, email string) (*model.Candidate, error) {
	rec, err := r.findRecord(r.db.WithContext(ctx), email)
	if err != nil {
		return nil, err
	}
	c := rec.Candidate()
	return &c, nil
}

func (r *GormSessionStore) UpdateCandidate(ctx context.Context, email string, notes *string, verdict *model.Verdict) (*model.Candidate, error) {
	if verdict != nil && !verdict.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidVerdict, *verdict)
	}

	var updated model.CandidateRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := r.findRecord(tx, email)
		if err != nil {
			return err
		}
		changes := map[string]any{}
		if notes != nil {
			changes["recruiter_notes"] = *notes
			rec.RecruiterNotes = *notes
		}
		if verdict != nil {
			changes["verdict"] = string(*verdict)
			rec.Verdict = string(*verdict)
		}
		updated = *rec
		if len(changes) == 0 {
			return nil
		}
		return tx.Model(&model.CandidateRecord{}).Where("id = ?", rec.ID).Updates(changes).Error
	})
	if err != nil {
		return nil, err
	}
	c := updated.Candidate()
	return &c, nil
}

func (r *GormSessionStore) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.CandidateRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&model.SessionRecord{}).Error
	})
}

func (r *GormSessionStore) withCandidates(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Candidates", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

func (r *GormSessionStore) findRecord(db *gorm.DB, email string) (*model.CandidateRecord, error) {
	var rec model.CandidateRecord
	err := db.
		Joins("JOIN analysis_sessions ON analysis_sessions.id = analysis_candidates.session_id").
		Where("LOWER(analysis_candidates.email) = ?", emailKey(email)).
		Order(sessionOrder).
		Order("analysis_candidates.position ASC").
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrCandidateNotFound, email)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func toSession(rec model.SessionRecord) *model.AnalysisSession {
	out := &model.AnalysisSession{
		ID:         rec.ID,
		CreatedAt:  rec.CreatedAt,
		Candidates: make([]model.Candidate, len(rec.Candidates)),
	}
	for i, c := range rec.Candidates {
		out.Candidates[i] = c.Candidate()
	}
	return out
}
