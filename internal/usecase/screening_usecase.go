package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fadilmartias/resume-screener/internal/batch"
	apperrors "github.com/fadilmartias/resume-screener/internal/errors"
	"github.com/fadilmartias/resume-screener/internal/logger"
	"github.com/fadilmartias/resume-screener/internal/model"
	"github.com/fadilmartias/resume-screener/internal/repository"
	"github.com/fadilmartias/resume-screener/internal/scoring"
	"github.com/fadilmartias/resume-screener/internal/service"
	"github.com/fadilmartias/resume-screener/internal/util"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

var (
	ErrNoResumes            = errors.New("no resumes uploaded")
	ErrNoBlobResumes        = errors.New("no resumes found in blob storage")
	ErrNoProcessableResumes = errors.New("no resumes could be processed")
	ErrAllAnalysesFailed    = errors.New("all resume analyses failed")
)

// Embedder returns the embedding vector of a text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// StagingArea holds resumes uploaded ahead of an analysis run.
type StagingArea interface {
	Snapshot() []model.ResumeRecord
	Remove(names []string)
}

type ScreeningDeps struct {
	Sessions  repository.SessionStore
	Uploads   StagingArea
	Blobs     service.BlobStorage // nil disables load_from_blob
	Embedder  Embedder
	Evaluator service.ResumeEvaluator
	Roles     service.RoleExtractor // nil leaves an empty role as "N/A"
	Events    service.EventPublisher
	Logger    *zap.Logger
	// Concurrency bounds in-flight extraction, embedding and evaluator calls.
	Concurrency int
}

type AnalyzeInput struct {
	JobConfig    model.JobConfiguration
	LoadFromBlob bool
}

type AnalysisResult struct {
	SessionID  string
	Role       string
	Candidates []model.Candidate
	Stats      model.AnalysisStats
}

// ScreeningUsecase runs one analysis at a time: preprocess every resume,
// evaluate the survivors, classify, apply the top-N override and persist the
// session.
type ScreeningUsecase struct {
	sessions    repository.SessionStore
	uploads     StagingArea
	blobs       service.BlobStorage
	embedder    Embedder
	evaluator   service.ResumeEvaluator
	roles       service.RoleExtractor
	events      service.EventPublisher
	log         *zap.Logger
	concurrency int
	runLock     *semaphore.Weighted

	extract func(data []byte, filename string) (string, error)
	now     func() time.Time
}

func NewScreeningUsecase(d ScreeningDeps) *ScreeningUsecase {
	if d.Events == nil {
		d.Events = service.NopPublisher{}
	}
	if d.Concurrency <= 0 {
		d.Concurrency = batch.DefaultLimit
	}
	return &ScreeningUsecase{
		sessions:    d.Sessions,
		uploads:     d.Uploads,
		blobs:       d.Blobs,
		embedder:    d.Embedder,
		evaluator:   d.Evaluator,
		roles:       d.Roles,
		events:      d.Events,
		log:         logger.OrNop(d.Logger),
		concurrency: d.Concurrency,
		runLock:     semaphore.NewWeighted(1),
		extract:     util.ExtractText,
		now:         time.Now,
	}
}

type preparedResume struct {
	fileName     string
	text         string
	contact      model.Contact
	jdSimilarity float64
}

func (u *ScreeningUsecase) Analyze(ctx context.Context, in AnalyzeInput) (*AnalysisResult, error) {
	cfg := in.JobConfig
	if err := cfg.Validate(); err != nil {
		return nil, apperrors.InvalidInput(err.Error(), err)
	}

	if err := u.runLock.Acquire(ctx, 1); err != nil {
		return nil, apperrors.Unavailable("gave up waiting for the running analysis", err)
	}
	defer u.runLock.Release(1)

	start := u.now()

	resumes, err := u.loadResumes(ctx, in.LoadFromBlob)
	if err != nil {
		return nil, err
	}
	u.log.Info("analysis started", zap.Int("resumes", len(resumes)), zap.Bool("from_blob", in.LoadFromBlob))

	if cfg.Role == "" {
		cfg.Role = u.extractRole(ctx, cfg.JD)
	}

	jdVec, err := u.embedder.Embed(ctx, cfg.JD)
	if err != nil {
		return nil, apperrors.Unavailable("failed to embed job description", err)
	}

	prepared := u.preprocess(ctx, resumes, jdVec)
	if len(prepared) == 0 {
		return nil, apperrors.Internal(ErrNoProcessableResumes.Error(), ErrNoProcessableResumes)
	}

	records := u.evaluate(ctx, cfg, prepared)
	if len(records) == 0 {
		return nil, apperrors.Internal(ErrAllAnalysesFailed.Error(), ErrAllAnalysesFailed)
	}

	candidates := scoring.ClassifyAll(records, cfg.Thresholds())
	candidates = scoring.ApplyTopN(candidates, cfg.TopN)
	tally := scoring.CountVerdicts(candidates)

	elapsed := u.now().Sub(start).Seconds()
	stats := model.AnalysisStats{
		Shortlisted:       tally.Shortlisted,
		UnderReview:       tally.UnderReview,
		Rejected:          tally.Rejected,
		ProcessingTime:    scoring.Round(elapsed, 2),
		AvgTimePerResume:  scoring.Round(elapsed/float64(len(candidates)), 2),
		TotalProcessed:    len(candidates),
		SkippedResumes:    len(resumes) - len(prepared),
		FailedEvaluations: len(prepared) - len(records),
	}

	createdAt := u.now()
	sessionID, err := u.sessions.Create(ctx, candidates, createdAt)
	if err != nil {
		return nil, apperrors.Internal("failed to store analysis session", err)
	}

	log := u.log.With(zap.String("session_id", sessionID))
	log.Info("analysis finished",
		zap.Int("candidates", len(candidates)),
		zap.Int("shortlisted", tally.Shortlisted),
		zap.Int("under_review", tally.UnderReview),
		zap.Int("rejected", tally.Rejected),
		zap.Int("skipped", stats.SkippedResumes),
		zap.Int("failed", stats.FailedEvaluations),
		zap.Float64("seconds", stats.ProcessingTime))

	event := model.AnalysisCompletedEvent{
		EventID:     uuid.NewString(),
		SessionID:   sessionID,
		Role:        cfg.Role,
		Total:       len(candidates),
		Shortlisted: tally.Shortlisted,
		UnderReview: tally.UnderReview,
		Rejected:    tally.Rejected,
		OccurredAt:  createdAt,
	}
	if err := u.events.PublishAnalysisCompleted(ctx, event); err != nil {
		log.Warn("failed to publish analysis event", zap.Error(err))
	}

	if !in.LoadFromBlob {
		names := make([]string, len(resumes))
		for i, r := range resumes {
			names[i] = r.FileName
		}
		u.uploads.Remove(names)
		log.Info("cleared staged uploads", zap.Int("files", len(names)))
	}

	return &AnalysisResult{
		SessionID:  sessionID,
		Role:       cfg.Role,
		Candidates: candidates,
		Stats:      stats,
	}, nil
}

func (u *ScreeningUsecase) loadResumes(ctx context.Context, fromBlob bool) ([]model.ResumeRecord, error) {
	if !fromBlob {
		resumes := u.uploads.Snapshot()
		if len(resumes) == 0 {
			return nil, apperrors.InvalidInput("no resumes uploaded, upload resumes first", ErrNoResumes)
		}
		return resumes, nil
	}

	if u.blobs == nil {
		return nil, apperrors.Unavailable("blob storage is not configured", service.ErrBlobStorageMissing)
	}
	names, err := u.blobs.List(ctx)
	if err != nil {
		return nil, apperrors.Unavailable("failed to list blob storage", err)
	}

	var tasks []batch.Task[model.ResumeRecord]
	for _, name := range names {
		if !util.IsSupported(name) {
			continue
		}
		tasks = append(tasks, func(ctx context.Context) (model.ResumeRecord, error) {
			data, err := u.blobs.Download(ctx, name)
			if err != nil {
				return model.ResumeRecord{}, err
			}
			return model.ResumeRecord{FileName: name, Content: data}, nil
		})
	}

	resumes, errs := batch.Partition(batch.Run(ctx, u.concurrency, tasks))
	for _, err := range errs {
		u.log.Warn("skipping blob", zap.Error(err))
	}
	if len(resumes) == 0 {
		return nil, apperrors.NotFound(ErrNoBlobResumes.Error(), ErrNoBlobResumes)
	}
	return resumes, nil
}

func (u *ScreeningUsecase) extractRole(ctx context.Context, jd string) string {
	if u.roles == nil {
		return "N/A"
	}
	role, err := u.roles.ExtractRole(ctx, jd)
	if err != nil {
		u.log.Warn("role extraction failed", zap.Error(err))
		return "N/A"
	}
	return role
}

// preprocess extracts, parses and embeds every resume. A resume failing any
// step is skipped.
func (u *ScreeningUsecase) preprocess(ctx context.Context, resumes []model.ResumeRecord, jdVec []float32) []preparedResume {
	tasks := make([]batch.Task[preparedResume], len(resumes))
	for i, r := range resumes {
		tasks[i] = func(ctx context.Context) (preparedResume, error) {
			text, err := u.extract(r.Content, r.FileName)
			if err != nil {
				return preparedResume{}, fmt.Errorf("extract text: %w", err)
			}
			contact, err := util.ExtractContact(text)
			if err != nil {
				return preparedResume{}, fmt.Errorf("parse contact: %w", err)
			}
			vec, err := u.embedder.Embed(ctx, util.EmbeddingInput(text))
			if err != nil {
				return preparedResume{}, fmt.Errorf("embed resume: %w", err)
			}
			sim, err := scoring.CosineSimilarity(vec, jdVec)
			if err != nil {
				return preparedResume{}, err
			}
			return preparedResume{
				fileName:     r.FileName,
				text:         text,
				contact:      contact,
				jdSimilarity: scoring.SimilarityPercent(sim),
			}, nil
		}
	}

	results := batch.Run(ctx, u.concurrency, tasks)
	prepared := make([]preparedResume, 0, len(results))
	for i, res := range results {
		if res.Err != nil {
			u.log.Error("skipping resume", zap.String("file", resumes[i].FileName), zap.Error(res.Err))
			continue
		}
		prepared = append(prepared, res.Value)
	}
	return prepared
}

// evaluate calls the evaluator once per prepared resume and drops failures
// and malformed records.
func (u *ScreeningUsecase) evaluate(ctx context.Context, cfg model.JobConfiguration, prepared []preparedResume) []model.ScoreRecord {
	tasks := make([]batch.Task[model.ScoreRecord], len(prepared))
	for i, p := range prepared {
		tasks[i] = func(ctx context.Context) (model.ScoreRecord, error) {
			rec, err := u.evaluator.Evaluate(ctx, service.EvaluationRequest{
				JobDescription:  cfg.JD,
				ResumeText:      p.text,
				Contact:         p.contact,
				Role:            cfg.Role,
				Domain:          cfg.Domain,
				Skills:          cfg.Skills,
				ExperienceRange: cfg.ExperienceRange,
				JDSimilarity:    p.jdSimilarity,
				SourceName:      p.fileName,
			})
			if err != nil {
				return model.ScoreRecord{}, err
			}
			if err := rec.Validate(); err != nil {
				return model.ScoreRecord{}, err
			}
			return rec, nil
		}
	}

	results := batch.Run(ctx, u.concurrency, tasks)
	records := make([]model.ScoreRecord, 0, len(results))
	for i, res := range results {
		if res.Err != nil {
			u.log.Error("evaluation failed", zap.String("file", prepared[i].fileName), zap.Error(res.Err))
			continue
		}
		records = append(records, res.Value)
	}
	return records
}
