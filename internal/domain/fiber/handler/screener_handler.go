package handler

import (
	"fmt"
	"net/url"
	"time"

	"github.com/fadilmartias/resume-screener/internal/dto"
	apperrors "github.com/fadilmartias/resume-screener/internal/errors"
	"github.com/fadilmartias/resume-screener/internal/middleware"
	"github.com/fadilmartias/resume-screener/internal/usecase"
	"github.com/fadilmartias/resume-screener/internal/util"
	"github.com/gofiber/fiber/v2"
)

const routePrefix = "/api/screener"

type ScreenerHandler struct {
	screening *usecase.ScreeningUsecase
	uploads   *UploadHandler
	sessions  *SessionHandler
}

func NewScreenerHandler(screening *usecase.ScreeningUsecase, uploads *UploadHandler, sessions *SessionHandler) *ScreenerHandler {
	return &ScreenerHandler{screening: screening, uploads: uploads, sessions: sessions}
}

func (h *ScreenerHandler) RegisterRoutes(app *fiber.App) {
	r := app.Group(routePrefix)

	r.Post("/analyze", middleware.RateLimiter(5, 1*time.Minute), h.Analyze)

	r.Post("/upload", h.uploads.Upload)
	r.Post("/upload-to-blob", h.uploads.UploadToBlob)
	r.Get("/list-temp-files", h.uploads.ListStaged)
	r.Get("/list-blob-files", h.uploads.ListBlobs)
	r.Delete("/delete-temp/:filename", h.uploads.DeleteStaged)
	r.Delete("/delete-blob/:filename", h.uploads.DeleteBlob)
	r.Delete("/clear-cache", h.uploads.ClearCache)

	r.Get("/results/:session_id", h.sessions.Result)
	r.Get("/sessions/list", h.sessions.List)
	r.Delete("/sessions", h.sessions.Clear)
	r.Patch("/candidate/update", h.sessions.UpdateCandidate)
	r.Get("/export/csv", h.sessions.Export)
	r.Get("/summary/:email", h.sessions.Summary)
	r.Post("/email/send", h.sessions.SendEmail)
	r.Post("/email/bulk", h.sessions.SendBulkEmail)
}

func (h *ScreenerHandler) Analyze(c *fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "invalid request body",
		}, apperrors.InvalidInput("invalid request body", err))
	}
	if req.JobConfig == nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{}, apperrors.InvalidInput("job_config is required", nil))
	}

	res, err := h.screening.Analyze(c.UserContext(), usecase.AnalyzeInput{
		JobConfig:    req.JobConfig.JobConfiguration,
		LoadFromBlob: req.LoadFromBlob,
	})
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success analyze resumes",
		Data:    dto.NewAnalyzeResponse(res.SessionID, res.Role, res.Candidates, res.Stats),
	})
}

// pathParam returns the route parameter key with percent-escapes decoded.
func pathParam(c *fiber.Ctx, key string) (string, error) {
	v, err := url.PathUnescape(c.Params(key))
	if err != nil {
		return "", apperrors.InvalidInput(fmt.Sprintf("invalid %s", key), err)
	}
	return v, nil
}
