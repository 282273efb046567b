package handler

import (
	"fmt"

	"github.com/fadilmartias/resume-screener/internal/dto"
	apperrors "github.com/fadilmartias/resume-screener/internal/errors"
	"github.com/fadilmartias/resume-screener/internal/usecase"
	"github.com/fadilmartias/resume-screener/internal/util"
	"github.com/gofiber/fiber/v2"
)

type SessionHandler struct {
	uc *usecase.SessionUsecase
}

func NewSessionHandler(uc *usecase.SessionUsecase) *SessionHandler {
	return &SessionHandler{uc: uc}
}

func (h *SessionHandler) Result(c *fiber.Ctx) error {
	id, err := pathParam(c, "session_id")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{}, err)
	}
	sess, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get analysis result",
		Data:    dto.NewSessionResponse(sess),
	})
}

func (h *SessionHandler) List(c *fiber.Ctx) error {
	sessions, pagination, err := h.uc.List(c.UserContext(), c.QueryInt("page", 1), c.QueryInt("page_size", 0))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success list sessions",
		Data:       sessions,
		Pagination: pagination,
	})
}

func (h *SessionHandler) Clear(c *fiber.Ctx) error {
	if err := h.uc.Clear(c.UserContext()); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "All sessions cleared",
	})
}

func (h *SessionHandler) UpdateCandidate(c *fiber.Ctx) error {
	var req dto.UpdateCandidateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{}, apperrors.InvalidInput("invalid request body", err))
	}

	candidate, err := h.uc.UpdateCandidate(c.UserContext(), usecase.UpdateCandidateInput{
		Email:          req.CandidateID,
		RecruiterNotes: req.RecruiterNotes,
		Verdict:        req.Verdict,
	})
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Candidate updated successfully",
		Data:    candidate,
	})
}

func (h *SessionHandler) Export(c *fiber.Ctx) error {
	file, err := h.uc.Export(c.UserContext(), c.Query("session_id"), c.Query("verdict"), c.Query("format"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{}, err)
	}
	return util.AttachmentResponse(c, file.ContentType, file.Name, file.Data)
}

func (h *SessionHandler) Summary(c *fiber.Ctx) error {
	email, err := pathParam(c, "email")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{}, err)
	}
	file, err := h.uc.Summary(c.UserContext(), email)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{}, err)
	}
	return util.AttachmentResponse(c, file.ContentType, file.Name, file.Data)
}

func (h *SessionHandler) SendEmail(c *fiber.Ctx) error {
	var req dto.EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{}, apperrors.InvalidInput("invalid request body", err))
	}
	if err := h.uc.SendEmail(c.UserContext(), req.Email, req.Subject, req.Body); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: fmt.Sprintf("Email sent to %s", req.Email),
	})
}

func (h *SessionHandler) SendBulkEmail(c *fiber.Ctx) error {
	var req dto.BulkEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{}, apperrors.InvalidInput("invalid request body", err))
	}

	res, err := h.uc.SendBulkEmail(c.UserContext(), usecase.BulkEmailInput{
		Emails:      req.CandidateEmails,
		Verdict:     req.Verdict,
		Role:        req.Role,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		params := util.ErrorResponseFormat{}
		if res != nil {
			params.Details = res
		}
		return util.ErrorResponse(c, params, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: fmt.Sprintf("Sent %d of %d emails", len(res.Sent), len(req.CandidateEmails)),
		Data:    res,
	})
}
