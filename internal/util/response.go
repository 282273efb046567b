package util

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/fadilmartias/resume-screener/internal/config"
	apperrors "github.com/fadilmartias/resume-screener/internal/errors"
	"github.com/fadilmartias/resume-screener/internal/response"
	"github.com/gofiber/fiber/v2"
)

type SuccessResponseFormat struct {
	Code       int
	Message    string
	Data       any
	Pagination *response.Pagination
	Meta       any
}

type OrderedSuccessResponse struct {
	Success    bool                 `json:"success"`
	Message    string               `json:"message"`
	Meta       any                  `json:"meta,omitempty"`
	Pagination *response.Pagination `json:"pagination,omitempty"`
	Data       any                  `json:"data,omitempty"`
}

type ErrorResponseFormat struct {
	Code       int
	Message    string
	DevMessage string
	Details    any
	Trace      string
}

type OrderedErrorResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	DevMessage string `json:"dev_message,omitempty"`
	Details    any    `json:"details,omitempty"`
	Trace      string `json:"trace,omitempty"`
}

// SuccessResponse sends the standard success envelope.
func SuccessResponse(c *fiber.Ctx, params SuccessResponseFormat) error {
	code := params.Code
	if code == 0 {
		code = fiber.StatusOK
	}
	return c.Status(code).JSON(OrderedSuccessResponse{
		Success:    true,
		Message:    params.Message,
		Data:       params.Data,
		Pagination: params.Pagination,
		Meta:       params.Meta,
	})
}

// ErrorResponse sends the standard error envelope. Without an explicit Code
// the status is derived from the domain error type of errs[0].
func ErrorResponse(c *fiber.Ctx, params ErrorResponseFormat, errs ...error) error {
	var cause error
	if len(errs) > 0 {
		cause = errs[0]
	}

	message := params.Message
	if message == "" {
		message = apperrors.MessageOf(cause)
	}

	resp := OrderedErrorResponse{
		Success: false,
		Message: message,
		Details: params.Details,
	}
	if !config.LoadAppConfig().IsProduction() {
		if cause != nil {
			resp.DevMessage = cause.Error()
			resp.Trace = traceOf(cause)
		}
		if params.DevMessage != "" {
			resp.DevMessage = params.DevMessage
		}
		if params.Trace != "" {
			resp.Trace = params.Trace
		}
	}

	code := params.Code
	if code == 0 {
		code = StatusFor(cause)
	}
	return c.Status(code).JSON(resp)
}

// StatusFor maps a domain error to its HTTP status.
func StatusFor(err error) int {
	if err == nil {
		return fiber.StatusInternalServerError
	}
	switch apperrors.TypeOf(err) {
	case apperrors.ErrTypeInvalidInput:
		return fiber.StatusBadRequest
	case apperrors.ErrTypeNotFound:
		return fiber.StatusNotFound
	case apperrors.ErrTypeConflict:
		return fiber.StatusConflict
	case apperrors.ErrTypeUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// AttachmentResponse streams data as a downloadable file.
func AttachmentResponse(c *fiber.Ctx, contentType, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return c.Status(fiber.StatusOK).Send(data)
}

func traceOf(err error) string {
	var de *apperrors.DomainError
	if errors.As(err, &de) && len(de.Stack) > 0 {
		return string(de.Stack)
	}
	return string(debug.Stack())
}
