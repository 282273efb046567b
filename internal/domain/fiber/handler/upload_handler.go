package handler

import (
	"fmt"
	"io"

	"github.com/fadilmartias/resume-screener/internal/dto"
	apperrors "github.com/fadilmartias/resume-screener/internal/errors"
	"github.com/fadilmartias/resume-screener/internal/usecase"
	"github.com/fadilmartias/resume-screener/internal/util"
	"github.com/gofiber/fiber/v2"
)

type UploadHandler struct {
	uc *usecase.UploadUsecase
}

func NewUploadHandler(uc *usecase.UploadUsecase) *UploadHandler {
	return &UploadHandler{uc: uc}
}

func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	name, data, err := h.readFile(c, "file")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{}, err)
	}
	if name, err = h.uc.Stage(name, data); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: fmt.Sprintf("File %s uploaded successfully", name),
		Data:    fiber.Map{"filename": name, "size": len(data)},
	})
}

func (h *UploadHandler) UploadToBlob(c *fiber.Ctx) error {
	name, data, err := h.readFile(c, "file")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{}, err)
	}
	if name, err = h.uc.UploadToBlob(c.UserContext(), name, data); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: fmt.Sprintf("File %s uploaded to blob storage", name),
		Data:    fiber.Map{"filename": name, "size": len(data)},
	})
}

func (h *UploadHandler) ListStaged(c *fiber.Ctx) error {
	files := h.uc.StagedFiles()
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success list temporary files",
		Data:    dto.FileListResponse{Files: files, Count: len(files)},
	})
}

func (h *UploadHandler) ListBlobs(c *fiber.Ctx) error {
	files, err := h.uc.ListBlobs(c.UserContext())
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success list blob files",
		Data:    dto.FileListResponse{Files: files, Count: len(files)},
	})
}

func (h *UploadHandler) DeleteStaged(c *fiber.Ctx) error {
	name, err := pathParam(c, "filename")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{}, err)
	}
	if err := h.uc.DeleteStaged(name); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: fmt.Sprintf("File %s deleted from temporary storage", name),
	})
}

func (h *UploadHandler) DeleteBlob(c *fiber.Ctx) error {
	name, err := pathParam(c, "filename")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{}, err)
	}
	if err := h.uc.DeleteBlob(c.UserContext(), name); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: fmt.Sprintf("File %s deleted from blob storage", name),
	})
}

// ClearCache empties staged uploads; ?embeddings=true drops cached vectors too.
func (h *UploadHandler) ClearCache(c *fiber.Ctx) error {
	n, err := h.uc.ClearStaged(c.UserContext(), c.QueryBool("embeddings"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: fmt.Sprintf("Cleared %d files from cache", n),
		Data:    fiber.Map{"cleared": n},
	})
}

func (h *UploadHandler) readFile(c *fiber.Ctx, field string) (string, []byte, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", nil, apperrors.InvalidInput(fmt.Sprintf("%s file is required", field), err)
	}
	// reject oversized or unsupported files before reading them
	if _, err := h.uc.Validate(file.Filename, file.Size); err != nil {
		return "", nil, err
	}

	f, err := file.Open()
	if err != nil {
		return "", nil, apperrors.Internal(fmt.Sprintf("cannot read %s file", field), err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, apperrors.Internal(fmt.Sprintf("cannot read %s file", field), err)
	}
	return file.Filename, data, nil
}
