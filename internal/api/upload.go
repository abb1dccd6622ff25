package api

import (
	"errors"
	"fmt"

	"fjacquet/txncat/internal/logging"
	"fjacquet/txncat/internal/parsererror"

	"github.com/gofiber/fiber/v2"
)

// FormField is the multipart field carrying the statement.
const FormField = "file"

type handler struct {
	processor StatementProcessor
	maxBytes  int64
	logger    logging.Logger
}

func (h *handler) upload(c *fiber.Ctx) error {
	fh, err := c.FormFile(FormField)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("missing form field %q", FormField))
	}
	if fh.Size > h.maxBytes {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds the %d byte limit", h.maxBytes))
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("error opening upload: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			h.logger.WithError(err).Warn("Failed to close upload",
				logging.F(logging.FieldFile, fh.Filename))
		}
	}()

	result, err := h.processor.ProcessReader(fh.Filename, f)
	if err != nil {
		return uploadError(err)
	}

	h.logger.Debug("Parsed upload",
		logging.F(logging.FieldRequestID, requestID(c)),
		logging.F(logging.FieldFile, fh.Filename),
		logging.F(logging.FieldCount, result.Count))
	return c.JSON(result)
}

// uploadError maps processing failures to client errors where the input is
// at fault.
func uploadError(err error) error {
	var formatErr *parsererror.InvalidFormatError
	if errors.As(err, &formatErr) {
		return fiber.NewError(fiber.StatusBadRequest, formatErr.Msg)
	}

	var extractErr *parsererror.ExtractionError
	if errors.As(err, &extractErr) {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("could not read PDF: %v", extractErr.Err))
	}

	return err
}
