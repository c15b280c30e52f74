package sources

import (
	"errors"

	"nemostore-eda/internal/application/loader"
	"nemostore-eda/internal/middleware"
	"nemostore-eda/internal/pkg/response"
	"nemostore-eda/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers accepts CSV snapshots and hands back a key the dashboard routes
// take as ?source=.
type Handlers struct {
	Loader   *loader.Loader
	MaxBytes int64
}

type uploadResult struct {
	SourceKey string   `json:"source_key"`
	Rows      int      `json:"rows"`
	Columns   []string `json:"columns"`
}

// UploadCSV POST /api/v1/sources/csv (multipart field "file")
func (h *Handlers) UploadCSV(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "file is required", fiber.Map{"param": "file"})
	}
	if !validation.IsCSVFileName(fh.Filename) {
		return response.BadRequest(c, "file must be a .csv", fiber.Map{"param": "file"})
	}
	if h.MaxBytes > 0 && fh.Size > h.MaxBytes {
		return response.Error(c, "file is too large", fiber.StatusRequestEntityTooLarge, fiber.Map{"maxBytes": h.MaxBytes})
	}

	f, err := fh.Open()
	if err != nil {
		log.Error().Err(err).Str("file", fh.Filename).Msg("sources: open upload")
		return response.Error(c, "Failed to read upload", fiber.StatusInternalServerError, nil)
	}
	defer f.Close()

	raw, key, err := h.Loader.LoadCSV(c.UserContext(), fh.Filename, f)
	if err != nil {
		log.Warn().Err(err).Str("trace_id", middleware.GetTraceID(c)).Str("file", fh.Filename).Msg("sources: csv rejected")
		status := fiber.StatusUnprocessableEntity
		if errors.Is(err, loader.ErrSourceUnavailable) {
			status = fiber.StatusBadRequest
		}
		return response.Error(c, err.Error(), status, nil)
	}
	return response.SuccessCreated(c, "CSV loaded", uploadResult{
		SourceKey: key,
		Rows:      raw.Len(),
		Columns:   raw.Columns,
	}, nil)
}
