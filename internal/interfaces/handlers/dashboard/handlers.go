package dashboard

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	dashsvc "nemostore-eda/internal/application/dashboard"
	"nemostore-eda/internal/application/export"
	"nemostore-eda/internal/application/loader"
	"nemostore-eda/internal/middleware"
	"nemostore-eda/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *dashsvc.Service
}

// GET /api/v1/dashboard/facets
func (h *Handlers) Facets(c *fiber.Ctx) error {
	src, err := parseSource(c)
	if err != nil {
		return badRequest(c, err)
	}
	facets, err := h.Service.Facets(c.UserContext(), src, c.Query("large"))
	return reply(c, "Facets retrieved", facets, src, err)
}

// GET /api/v1/dashboard/overview
func (h *Handlers) Overview(c *fiber.Ctx) error {
	src, err := parseSource(c)
	if err != nil {
		return badRequest(c, err)
	}
	o, err := h.Service.Overview(c.UserContext(), src)
	return reply(c, "Overview computed", o, src, err)
}

// GET /api/v1/dashboard/industry
func (h *Handlers) Industry(c *fiber.Ctx) error {
	src, err := parseSource(c)
	if err != nil {
		return badRequest(c, err)
	}
	crit, err := parseCriteria(c)
	if err != nil {
		return badRequest(c, err)
	}
	in, err := h.Service.Industry(c.UserContext(), src, crit)
	return reply(c, "Industry analysis computed", in, src, err)
}

// GET /api/v1/dashboard/summary?metric=&group_by=
func (h *Handlers) Summary(c *fiber.Ctx) error {
	src, err := parseSource(c)
	if err != nil {
		return badRequest(c, err)
	}
	crit, err := parseCriteria(c)
	if err != nil {
		return badRequest(c, err)
	}
	m, groupBy, err := parseSummary(c)
	if err != nil {
		return badRequest(c, err)
	}
	s, err := h.Service.Summary(c.UserContext(), src, crit, m, groupBy)
	return reply(c, "Summary computed", s, src, err)
}

// GET /api/v1/dashboard/search
func (h *Handlers) Search(c *fiber.Ctx) error {
	src, err := parseSource(c)
	if err != nil {
		return badRequest(c, err)
	}
	crit, err := parseCriteria(c)
	if err != nil {
		return badRequest(c, err)
	}
	res, err := h.Service.Search(c.UserContext(), src, crit)
	return reply(c, "Search completed", res, src, err)
}

// GET /api/v1/dashboard/search/export. A source failure is a 503 here since
// an empty workbook would look like a real result.
func (h *Handlers) Export(c *fiber.Ctx) error {
	src, err := parseSource(c)
	if err != nil {
		return badRequest(c, err)
	}
	crit, err := parseCriteria(c)
	if err != nil {
		return badRequest(c, err)
	}
	res, err := h.Service.Search(c.UserContext(), src, crit)
	if err != nil {
		if isSourceError(err) {
			return response.Error(c, err.Error(), fiber.StatusServiceUnavailable, nil)
		}
		return err
	}
	var buf bytes.Buffer
	if err := export.WriteSearch(&buf, res); err != nil {
		log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Msg("dashboard: export failed")
		return response.Error(c, "Failed to build workbook", fiber.StatusInternalServerError, nil)
	}
	name := fmt.Sprintf("nemostore-search-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(buf.Bytes())
}

// reply sends data in the success envelope. Source failures still answer 200
// with the empty report and metadata.warning.
func reply(c *fiber.Ctx, message string, data interface{}, src dashsvc.Source, err error) error {
	if err == nil {
		return response.Success(c, message, data, fiber.Map{"source": src.String()})
	}
	if isSourceError(err) {
		log.Warn().Err(err).Str("trace_id", middleware.GetTraceID(c)).Str("source", src.String()).Msg("dashboard: source failed, serving empty report")
		return response.Degraded(c, message, data, err.Error())
	}
	return err
}

func isSourceError(err error) bool {
	return errors.Is(err, loader.ErrSourceUnavailable) || errors.Is(err, loader.ErrSourceReadFailure)
}

func badRequest(c *fiber.Ctx, err error) error {
	details := fiber.Map{}
	var pe *paramError
	if errors.As(err, &pe) {
		details["param"] = pe.Param
	}
	return response.BadRequest(c, err.Error(), details)
}
