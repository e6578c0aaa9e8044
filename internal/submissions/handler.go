package submissions

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"leadsite_backend/internal/submissions/domain"
	"leadsite_backend/platform/apperr"
	"leadsite_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// utmParams are the campaign query parameters captured into the submission
// context when present.
var utmParams = []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content"}

// Handler handles submission HTTP requests.
type Handler struct {
	service *Service
}

// NewHandler creates a new submissions handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SubmissionResponse is returned on successful intake. ID and CreatedAt are
// exactly the values the store assigned.
type SubmissionResponse struct {
	Success   bool      `json:"success"`
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// HandleSubmit processes a payload for a fixed submission type.
// POST /api/v1/submissions/{demo,consultation,solara,ssa,partner,contact}
func (h *Handler) HandleSubmit(typ domain.Type) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.ingest(c, string(typ))
	}
}

// HandleSubmitGeneric processes a payload carrying its own type
// discriminator. Payloads without one are treated as the site-wide modal form.
// POST /api/v1/submissions
func (h *Handler) HandleSubmitGeneric(c *gin.Context) {
	payload, ok := h.parsePayload(c)
	if !ok {
		return
	}

	rawType := string(domain.TypeGenericModal)
	if v, present := payload["type"]; present {
		s, isStr := v.(string)
		if !isStr {
			httpkit.HandleError(c, apperr.BadRequest("type must be a string").WithCode(CodeUnknownType))
			return
		}
		rawType = s
	}

	h.submit(c, rawType, payload)
}

func (h *Handler) ingest(c *gin.Context, rawType string) {
	payload, ok := h.parsePayload(c)
	if !ok {
		return
	}
	h.submit(c, rawType, payload)
}

func (h *Handler) submit(c *gin.Context, rawType string, payload map[string]any) {
	sub, err := h.service.Ingest(c.Request.Context(), rawType, payload, buildContext(c))
	if httpkit.HandleError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, SubmissionResponse{
		Success:   true,
		ID:        sub.ID,
		CreatedAt: sub.CreatedAt,
	})
}

func (h *Handler) parsePayload(c *gin.Context) (map[string]any, bool) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return nil, false
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return payload, true
}

// buildContext captures request metadata server-side. Client-supplied
// headers only inform analytics fields, never identity.
func buildContext(c *gin.Context) domain.Context {
	ctx := domain.Context{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
	}
	for _, param := range utmParams {
		if v := c.Query(param); v != "" {
			if ctx.UTM == nil {
				ctx.UTM = make(map[string]string)
			}
			ctx.UTM[param] = v
		}
	}
	return ctx
}

// ---- Admin (API-key authenticated) ----

// ListResponse wraps the admin submission listing.
type ListResponse struct {
	Submissions []domain.Submission `json:"submissions"`
	Limit       int                 `json:"limit"`
	Offset      int                 `json:"offset"`
}

// HandleList returns persisted submissions, newest first.
// GET /api/v1/admin/submissions?type=&priority=&limit=&offset=
func (h *Handler) HandleList(c *gin.Context) {
	filter := ListFilter{
		Limit:  parseIntQuery(c, "limit", 50),
		Offset: parseIntQuery(c, "offset", 0),
	}

	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		t, ok := domain.ParseType(raw)
		if !ok {
			httpkit.Error(c, http.StatusBadRequest, "unknown type filter", nil)
			return
		}
		filter.Type = string(t)
	}
	if raw := strings.TrimSpace(c.Query("priority")); raw != "" {
		filter.Priority = strings.ToLower(raw)
	}

	subs, err := h.service.List(c.Request.Context(), filter)
	if httpkit.HandleError(c, err) {
		return
	}
	if subs == nil {
		subs = []domain.Submission{}
	}

	httpkit.OK(c, ListResponse{Submissions: subs, Limit: filter.Limit, Offset: filter.Offset})
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
