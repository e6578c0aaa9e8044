package submissions

import (
	"time"

	"leadsite_backend/internal/events"
	apphttp "leadsite_backend/internal/http"
	"leadsite_backend/internal/submissions/domain"
	"leadsite_backend/platform/config"
	"leadsite_backend/platform/logger"
	"leadsite_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// pathTypes maps the short public endpoint segments onto registry types.
var pathTypes = []struct {
	path string
	typ  domain.Type
}{
	{"demo", domain.TypeDemo},
	{"consultation", domain.TypeConsultation},
	{"solara", domain.TypeSolaraInterest},
	{"ssa", domain.TypeSSAInterest},
	{"partner", domain.TypePartner},
	{"contact", domain.TypeContact},
}

// Module is the submissions bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// ModuleConfig combines the config interfaces the module needs.
type ModuleConfig interface {
	config.IngestConfig
	config.ThrottleConfig
}

// NewModule creates and initializes the submissions module with all its
// dependencies. A nil redis client disables duplicate throttling.
func NewModule(pool *pgxpool.Pool, redisClient *redis.Client, eventBus events.Bus, val *validator.Validator, cfg ModuleConfig, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	domainValidator := domain.NewValidator(val, time.Now)
	throttle := NewThrottle(redisClient, cfg.GetThrottleWindow(), log)
	svc := NewService(repo, domainValidator, throttle, eventBus, cfg, log)

	return &Module{
		handler: NewHandler(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "submissions" }

// Service exposes the ingestion service for cross-module wiring.
func (m *Module) Service() *Service { return m.service }

// RegisterRoutes mounts the intake and admin endpoints.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Public.Group("/submissions")
	group.POST("", m.handler.HandleSubmitGeneric)
	for _, route := range pathTypes {
		group.POST("/"+route.path, m.handler.HandleSubmit(route.typ))
	}

	ctx.Admin.GET("/submissions", m.handler.HandleList)
}
