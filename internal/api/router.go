package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type RouterConfig struct {
	Directory DirectoryService
	Slots     SlotQueryService
	Bookings  BookingService
	Exporter  SnapshotExporter
	PgPool    *pgxpool.Pool
	Redis     *redis.Client
	Env       string
	Version   string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Clinic endpoints
	r.Get("/patients/search", searchPatientHandler(cfg.Directory))
	r.Get("/doctors/{id}/slots", listSlotsHandler(cfg.Slots))
	r.Post("/bookings", bookAppointmentHandler(cfg.Bookings, cfg.Directory))
	r.Get("/bookings/{id}", getBookingHandler(cfg.Bookings))
	r.Post("/bookings/{id}/cancel", cancelBookingHandler(cfg.Bookings))
	r.Get("/export", exportSnapshotHandler(cfg.Exporter))

	return r
}
