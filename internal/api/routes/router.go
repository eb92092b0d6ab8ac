package routes

import (
	"net/http"

	"github.com/carebridge/portal/backend/internal/api/handlers"
	"github.com/carebridge/portal/backend/internal/api/middleware"
	"github.com/carebridge/portal/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	authHandler          *handlers.AuthHandler
	userHandler          *handlers.UserHandler
	doctorHandler        *handlers.DoctorHandler
	appointmentHandler   *handlers.AppointmentHandler
	documentHandler      *handlers.DocumentHandler
	medicalRecordHandler *handlers.MedicalRecordHandler
	triageHandler        *handlers.TriageHandler
	sseHandler           *handlers.SSEHandler

	tokenParser     middleware.TokenParser
	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	doctorHandler *handlers.DoctorHandler,
	appointmentHandler *handlers.AppointmentHandler,
	documentHandler *handlers.DocumentHandler,
	medicalRecordHandler *handlers.MedicalRecordHandler,
	triageHandler *handlers.TriageHandler,
	sseHandler *handlers.SSEHandler,
	tokenParser middleware.TokenParser,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		authHandler:          authHandler,
		userHandler:          userHandler,
		doctorHandler:        doctorHandler,
		appointmentHandler:   appointmentHandler,
		documentHandler:      documentHandler,
		medicalRecordHandler: medicalRecordHandler,
		triageHandler:        triageHandler,
		sseHandler:           sseHandler,

		tokenParser:     tokenParser,
		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Auth endpoints (public)
	r.mux.HandleFunc("POST /api/auth/register", r.authHandler.Register)
	r.mux.HandleFunc("POST /api/auth/login", r.authHandler.Login)

	// Everything below requires a valid session token
	auth := middleware.AuthMiddleware(r.tokenParser)
	protect := func(pattern string, h http.HandlerFunc) {
		r.mux.Handle(pattern, auth(h))
	}

	// Doctor directory endpoints
	protect("GET /api/doctors", r.doctorHandler.ListDoctors)
	protect("GET /api/doctors/search", r.doctorHandler.SearchDoctors)
	protect("GET /api/doctors/{id}", r.doctorHandler.GetDoctor)
	protect("GET /api/doctors/{id}/slots", r.doctorHandler.GetSlots)

	// Appointment endpoints
	protect("GET /api/appointments", r.appointmentHandler.ListAppointments)
	protect("POST /api/appointments", r.appointmentHandler.CreateAppointment)
	protect("GET /api/appointments/events", r.sseHandler.StreamAppointmentUpdates)
	protect("GET /api/appointments/{id}", r.appointmentHandler.GetAppointment)
	protect("PATCH /api/appointments/{id}/status", r.appointmentHandler.UpdateStatus)
	protect("POST /api/appointments/{id}/cancel", r.appointmentHandler.CancelAppointment)
	protect("POST /api/appointments/{id}/negotiate", r.appointmentHandler.Negotiate)

	// Document endpoints
	protect("POST /api/documents/upload", r.documentHandler.Upload)
	protect("GET /api/documents", r.documentHandler.ListDocuments)
	protect("GET /api/documents/{id}", r.documentHandler.GetDocument)
	protect("GET /api/documents/{id}/download", r.documentHandler.DownloadDocument)
	protect("PATCH /api/documents/{id}", r.documentHandler.UpdateDocument)
	protect("DELETE /api/documents/{id}", r.documentHandler.DeleteDocument)

	// Medical record endpoints
	protect("GET /api/medical-records", r.medicalRecordHandler.ListRecords)
	protect("GET /api/medical-records/summary", r.medicalRecordHandler.GetSummary)
	protect("GET /api/medical-records/{key}", r.medicalRecordHandler.GetRecord)
	protect("PUT /api/medical-records/{key}", r.medicalRecordHandler.UpsertRecord)
	protect("DELETE /api/medical-records/{key}", r.medicalRecordHandler.DeleteRecord)

	// Profile endpoints
	protect("GET /api/users/me", r.userHandler.GetMe)
	protect("PATCH /api/users/me/medical-info", r.userHandler.UpdateMedicalInfo)
	protect("GET /api/users/me/onboarding", r.userHandler.GetOnboardingStatus)

	// Triage endpoints
	protect("POST /api/triage/match", r.triageHandler.Match)
	protect("GET /api/triage/questions", r.triageHandler.GetQuestions)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}
