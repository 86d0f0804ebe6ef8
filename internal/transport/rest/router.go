package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/GauravB09/Diligence-Squared-Assignment/internal/repository"
	"github.com/GauravB09/Diligence-Squared-Assignment/internal/service"
	"github.com/GauravB09/Diligence-Squared-Assignment/internal/transport/rest/handler"
	"github.com/GauravB09/Diligence-Squared-Assignment/internal/transport/rest/middleware"
	"github.com/GauravB09/Diligence-Squared-Assignment/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	WebhookService   *service.WebhookService
	InterviewService *service.InterviewService
	Sessions         repository.SessionRepo
	WSHub            *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	webhookHandler := handler.NewWebhookHandler(c.WebhookService)
	interviewHandler := handler.NewInterviewHandler(c.InterviewService)
	sessionHandler := handler.NewSessionHandler(c.Sessions)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// Typeform webhook
	r.HandleFunc("/webhook", webhookHandler.Receive).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Interview routes (public, keyed by user id)
	api := r.PathPrefix("/api/interview").Subrouter()
	api.HandleFunc("/start", interviewHandler.Start).Methods("POST", "OPTIONS")
	api.HandleFunc("/session/{userID}", interviewHandler.GetSession).Methods("GET", "OPTIONS")
	api.HandleFunc("/complete/{userID}", interviewHandler.Complete).Methods("POST", "OPTIONS")
	api.HandleFunc("/update-id", interviewHandler.UpdateConversationID).Methods("POST", "OPTIONS")
	api.HandleFunc("/check-completion/{userID}", interviewHandler.CheckCompletion).Methods("GET", "OPTIONS")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket routes (monitor authenticates with token in query param)
	v1.HandleFunc("/ws/sessions", wsHandler.MonitorWS).Methods("GET")
	v1.HandleFunc("/ws/sessions/{userID}", wsHandler.UserWS).Methods("GET")

	// Admin routes (require admin auth)
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/sessions", sessionHandler.List).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
		if allowedOrigins != "*" {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
