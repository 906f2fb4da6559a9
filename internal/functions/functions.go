// Package functions exposes the side-effect endpoints (account creation,
// transactional emails, bucket provisioning) with their own small JSON shape:
// {"success": true, ...} on success and {"error": "..."} otherwise.
package functions

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/gorm"

	"pareto_backend/internal/config"
	"pareto_backend/internal/logger"
	"pareto_backend/internal/services"
	"pareto_backend/pkg/apperrors"
)

// Prefix is where the functions live, both standalone and inside the main API
const Prefix = "/functions/v1"

const maxBodyBytes = 1 << 20

type access int

const (
	accessAnon access = iota
	accessService
)

type Handler struct {
	db         *gorm.DB
	services   *services.ServiceContainer
	anonKey    string
	serviceKey string
}

func NewHandler(db *gorm.DB, svc *services.ServiceContainer, cfg *config.Config) *Handler {
	return &Handler{
		db:         db,
		services:   svc,
		anonKey:    cfg.Functions.AnonKey,
		serviceKey: cfg.Functions.ServiceKey,
	}
}

// NewRouter builds the chi router serving every function under Prefix.
func NewRouter(h *Handler, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"apikey",
			"x-client-info",
		},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route(Prefix, func(r chi.Router) {
		// bare OPTIONS without preflight headers still gets an empty 200
		r.Options("/*", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		r.With(h.requireKey(accessService)).Post("/create-approved-user", h.CreateApprovedUser)
		r.With(h.requireKey(accessService)).Post("/create-bucket", h.CreateBucket)

		r.Group(func(r chi.Router) {
			r.Use(h.requireKey(accessAnon))
			r.Post("/get-user-by-email", h.GetUserByEmail)
			r.Post("/send-acceptance-email", h.SendAcceptanceEmail)
			r.Post("/send-confirmation-email", h.SendConfirmationEmail)
			r.Post("/send-magic-link", h.SendMagicLink)
			r.Post("/send-application-email", h.SendApplicationEmail)
		})
	})
	return r
}

// requireKey checks the bearer key. Service endpoints need the service key;
// anon endpoints accept either. An unset key leaves its level open.
func (h *Handler) requireKey(level access) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearer(r)
			ok := false
			switch level {
			case accessService:
				ok = h.serviceKey == "" || keyEqual(token, h.serviceKey)
			case accessAnon:
				ok = h.anonKey == "" ||
					keyEqual(token, h.anonKey) ||
					(h.serviceKey != "" && keyEqual(token, h.serviceKey))
			}
			if !ok {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, found := strings.CutPrefix(header, "Bearer "); found {
		return strings.TrimSpace(token)
	}
	return strings.TrimSpace(r.Header.Get("apikey"))
}

func keyEqual(got, want string) bool {
	return got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func (h *Handler) dbFor(r *http.Request) *gorm.DB {
	return h.db.WithContext(r.Context())
}

// decode reads the JSON body into dst. An empty body is a 400.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		msg := "Invalid JSON body"
		if errors.Is(err, io.EOF) {
			msg = "Request body is required"
		}
		writeError(w, http.StatusBadRequest, msg)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, fields map[string]interface{}) {
	payload := map[string]interface{}{"success": true}
	for k, v := range fields {
		payload[k] = v
	}
	writeJSON(w, http.StatusOK, payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{"error": msg})
}

// writeServiceError maps an AppError to its status. Anything else is a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, fn string, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		status := appErr.HTTPCode
		if status == 0 {
			status = http.StatusInternalServerError
		}
		if status >= http.StatusInternalServerError {
			logger.CtxWithError(r.Context(), "Function failed", err, "function", fn)
		} else {
			logger.CtxWarn(r.Context(), "Function rejected request", "function", fn, "error", appErr.Message)
		}
		writeError(w, status, appErr.Message)
		return
	}
	logger.CtxWithError(r.Context(), "Function failed", err, "function", fn)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func missing(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

func since(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
