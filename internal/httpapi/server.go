// Package httpapi serves run telemetry and prior transforms over HTTP.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nestkit/internal/prior"
	"nestkit/pkg/types"
)

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(requestLogger)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			MaxAge:         300,
		}))
	}
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Status())
	})

	r.Get("/priors", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.PriorsResponse{Priors: svc.ListPriors()})
	})

	r.Post("/priors/{name}/transform", func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			IncrementTransformError("content_type")
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.TransformRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			IncrementTransformError("body")
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if len(req.U) == 0 {
			IncrementTransformError("validation")
			writeJSONError(w, http.StatusBadRequest, "u is required")
			return
		}
		u := prior.Vector(req.U)
		if req.Shape != nil {
			var err error
			if u, err = prior.NewArray(req.U, req.Shape...); err != nil {
				IncrementTransformError("validation")
				writeJSONError(w, http.StatusBadRequest, err.Error())
				return
			}
		}

		name := chi.URLParam(r, "name")
		out, err := svc.Transform(name, u)
		if err != nil {
			status := statusFor(err)
			IncrementTransformError(strconv.Itoa(status))
			writeJSONError(w, status, err.Error())
			return
		}
		shape := out.Shape
		if shape == nil {
			shape = []int{}
		}
		writeJSON(w, types.TransformResponse{Name: name, X: out.Data, Shape: shape})
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}
