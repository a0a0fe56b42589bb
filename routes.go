package main

import (
	"net/http"
	"time"

	api "Lenscalc/internal/api"
	auth "Lenscalc/internal/auth"
	batch "Lenscalc/internal/calc/batch"
	report "Lenscalc/internal/calc/report"
	sheet "Lenscalc/internal/calc/sheet"
	spatial "Lenscalc/internal/calc/spatial"
	config "Lenscalc/internal/config"
	presets "Lenscalc/internal/presets"
	repo "Lenscalc/internal/repo"
	storage "Lenscalc/internal/storage"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const version = "1.0.0"

// Services holds the optional backends. Nil fields switch the matching
// routes off.
type Services struct {
	Users   repo.Repository
	Presets repo.PresetRepository
	Reports storage.ReportStore
}

func HandleList(router *mux.Router, cfg *config.Config, svc Services) http.Handler {
	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.Server.RateLimitRPS), cfg.Server.RateLimitBurst)
	router.Use(accessLog, limiter.LimitMiddleware)

	// Typed routes go first so the static catch-all below never shadows them.
	api.New(router, version)

	spatialH := &spatial.Handler{}
	batchH := &batch.Handler{}
	sheetH := &sheet.Handler{}
	reportH := &report.Handler{Store: svc.Reports}

	tools := router.PathPrefix("/api/tools/spatial").Subrouter()
	tools.HandleFunc("/calc", spatialH.Calc).Methods("GET", "POST")
	tools.HandleFunc("/defaults", spatialH.Defaults).Methods("GET")
	tools.HandleFunc("/batch", batchH.Calc).Methods("POST")
	tools.HandleFunc("/import", sheetH.Import).Methods("POST")
	tools.HandleFunc("/export", sheetH.Export).Methods("POST")
	tools.HandleFunc("/report/pdf", reportH.Generate).Methods("POST")
	tools.HandleFunc("/report/archive", reportH.Archive).Methods("POST")

	if svc.Users != nil && svc.Presets != nil {
		authEnv := &auth.Authenv{
			JWTkey: []byte(cfg.Auth.TokenKey),
			Repo:   svc.Users,
			Secure: cfg.Server.TLSCert != "",
		}
		presetH := &presets.PresetHandler{Repo: svc.Presets}

		apiR := router.PathPrefix("/api").Subrouter()
		apiR.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
		apiR.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")
		apiR.HandleFunc("/logout", authEnv.LogoutHandler).Methods("POST")

		secureApi := apiR.PathPrefix("/user").Subrouter()
		secureApi.Use(authEnv.AuthMiddleware)
		secureApi.HandleFunc("/presets", presetH.List).Methods("GET")
		secureApi.HandleFunc("/presets", presetH.Create).Methods("POST")
		secureApi.HandleFunc("/presets/{id}", presetH.Get).Methods("GET")
		secureApi.HandleFunc("/presets/{id}", presetH.Delete).Methods("DELETE")
		secureApi.HandleFunc("/presets/{id}/analysis", presetH.Analyze).Methods("GET")
	} else {
		log.Warn().Msg("DATABASE_URL not set, accounts and presets disabled")
	}

	router.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.Server.StaticDir)))

	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})(router)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("latency", time.Since(start)).
			Msg("request")
	})
}
