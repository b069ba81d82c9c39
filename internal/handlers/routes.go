package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/gdg-garage/maitri-passes/internal/logger"
	"github.com/gdg-garage/maitri-passes/internal/registration"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type RouteOptions struct {
	// CSRFKey enables CSRF protection on the HTML forms when set.
	CSRFKey       []byte
	SecureCookies bool
}

func RegisterRoutes(r *chi.Mux, log *zerolog.Logger, opts RouteOptions, variants *registration.Variants, pageHandler *PageHandler, apiHandler *APIHandler) {
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware(log))
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders)

	// Initialize Huma API
	config := huma.DefaultConfig("Maitri Passes API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"gateAuth": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	api := humachi.New(r, config)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	huma.Post(api, "/api/registrations/{variant}", apiHandler.HandleRegister, func(o *huma.Operation) {
		o.DefaultStatus = http.StatusCreated
		o.Security = []map[string][]string{{}, {"gateAuth": {}}}
	})
	huma.Post(api, "/api/gates/{variant}/unlock", apiHandler.HandleUnlock)
	huma.Get(api, "/api/passes/{token}", apiHandler.HandlePass)

	// HTML forms
	r.Group(func(r chi.Router) {
		if len(opts.CSRFKey) > 0 {
			r.Use(CSRF(opts.CSRFKey, opts.SecureCookies))
		}
		for _, v := range variants.All() {
			r.Get(v.Path, pageHandler.Form(v))
			r.Post(v.Path, pageHandler.Submit(v))
			r.Post(subPath(v, "reset"), pageHandler.Reset(v))
			r.Get(subPath(v, "pass.pdf"), pageHandler.Download(v))
			if v.Gated() {
				r.Post(subPath(v, "unlock"), pageHandler.Unlock(v))
			}
		}
	})
}
