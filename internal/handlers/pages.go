package handlers

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gdg-garage/maitri-passes/internal/auth"
	"github.com/gdg-garage/maitri-passes/internal/pass"
	"github.com/gdg-garage/maitri-passes/internal/registration"
	"github.com/gdg-garage/maitri-passes/internal/session"
	"github.com/gorilla/csrf"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// PageHandler serves the server-rendered forms.
type PageHandler struct {
	variants          *registration.Variants
	sessions          *session.Store
	caps              *auth.Capabilities
	autoDownloadDelay time.Duration
	log               *zerolog.Logger
}

func NewPageHandler(variants *registration.Variants, sessions *session.Store, caps *auth.Capabilities, autoDownloadDelay time.Duration, log *zerolog.Logger) *PageHandler {
	return &PageHandler{
		variants:          variants,
		sessions:          sessions,
		caps:              caps,
		autoDownloadDelay: autoDownloadDelay,
		log:               log,
	}
}

type pageData struct {
	Variant   *registration.Variant
	Copy      registration.Copy
	CSRFField template.HTML

	Fields    registration.Fields
	Errors    map[string]string
	Banner    string
	Submitted bool

	GateError string

	Pass         template.HTML
	Downloading  bool
	AutoDownload bool
	DelayMS      int64

	ActionURL   string
	UnlockURL   string
	ResetURL    string
	DownloadURL string
}

func (d pageData) ShowPin() bool { return d.Variant.Schema == registration.SchemaPIN }

func (d pageData) ShowDesignation() bool { return d.Variant.Schema == registration.SchemaDesignation }

func (d pageData) ShowRole() bool { return d.Variant.Schema == registration.SchemaRole }

func subPath(v *registration.Variant, name string) string {
	return strings.TrimSuffix(v.Path, "/") + "/" + name
}

func (h *PageHandler) data(r *http.Request, v *registration.Variant) pageData {
	return pageData{
		Variant:     v,
		Copy:        v.Copy,
		CSRFField:   csrf.TemplateField(r),
		ActionURL:   v.Path,
		UnlockURL:   subPath(v, "unlock"),
		ResetURL:    subPath(v, "reset"),
		DownloadURL: subPath(v, "pass.pdf"),
		DelayMS:     h.autoDownloadDelay.Milliseconds(),
	}
}

func (h *PageHandler) render(w http.ResponseWriter, status int, name string, data pageData) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		h.log.Error().Err(err).Str("template", name).Msg("render page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// locked renders the gate and reports true when the request has no capability.
func (h *PageHandler) locked(w http.ResponseWriter, r *http.Request, v *registration.Variant) bool {
	if !v.Gated() || h.caps.Allowed(r, v.Kind) {
		return false
	}
	h.render(w, http.StatusForbidden, "gate", h.data(r, v))
	return true
}

// Form starts a fresh form instance, as loading the page does in a browser.
func (h *PageHandler) Form(v *registration.Variant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if v.Gated() && !h.caps.Allowed(r, v.Kind) {
			h.render(w, http.StatusOK, "gate", h.data(r, v))
			return
		}
		flow, ok := h.sessions.Fresh(h.sessions.ID(w, r), v.Kind)
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.renderFlow(w, r, v, flow, http.StatusOK, "")
	}
}

func (h *PageHandler) Unlock(v *registration.Variant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := v.Gate.Unlock(r.PostFormValue("passcode")); err != nil {
			d := h.data(r, v)
			d.GateError = v.Gate.Mismatch
			h.render(w, http.StatusUnauthorized, "gate", d)
			return
		}
		token, err := h.caps.Issue(v.Kind)
		if err != nil {
			h.log.Error().Err(err).Str("variant", string(v.Kind)).Msg("issue gate capability")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		http.SetCookie(w, h.caps.Cookie(v.Kind, token))
		http.Redirect(w, r, v.Path, http.StatusSeeOther)
	}
}

func (h *PageHandler) Submit(v *registration.Variant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.locked(w, r, v) {
			return
		}
		flow, ok := h.sessions.Flow(h.sessions.ID(w, r), v.Kind)
		if !ok {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		flow.Fill(registration.Fields{
			Name:        r.PostForm.Get("name"),
			Pin:         r.PostForm.Get("pin"),
			Designation: r.PostForm.Get("designation"),
			Mobile:      r.PostForm.Get("mobile"),
		})

		_, err := flow.Submit(r.Context())
		var verr *registration.ValidationError
		switch {
		case err == nil, errors.Is(err, registration.ErrAlreadyRegistered):
			h.renderFlow(w, r, v, flow, http.StatusOK, "")
		case errors.As(err, &verr):
			h.renderFlow(w, r, v, flow, http.StatusUnprocessableEntity, "")
		case errors.Is(err, registration.ErrSubmitInProgress):
			h.renderFlow(w, r, v, flow, http.StatusConflict, "A submission is already in progress.")
		default:
			// Failed state carries the banner.
			h.renderFlow(w, r, v, flow, http.StatusOK, "")
		}
	}
}

func (h *PageHandler) Reset(v *registration.Variant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.locked(w, r, v) {
			return
		}
		flow, ok := h.sessions.Flow(h.sessions.ID(w, r), v.Kind)
		if !ok {
			http.NotFound(w, r)
			return
		}
		if err := flow.Reset(); err != nil {
			h.renderFlow(w, r, v, flow, http.StatusConflict, "A submission is already in progress.")
			return
		}
		h.renderFlow(w, r, v, flow, http.StatusOK, "")
	}
}

func (h *PageHandler) Download(v *registration.Variant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.locked(w, r, v) {
			return
		}
		flow, ok := h.sessions.Flow(h.sessions.ID(w, r), v.Kind)
		if !ok {
			http.NotFound(w, r)
			return
		}
		doc, err := flow.Download(r.Context())
		switch {
		case err == nil:
		case errors.Is(err, registration.ErrNoPass):
			http.Redirect(w, r, v.Path, http.StatusSeeOther)
			return
		case errors.Is(err, pass.ErrDownloadInProgress):
			http.Error(w, "Download already in progress", http.StatusConflict)
			return
		default:
			h.render(w, http.StatusServiceUnavailable, "retry", h.data(r, v))
			return
		}

		w.Header().Set("Content-Type", doc.ContentType)
		w.Header().Set("Content-Disposition", attachment(doc.Filename))
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(doc.Data)
	}
}

func (h *PageHandler) renderFlow(w http.ResponseWriter, r *http.Request, v *registration.Variant, flow *registration.Flow, status int, banner string) {
	snap := flow.Snapshot()
	d := h.data(r, v)
	d.Fields = snap.Fields
	d.Errors = snap.Errors
	d.Banner = banner
	d.Downloading = snap.Downloading

	switch st := snap.State.(type) {
	case registration.Success:
		frag, err := pass.HTML(pass.Render(st.Credential))
		if err != nil {
			h.log.Error().Err(err).Str("variant", string(v.Kind)).Msg("render pass view")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		d.Pass = frag
		d.AutoDownload = flow.ClaimAutoDownload()
		h.render(w, status, "success", d)
		return
	case registration.Failed:
		if d.Banner == "" {
			d.Banner = st.Message
		}
	case registration.Loading:
		d.Submitted = true
	}
	h.render(w, status, "form", d)
}
