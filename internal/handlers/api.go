package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/maitri-passes/internal/auth"
	"github.com/gdg-garage/maitri-passes/internal/models"
	"github.com/gdg-garage/maitri-passes/internal/pass"
	"github.com/gdg-garage/maitri-passes/internal/registration"
	"github.com/gdg-garage/maitri-passes/internal/session"
	"github.com/gdg-garage/maitri-passes/internal/store"
	"github.com/rs/zerolog"
)

// APIHandler serves the JSON API. Every request works on a fresh form instance.
type APIHandler struct {
	variants *registration.Variants
	newFlow  session.Factory
	caps     *auth.Capabilities
	tokens   *pass.Tokens
	renderer *pass.Renderer
	log      *zerolog.Logger
}

func NewAPIHandler(variants *registration.Variants, newFlow session.Factory, caps *auth.Capabilities, tokens *pass.Tokens, renderer *pass.Renderer, log *zerolog.Logger) *APIHandler {
	return &APIHandler{
		variants: variants,
		newFlow:  newFlow,
		caps:     caps,
		tokens:   tokens,
		renderer: renderer,
		log:      log,
	}
}

type RegistrationBody struct {
	Name        string `json:"name,omitempty" doc:"Full name of the pass holder"`
	Pin         string `json:"pin,omitempty" doc:"PIN number, attendee registrations only"`
	Designation string `json:"designation,omitempty" doc:"Designation, VIP and faculty registrations only"`
	Mobile      string `json:"mobile,omitempty" doc:"10-digit Indian mobile number"`
}

type RegistrationRequest struct {
	Variant       string `path:"variant" enum:"attendee,vip,faculty" doc:"Registration form"`
	Authorization string `header:"Authorization" doc:"Bearer gate capability for privileged forms"`
	Cookie        string `header:"Cookie"`
	Body          RegistrationBody
}

type RegistrationResponse struct {
	Body struct {
		Status      string      `json:"status"`
		Variant     models.Kind `json:"variant"`
		Name        string      `json:"name"`
		Pin         string      `json:"pin,omitempty"`
		Designation string      `json:"designation,omitempty"`
		Code        string      `json:"code,omitempty"`
		QRPayload   string      `json:"qr_payload"`
		Filename    string      `json:"filename"`
		PassToken   string      `json:"pass_token"`
		PassURL     string      `json:"pass_url"`
	}
}

func (h *APIHandler) variant(name string) (*registration.Variant, error) {
	kind, ok := models.ParseKind(name)
	if !ok {
		return nil, huma.Error404NotFound("Unknown registration form")
	}
	v, ok := h.variants.Get(kind)
	if !ok {
		return nil, huma.Error404NotFound("Unknown registration form")
	}
	return v, nil
}

func (h *APIHandler) HandleRegister(ctx context.Context, input *RegistrationRequest) (*RegistrationResponse, error) {
	v, err := h.variant(input.Variant)
	if err != nil {
		return nil, err
	}
	if v.Gated() {
		if err := h.caps.FromHeaders(input.Authorization, input.Cookie, v.Kind); err != nil {
			return nil, huma.Error401Unauthorized("Unlock the form with its passcode first")
		}
	}

	flow, ok := h.newFlow(v.Kind)
	if !ok {
		return nil, huma.Error404NotFound("Unknown registration form")
	}
	flow.Fill(registration.Fields(input.Body))

	state, err := flow.Submit(ctx)
	if err != nil {
		return nil, submitError(state, err)
	}
	cred := state.(registration.Success).Credential

	token, err := h.tokens.Issue(cred)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to issue pass token", err)
	}

	res := &RegistrationResponse{}
	res.Body.Status = string(registration.StatusSuccess)
	res.Body.Variant = cred.Kind()
	res.Body.Name = cred.Name
	res.Body.Pin = cred.PIN
	res.Body.Designation = cred.Designation
	res.Body.Code = cred.Code
	res.Body.QRPayload = cred.QRPayload()
	res.Body.Filename = cred.Filename()
	res.Body.PassToken = token
	res.Body.PassURL = "/api/passes/" + url.PathEscape(token)
	return res, nil
}

func submitError(state registration.State, err error) error {
	var verr *registration.ValidationError
	switch {
	case errors.As(err, &verr):
		fields := make([]string, 0, len(verr.Fields))
		for f := range verr.Fields {
			fields = append(fields, f)
		}
		slices.Sort(fields)
		details := make([]error, 0, len(fields))
		for _, f := range fields {
			details = append(details, &huma.ErrorDetail{Message: verr.Fields[f], Location: "body." + f})
		}
		return huma.Error422UnprocessableEntity("Validation failed", details...)
	case errors.Is(err, registration.ErrSubmitInProgress):
		return huma.Error409Conflict("A submission is already in progress")
	case errors.Is(err, registration.ErrRegistrationFailed):
		msg := store.Message(err)
		if failed, ok := state.(registration.Failed); ok {
			msg = failed.Message
		}
		if store.IsUniqueViolation(err) {
			return huma.Error409Conflict(msg)
		}
		return huma.Error502BadGateway(msg)
	default:
		return huma.Error500InternalServerError("Failed to process registration", err)
	}
}

type UnlockRequest struct {
	Variant string `path:"variant" enum:"vip,faculty" doc:"Gated registration form"`
	Body    struct {
		Passcode string `json:"passcode" doc:"Shared passcode of the form"`
	}
}

type UnlockResponse struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      struct {
		Status string `json:"status"`
		Token  string `json:"token" doc:"Capability token, usable as a Bearer credential"`
	}
}

func (h *APIHandler) HandleUnlock(ctx context.Context, input *UnlockRequest) (*UnlockResponse, error) {
	v, err := h.variant(input.Variant)
	if err != nil {
		return nil, err
	}
	if !v.Gated() {
		return nil, huma.Error404NotFound("This form has no passcode")
	}
	if err := v.Gate.Unlock(input.Body.Passcode); err != nil {
		return nil, huma.Error401Unauthorized(v.Gate.Mismatch)
	}

	token, err := h.caps.Issue(v.Kind)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to issue capability", err)
	}
	res := &UnlockResponse{SetCookie: *h.caps.Cookie(v.Kind, token)}
	res.Body.Status = "unlocked"
	res.Body.Token = token
	return res, nil
}

type PassRequest struct {
	Token string `path:"token" doc:"Pass token returned by a registration"`
}

type PassResponse struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

func (h *APIHandler) HandlePass(ctx context.Context, input *PassRequest) (*PassResponse, error) {
	cred, err := h.tokens.Parse(input.Token, h.variants.Template)
	if err != nil {
		return nil, huma.Error401Unauthorized("Invalid or expired pass token")
	}

	doc, err := h.renderer.Render(ctx, cred)
	if err != nil {
		h.log.Error().Err(err).
			Str("variant", string(cred.Kind())).
			Str("filename", cred.Filename()).
			Msg("PDF generation error")
		return nil, huma.Error503ServiceUnavailable("Pass generation failed, try again")
	}
	return &PassResponse{
		ContentType:        doc.ContentType,
		ContentDisposition: attachment(doc.Filename),
		Body:               doc.Data,
	}, nil
}

func attachment(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}
