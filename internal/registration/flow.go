package registration

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/gdg-garage/maitri-passes/internal/logger"
	"github.com/gdg-garage/maitri-passes/internal/pass"
	"github.com/gdg-garage/maitri-passes/internal/store"
	"github.com/rs/zerolog"
)

var (
	ErrSubmitInProgress   = errors.New("submission already in progress")
	ErrAlreadyRegistered  = errors.New("already registered, reset the form first")
	ErrRegistrationFailed = errors.New("registration failed")
	ErrNoPass             = errors.New("no pass has been issued")
)

// Notifier is told about every accepted registration.
type Notifier interface {
	NotifyRegistration(ctx context.Context, c pass.Credential) error
}

// Flow is a single form instance: field values, errors and submission state.
type Flow struct {
	variant    *Variant
	store      store.Inserter
	renderer   *pass.Renderer
	downloader *pass.Downloader
	notifier   Notifier
	log        *zerolog.Logger
	intn       func(int) int
	now        func() time.Time

	mu     sync.Mutex
	fields Fields
	errors map[string]string
	state  State
	armed  bool
}

type FlowOption func(*Flow)

func WithNotifier(n Notifier) FlowOption { return func(f *Flow) { f.notifier = n } }

func WithLogger(l *zerolog.Logger) FlowOption { return func(f *Flow) { f.log = l } }

// WithRandom replaces the source used for generated codes.
func WithRandom(intn func(int) int) FlowOption { return func(f *Flow) { f.intn = intn } }

func WithClock(now func() time.Time) FlowOption { return func(f *Flow) { f.now = now } }

// WithRenderer enables pass downloads for the flow.
func WithRenderer(r *pass.Renderer) FlowOption { return func(f *Flow) { f.renderer = r } }

func NewFlow(v *Variant, ins store.Inserter, opts ...FlowOption) *Flow {
	f := &Flow{
		variant: v,
		store:   ins,
		log:     logger.Nop(),
		now:     time.Now,
		fields:  Fields{Designation: v.DefaultDesignation},
		state:   Idle{},
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.renderer != nil {
		f.downloader = pass.NewDownloader(f.renderer, f.log)
	}
	return f
}

func (f *Flow) Variant() *Variant { return f.variant }

func (f *Flow) editable() bool {
	switch f.state.(type) {
	case Loading, Success:
		return false
	}
	return true
}

// Set updates one field. Values are kept as given; Submit validates them.
func (f *Flow) Set(field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.editable() {
		return
	}
	switch field {
	case FieldName:
		f.fields.Name = value
	case FieldPin:
		f.fields.Pin = value
	case FieldDesignation:
		f.fields.Designation = value
	case FieldMobile:
		f.fields.Mobile = value
	}
}

// Fill sets all fields the variant collects.
func (f *Flow) Fill(in Fields) {
	f.Set(FieldName, in.Name)
	f.Set(FieldMobile, in.Mobile)
	switch f.variant.Schema {
	case SchemaPIN:
		f.Set(FieldPin, in.Pin)
	default:
		f.Set(FieldDesignation, in.Designation)
	}
}

// Submit validates and, if the values pass, inserts one row.
// Validation failures return a *ValidationError and leave the state unchanged.
// Store failures move the flow to Failed and return an error wrapping ErrRegistrationFailed.
func (f *Flow) Submit(ctx context.Context) (State, error) {
	f.mu.Lock()
	switch st := f.state.(type) {
	case Loading:
		f.mu.Unlock()
		return st, ErrSubmitInProgress
	case Success:
		f.mu.Unlock()
		return st, ErrAlreadyRegistered
	}

	if errs := Validate(f.variant, f.fields); len(errs) > 0 {
		f.errors = errs
		st := f.state
		f.mu.Unlock()
		return st, &ValidationError{Fields: maps.Clone(errs)}
	}

	f.errors = nil
	f.state = Loading{}
	values := Normalize(f.variant, f.fields)
	cred := pass.Credential{
		Template:    f.variant.Pass,
		Name:        values.Name,
		PIN:         values.Pin,
		EnteredPIN:  strings.TrimSpace(f.fields.Pin),
		Designation: values.Designation,
		Mobile:      values.Mobile,
		IssuedAt:    f.now(),
	}
	if f.variant.CodePrefix != "" {
		cred.Code = NewCode(f.variant.CodePrefix, f.intn)
	}
	f.mu.Unlock()

	err := f.store.Insert(ctx, f.variant.Table, f.variant.Record(cred))

	f.mu.Lock()
	if err != nil {
		msg := store.Message(err)
		if f.variant.DuplicateMessage != "" && store.IsUniqueViolation(err) {
			msg = f.variant.DuplicateMessage
		}
		st := Failed{Message: msg}
		f.state = st
		f.mu.Unlock()

		f.log.Warn().Err(err).
			Str("variant", string(f.variant.Kind)).
			Str("table", f.variant.Table).
			Msg("registration insert failed")
		return st, fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
	}

	st := Success{Credential: cred}
	f.state = st
	f.armed = true
	f.mu.Unlock()

	f.log.Info().
		Str("variant", string(f.variant.Kind)).
		Str("code", cred.Code).
		Str("pin", cred.PIN).
		Msg("registration accepted")

	if f.notifier != nil {
		if err := f.notifier.NotifyRegistration(ctx, cred); err != nil {
			f.log.Error().Err(err).Str("variant", string(f.variant.Kind)).Msg("registration notification failed")
		}
	}
	return st, nil
}

// Reset returns the form to Idle with empty fields.
func (f *Flow) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.state.(Loading); ok {
		return ErrSubmitInProgress
	}
	f.fields = Fields{Designation: f.variant.DefaultDesignation}
	f.errors = nil
	f.state = Idle{}
	f.armed = false
	return nil
}

// ClaimAutoDownload is true once per successful submission.
func (f *Flow) ClaimAutoDownload() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.armed {
		return false
	}
	f.armed = false
	return true
}

type Snapshot struct {
	Fields      Fields
	Errors      map[string]string
	State       State
	Downloading bool
}

func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{
		Fields:      f.fields,
		Errors:      maps.Clone(f.errors),
		State:       f.state,
		Downloading: f.downloader != nil && f.downloader.InProgress(),
	}
}

// Credential returns the frozen credential of a successful submission.
func (f *Flow) Credential() (pass.Credential, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.state.(Success)
	return st.Credential, ok
}

// Download renders the PDF for the issued pass.
func (f *Flow) Download(ctx context.Context) (*pass.Document, error) {
	cred, ok := f.Credential()
	if !ok || f.downloader == nil {
		return nil, ErrNoPass
	}
	return f.downloader.Download(ctx, cred)
}
