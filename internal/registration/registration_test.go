package registration

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/gdg-garage/maitri-passes/internal/logger"
	"github.com/gdg-garage/maitri-passes/internal/models"
	"github.com/gdg-garage/maitri-passes/internal/pass"
	"github.com/gdg-garage/maitri-passes/internal/store"
)

type fakeStore struct {
	err   error
	calls int
	table string
	rec   models.Record
	hook  func()
}

func (s *fakeStore) Insert(ctx context.Context, table string, rec models.Record) error {
	s.calls++
	s.table = table
	s.rec = rec
	if s.hook != nil {
		s.hook()
	}
	return s.err
}

func testVariants() *Variants {
	return NewVariants(Settings{
		AttendeeTable:   "attendee_registrations",
		VipTable:        "vip_registrations",
		FacultyTable:    "faculty_registrations",
		VipPasscode:     "MAITRIVIP26",
		FacultyPasscode: "MAITRIFACULTY26",
	})
}

func variant(t *testing.T, k models.Kind) *Variant {
	t.Helper()
	v, ok := testVariants().Get(k)
	if !ok {
		t.Fatalf("variant %s missing", k)
	}
	return v
}

func TestValidateMobile(t *testing.T) {
	v := variant(t, models.KindVIP)
	tests := []struct {
		mobile string
		want   string
	}{
		{"", "Mobile number is required"},
		{"   ", "Mobile number is required"},
		{"1234567890", "Enter a valid 10-digit Indian mobile number"},
		{"5876543210", "Enter a valid 10-digit Indian mobile number"},
		{"987654321", "Enter a valid 10-digit Indian mobile number"},
		{"98765432101", "Enter a valid 10-digit Indian mobile number"},
		{"9876543210", ""},
		{"6000000000", ""},
		{" 7000000000 ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.mobile, func(t *testing.T) {
			errs := Validate(v, Fields{Name: "Asha", Designation: "Dean", Mobile: tt.mobile})
			if got := errs[FieldMobile]; got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestValidatePin(t *testing.T) {
	v := variant(t, models.KindAttendee)
	tests := []struct {
		pin  string
		want string
	}{
		{"", "PIN number is required"},
		{"abcd", "PIN must be 5–20 alphanumeric characters or hyphens"},
		{"abcde", ""},
		{"mt-2026", ""},
		{"ABCDEFGHIJ0123456789", ""},
		{"ABCDEFGHIJ01234567890", "PIN must be 5–20 alphanumeric characters or hyphens"},
		{"MT_2026", "PIN must be 5–20 alphanumeric characters or hyphens"},
		{"MT 2026", "PIN must be 5–20 alphanumeric characters or hyphens"},
	}
	for _, tt := range tests {
		t.Run(tt.pin, func(t *testing.T) {
			errs := Validate(v, Fields{Name: "Asha", Pin: tt.pin, Mobile: "9876543210"})
			if got := errs[FieldPin]; got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestValidateReportsAllFields(t *testing.T) {
	errs := Validate(variant(t, models.KindVIP), Fields{Name: "  ", Designation: "", Mobile: ""})
	want := map[string]string{
		FieldName:        "Full name is required",
		FieldDesignation: "Designation/Role is required",
		FieldMobile:      "Mobile number is required",
	}
	if len(errs) != len(want) {
		t.Fatalf("expected %d errors, got %v", len(want), errs)
	}
	for k, msg := range want {
		if errs[k] != msg {
			t.Errorf("%s: expected %q, got %q", k, msg, errs[k])
		}
	}
}

func TestValidateFacultyDesignation(t *testing.T) {
	v := variant(t, models.KindFaculty)
	if errs := Validate(v, Fields{Name: "R. S. Rao", Mobile: "9876543210"}); len(errs) != 0 {
		t.Errorf("empty designation should default, got %v", errs)
	}
	if errs := Validate(v, Fields{Name: "R. S. Rao", Designation: "HOD", Mobile: "9876543210"}); len(errs) != 0 {
		t.Errorf("unexpected errors %v", errs)
	}
	errs := Validate(v, Fields{Name: "R. S. Rao", Designation: "Dean", Mobile: "9876543210"})
	if errs[FieldDesignation] != "Select a valid designation" {
		t.Errorf("expected designation error, got %v", errs)
	}
}

func TestNewCode(t *testing.T) {
	re := regexp.MustCompile(`^(VIP|FAC)-\d{4}$`)
	if got := NewCode("VIP", func(int) int { return 0 }); got != "VIP-1000" {
		t.Errorf("expected VIP-1000, got %s", got)
	}
	if got := NewCode("FAC", func(n int) int { return n - 1 }); got != "FAC-9999" {
		t.Errorf("expected FAC-9999, got %s", got)
	}
	for range 200 {
		if c := NewCode("FAC", nil); !re.MatchString(c) {
			t.Fatalf("code %s does not match format", c)
		}
	}
}

func TestFlowAttendeeScenario(t *testing.T) {
	st := &fakeStore{}
	f := NewFlow(variant(t, models.KindAttendee), st)
	f.Fill(Fields{Name: "Asha Rao", Pin: "mt-2026", Mobile: "9876543210"})

	state, err := f.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	success, ok := state.(Success)
	if !ok {
		t.Fatalf("expected Success, got %T", state)
	}
	if st.calls != 1 || st.table != "attendee_registrations" {
		t.Fatalf("expected one insert into attendee_registrations, got %d into %s", st.calls, st.table)
	}
	row := st.rec.(*models.AttendeeRegistration)
	if row.PinNumber != "MT-2026" || row.FullName != "Asha Rao" || row.MobileNumber != "9876543210" {
		t.Errorf("unexpected row %+v", row)
	}
	cred := success.Credential
	if cred.QRPayload() != "MT-2026" {
		t.Errorf("expected QR payload MT-2026, got %s", cred.QRPayload())
	}
	if cred.Filename() != "Maitri_Pass_mt-2026.pdf" {
		t.Errorf("unexpected filename %s", cred.Filename())
	}

	if !f.ClaimAutoDownload() {
		t.Error("expected auto download to be armed")
	}
	if f.ClaimAutoDownload() {
		t.Error("auto download must fire once")
	}

	if _, err := f.Submit(context.Background()); !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("expected ErrAlreadyRegistered, got %v", err)
	}
	if st.calls != 1 {
		t.Errorf("expected no further insert, got %d", st.calls)
	}
}

func TestFlowInvalidMobileSkipsInsert(t *testing.T) {
	st := &fakeStore{}
	f := NewFlow(variant(t, models.KindAttendee), st)
	f.Fill(Fields{Name: "Asha Rao", Pin: "MT-2026", Mobile: "1234567890"})

	state, err := f.Submit(context.Background())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields[FieldMobile] != "Enter a valid 10-digit Indian mobile number" {
		t.Errorf("unexpected mobile error %q", verr.Fields[FieldMobile])
	}
	if state.Status() != StatusIdle {
		t.Errorf("expected state unchanged, got %s", state.Status())
	}
	if st.calls != 0 {
		t.Errorf("expected no insert, got %d", st.calls)
	}
	if snap := f.Snapshot(); snap.Errors[FieldMobile] == "" {
		t.Error("expected errors on snapshot")
	}
}

func TestFlowDuplicatePin(t *testing.T) {
	dup := &store.Error{Code: store.CodeUniqueViolation, Message: `duplicate key value violates unique constraint "attendee_registrations_pin_number_key"`}

	t.Run("attendee maps to fixed message", func(t *testing.T) {
		f := NewFlow(variant(t, models.KindAttendee), &fakeStore{err: dup})
		f.Fill(Fields{Name: "Asha Rao", Pin: "MT-2026", Mobile: "9876543210"})
		state, err := f.Submit(context.Background())
		if !errors.Is(err, ErrRegistrationFailed) || !store.IsUniqueViolation(err) {
			t.Fatalf("expected wrapped unique violation, got %v", err)
		}
		failed, ok := state.(Failed)
		if !ok || failed.Message != "This PIN is already registered. Each PIN can only be used once." {
			t.Errorf("unexpected state %#v", state)
		}
		if f.ClaimAutoDownload() {
			t.Error("failure must not arm auto download")
		}
	})

	t.Run("other failures keep raw message", func(t *testing.T) {
		f := NewFlow(variant(t, models.KindAttendee), &fakeStore{err: &store.Error{Code: "42P01", Message: "relation does not exist"}})
		f.Fill(Fields{Name: "Asha Rao", Pin: "MT-2026", Mobile: "9876543210"})
		state, _ := f.Submit(context.Background())
		if failed, ok := state.(Failed); !ok || failed.Message != "relation does not exist" {
			t.Errorf("unexpected state %#v", state)
		}
	})

	t.Run("vip shows raw message", func(t *testing.T) {
		f := NewFlow(variant(t, models.KindVIP), &fakeStore{err: dup})
		f.Fill(Fields{Name: "Asha Rao", Designation: "Dean", Mobile: "9876543210"})
		state, _ := f.Submit(context.Background())
		if failed, ok := state.(Failed); !ok || failed.Message != dup.Message {
			t.Errorf("unexpected state %#v", state)
		}
	})

	t.Run("failed form can resubmit", func(t *testing.T) {
		st := &fakeStore{err: dup}
		f := NewFlow(variant(t, models.KindAttendee), st)
		f.Fill(Fields{Name: "Asha Rao", Pin: "MT-2026", Mobile: "9876543210"})
		f.Submit(context.Background())
		st.err = nil
		f.Set(FieldPin, "MT-2027")
		state, err := f.Submit(context.Background())
		if err != nil || state.Status() != StatusSuccess {
			t.Fatalf("expected success on resubmit, got %v %v", state, err)
		}
	})
}

func TestFlowCodes(t *testing.T) {
	st := &fakeStore{}
	f := NewFlow(variant(t, models.KindFaculty), st, WithRandom(func(int) int { return 3821 }))
	f.Fill(Fields{Name: "R. S. Rao", Mobile: "9876543210"})

	state, err := f.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	cred := state.(Success).Credential
	if cred.Code != "FAC-4821" || cred.QRPayload() != "FAC-4821" {
		t.Errorf("unexpected code %s / payload %s", cred.Code, cred.QRPayload())
	}
	row := st.rec.(*models.FacultyRegistration)
	if row.FacCode != "FAC-4821" || row.Designation != "Faculty" {
		t.Errorf("unexpected row %+v", row)
	}
	if cred.Filename() != "Faculty_Pass_R._S._Rao.pdf" {
		t.Errorf("unexpected filename %s", cred.Filename())
	}
}

func TestFlowRejectsConcurrentSubmit(t *testing.T) {
	st := &fakeStore{}
	f := NewFlow(variant(t, models.KindVIP), st)
	f.Fill(Fields{Name: "Asha Rao", Designation: "Chief Guest", Mobile: "9876543210"})

	var inner error
	st.hook = func() {
		if f.Snapshot().State.Status() != StatusLoading {
			t.Error("expected loading during insert")
		}
		_, inner = f.Submit(context.Background())
		if err := f.Reset(); !errors.Is(err, ErrSubmitInProgress) {
			t.Errorf("expected reset to be refused while loading, got %v", err)
		}
		f.Set(FieldName, "Someone Else")
	}

	state, err := f.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if !errors.Is(inner, ErrSubmitInProgress) {
		t.Errorf("expected ErrSubmitInProgress, got %v", inner)
	}
	if st.calls != 1 {
		t.Errorf("expected one insert, got %d", st.calls)
	}
	if name := state.(Success).Credential.Name; name != "Asha Rao" {
		t.Errorf("expected frozen name, got %s", name)
	}
}

func TestFlowReset(t *testing.T) {
	f := NewFlow(variant(t, models.KindFaculty), &fakeStore{})
	f.Fill(Fields{Name: "R. S. Rao", Designation: "HOD", Mobile: "9876543210"})
	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := f.Reset(); err != nil {
		t.Fatalf("Reset returned error: %v", err)
	}
	snap := f.Snapshot()
	if snap.State.Status() != StatusIdle {
		t.Errorf("expected idle, got %s", snap.State.Status())
	}
	if snap.Fields != (Fields{Designation: "Faculty"}) {
		t.Errorf("expected cleared fields, got %+v", snap.Fields)
	}
	if len(snap.Errors) != 0 {
		t.Errorf("expected no errors, got %v", snap.Errors)
	}
	if _, ok := f.Credential(); ok {
		t.Error("expected credential cleared")
	}
	if f.ClaimAutoDownload() {
		t.Error("auto download must be disarmed")
	}
}

func TestFlowRejectsMalformedMobile(t *testing.T) {
	for _, mobile := range []string{"98765432101", "98765-43210", "9876543210abc", "+919876543210"} {
		t.Run(mobile, func(t *testing.T) {
			st := &fakeStore{}
			f := NewFlow(variant(t, models.KindAttendee), st)
			f.Fill(Fields{Name: "Asha Rao", Pin: "MT-2026", Mobile: mobile})

			if got := f.Snapshot().Fields.Mobile; got != mobile {
				t.Errorf("expected mobile kept as %q, got %q", mobile, got)
			}
			state, err := f.Submit(context.Background())
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Fields[FieldMobile] != "Enter a valid 10-digit Indian mobile number" {
				t.Errorf("unexpected mobile error %q", verr.Fields[FieldMobile])
			}
			if state.Status() != StatusIdle {
				t.Errorf("expected idle, got %s", state.Status())
			}
			if st.calls != 0 {
				t.Errorf("expected no insert, got %d", st.calls)
			}
		})
	}
}

func TestFlowTrimsMobile(t *testing.T) {
	st := &fakeStore{}
	f := NewFlow(variant(t, models.KindAttendee), st)
	f.Fill(Fields{Name: "Asha Rao", Pin: "MT-2026", Mobile: " 9876543210 "})
	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if row := st.rec.(*models.AttendeeRegistration); row.MobileNumber != "9876543210" {
		t.Errorf("expected trimmed mobile, got %q", row.MobileNumber)
	}
}

func TestFlowDownloadWithoutPass(t *testing.T) {
	f := NewFlow(variant(t, models.KindAttendee), &fakeStore{})
	if _, err := f.Download(context.Background()); !errors.Is(err, ErrNoPass) {
		t.Errorf("expected ErrNoPass, got %v", err)
	}
}

type recordingNotifier struct {
	got []pass.Credential
	err error
}

func (n *recordingNotifier) NotifyRegistration(ctx context.Context, c pass.Credential) error {
	n.got = append(n.got, c)
	return n.err
}

func TestFlowNotifies(t *testing.T) {
	n := &recordingNotifier{err: errors.New("discord down")}
	f := NewFlow(variant(t, models.KindVIP), &fakeStore{}, WithNotifier(n), WithLogger(logger.Nop()))
	f.Fill(Fields{Name: "Asha Rao", Designation: "Chief Guest", Mobile: "9876543210"})

	state, err := f.Submit(context.Background())
	if err != nil {
		t.Fatalf("notifier failure must not fail the submission: %v", err)
	}
	if state.Status() != StatusSuccess {
		t.Fatalf("expected success, got %s", state.Status())
	}
	if len(n.got) != 1 || n.got[0].Code == "" {
		t.Errorf("expected one notification with a code, got %+v", n.got)
	}
}

func TestFlowDownload(t *testing.T) {
	r := pass.NewRenderer(pass.NewNativeCapturer(), pass.NewPDFPackager())
	f := NewFlow(variant(t, models.KindAttendee), &fakeStore{}, WithRenderer(r))
	f.Fill(Fields{Name: "Asha Rao", Pin: "mt-2026", Mobile: "9876543210"})
	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}

	doc, err := f.Download(context.Background())
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	if doc.Filename != "Maitri_Pass_mt-2026.pdf" {
		t.Errorf("unexpected filename %s", doc.Filename)
	}
	if !bytes.HasPrefix(doc.Data, []byte("%PDF")) {
		t.Error("expected pdf bytes")
	}
}
