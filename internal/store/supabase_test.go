package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gdg-garage/maitri-passes/internal/models"
)

func TestSupabaseStoreInsert(t *testing.T) {
	var gotPath, gotKey, gotAuth, gotPrefer string
	var gotRows []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		gotPrefer = r.Header.Get("Prefer")
		if err := json.NewDecoder(r.Body).Decode(&gotRows); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s, err := NewSupabaseStore(srv.URL+"/", "anon-key")
	if err != nil {
		t.Fatalf("NewSupabaseStore returned error: %v", err)
	}
	rec := &models.VipRegistration{FullName: "Guest", Designation: "Chief Guest", MobileNumber: "9876543210", VipCode: "VIP-4821"}
	if err := s.Insert(context.Background(), "vip_registrations", rec); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}

	if gotPath != "/rest/v1/vip_registrations" {
		t.Errorf("unexpected path %s", gotPath)
	}
	if gotKey != "anon-key" || gotAuth != "Bearer anon-key" {
		t.Errorf("unexpected credentials apikey=%q authorization=%q", gotKey, gotAuth)
	}
	if gotPrefer != "return=minimal" {
		t.Errorf("unexpected Prefer header %q", gotPrefer)
	}
	if len(gotRows) != 1 || gotRows[0]["vip_code"] != "VIP-4821" {
		t.Errorf("unexpected rows %v", gotRows)
	}
}

func TestSupabaseStoreErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantCode   string
		wantMsg    string
		wantUnique bool
	}{
		{
			name:       "UniqueViolation",
			status:     http.StatusConflict,
			body:       `{"code":"23505","message":"duplicate key value violates unique constraint \"attendee_registrations_pin_number_key\""}`,
			wantCode:   "23505",
			wantMsg:    `duplicate key value violates unique constraint "attendee_registrations_pin_number_key"`,
			wantUnique: true,
		},
		{
			name:     "OtherPostgrestError",
			status:   http.StatusBadRequest,
			body:     `{"code":"PGRST204","message":"Could not find the 'pin' column"}`,
			wantCode: "PGRST204",
			wantMsg:  "Could not find the 'pin' column",
		},
		{
			name:     "PlainBody",
			status:   http.StatusBadGateway,
			body:     "upstream unavailable",
			wantCode: "",
			wantMsg:  "error parsing error response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			s, err := NewSupabaseStore(srv.URL, "anon-key")
			if err != nil {
				t.Fatalf("NewSupabaseStore returned error: %v", err)
			}
			err = s.Insert(context.Background(), "attendee_registrations", &models.AttendeeRegistration{})
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var se *Error
			if !errors.As(err, &se) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if se.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, se.Code)
			}
			if !strings.HasPrefix(Message(err), tt.wantMsg) {
				t.Errorf("expected message %q, got %q", tt.wantMsg, Message(err))
			}
			if IsUniqueViolation(err) != tt.wantUnique {
				t.Errorf("IsUniqueViolation = %v, want %v", IsUniqueViolation(err), tt.wantUnique)
			}
		})
	}
}

func TestSupabaseStoreUsesCallerContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	s, err := NewSupabaseStore(srv.URL, "anon-key")
	if err != nil {
		t.Fatalf("NewSupabaseStore returned error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = s.Insert(ctx, "attendee_registrations", &models.AttendeeRegistration{})
	if err == nil || ctx.Err() == nil {
		t.Errorf("expected the caller's deadline to end the request, got %v", err)
	}
}
