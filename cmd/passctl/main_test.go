package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestValidate(t *testing.T) {
	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "test.db"))

	t.Run("valid attendee", func(t *testing.T) {
		if err := run(t, "validate", "--name", "Asha Rao", "--pin", "mt-2026", "--mobile", "9876543210"); err != nil {
			t.Fatalf("expected valid input, got %v", err)
		}
	})

	t.Run("invalid mobile", func(t *testing.T) {
		err := run(t, "validate", "--name", "Asha Rao", "--pin", "mt-2026", "--mobile", "98765")
		if err == nil || !strings.Contains(err.Error(), "1 invalid field") {
			t.Fatalf("expected one invalid field, got %v", err)
		}
	})

	t.Run("unknown variant", func(t *testing.T) {
		if err := run(t, "validate", "--variant", "guest"); err == nil {
			t.Fatal("expected error for unknown variant")
		}
	})
}

func TestIssue(t *testing.T) {
	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "test.db"))
	out := t.TempDir()

	if err := run(t, "issue", "--name", "Asha Rao", "--pin", "mt-2026", "--mobile", "9876543210", "-o", out); err != nil {
		t.Fatalf("issue returned error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(out, "Maitri_Pass_mt-2026.pdf"))
	if err != nil {
		t.Fatalf("expected pass PDF: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Errorf("expected PDF header, got %q", data[:8])
	}

	if err := run(t, "issue", "--name", "Asha Rao", "--pin", "MT-2026", "--mobile", "9876543210", "-o", out); err == nil {
		t.Error("expected duplicate PIN to be rejected")
	}
}

func TestIssueRequiresPasscode(t *testing.T) {
	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "test.db"))

	err := run(t, "issue", "-v", "vip", "--name", "Dr. Rao", "--designation", "Chief Guest", "--mobile", "9876543210", "-o", t.TempDir())
	if err == nil {
		t.Fatal("expected gated variant to need a passcode")
	}
	if err := run(t, "issue", "-v", "vip", "--passcode", "MAITRIVIP26", "--name", "Dr. Rao", "--designation", "Chief Guest", "--mobile", "9876543210", "-o", t.TempDir()); err != nil {
		t.Fatalf("issue with passcode returned error: %v", err)
	}
}

func TestIssueRejectsMalformedMobile(t *testing.T) {
	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "test.db"))
	out := t.TempDir()

	err := run(t, "issue", "--name", "Asha Rao", "--pin", "mt-2026", "--mobile", "98765432101", "-o", out)
	if err == nil || !strings.Contains(err.Error(), "1 invalid field") {
		t.Fatalf("expected mobile to be rejected, got %v", err)
	}
	if entries, _ := os.ReadDir(out); len(entries) != 0 {
		t.Errorf("expected no pass written, got %d files", len(entries))
	}
}
