package sysexec

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func TestRealRunner_Run(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	r := NewRealRunner()

	t.Run("captures stdout", func(t *testing.T) {
		out, err := r.Run(context.Background(), "sh", "-c", "echo BootOrder: 0001")
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if strings.TrimSpace(string(out)) != "BootOrder: 0001" {
			t.Errorf("unexpected output: %q", out)
		}
	})

	t.Run("includes stderr in error", func(t *testing.T) {
		_, err := r.Run(context.Background(), "sh", "-c", "echo no efivars >&2; exit 2")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "no efivars") {
			t.Errorf("error should mention stderr: %v", err)
		}
	})

	t.Run("missing binary", func(t *testing.T) {
		_, err := r.Run(context.Background(), "definitely-not-a-real-binary-pxefirst")
		if err == nil {
			t.Fatal("expected error for missing binary")
		}
	})
}

func TestFakeRunner(t *testing.T) {
	r := NewFakeRunner()
	boom := errors.New("boom")
	r.On("efibootmgr -o 0001", "", boom)
	r.On("efibootmgr -o 0001", "ok", nil)

	ctx := context.Background()

	if _, err := r.Run(ctx, "efibootmgr", "-o", "0001"); !errors.Is(err, boom) {
		t.Errorf("first call error = %v, want boom", err)
	}
	out, err := r.Run(ctx, "efibootmgr", "-o", "0001")
	if err != nil || string(out) != "ok" {
		t.Errorf("second call = %q, %v", out, err)
	}
	// last response repeats
	out, _ = r.Run(ctx, "efibootmgr", "-o", "0001")
	if string(out) != "ok" {
		t.Errorf("third call = %q, want ok", out)
	}

	if out, err := r.Run(ctx, "systemctl", "daemon-reload"); err != nil || out != nil {
		t.Errorf("unscripted call = %q, %v", out, err)
	}

	if got := r.CallCount("efibootmgr -o 0001"); got != 3 {
		t.Errorf("CallCount = %d, want 3", got)
	}
	if got := len(r.Calls()); got != 4 {
		t.Errorf("len(Calls()) = %d, want 4", got)
	}
	if got := r.Calls()[3].String(); got != "systemctl daemon-reload" {
		t.Errorf("Calls()[3] = %q", got)
	}
}

func TestFakeRunner_CanceledContext(t *testing.T) {
	r := NewFakeRunner()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Run(ctx, "efibootmgr"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
