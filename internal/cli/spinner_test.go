package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// captureUI redirects status output to a buffer for the duration of the test.
func captureUI(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := uiOut
	uiOut = &buf
	t.Cleanup(func() { uiOut = old })
	return &buf
}

func TestSpinnerDrawsFrames(t *testing.T) {
	buf := captureUI(t)

	s := newSpinner("Analyzing modules.yaml...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(buf.String(), "Analyzing modules.yaml...") {
		t.Errorf("spinner output = %q, want message", buf.String())
	}
}

func TestSpinnerWithContext(t *testing.T) {
	captureUI(t)
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Testing with context...")
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	captureUI(t)

	s := newSpinner("Testing idempotent stop...")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpin(t *testing.T) {
	buf := captureUI(t)

	if err := spin(context.Background(), "Rendering...", "Rendered diagram", func() error { return nil }); err != nil {
		t.Fatalf("spin() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Rendered diagram") {
		t.Errorf("output = %q, want success message", buf.String())
	}

	buf.Reset()
	boom := errors.New("boom")
	if err := spin(context.Background(), "Rendering", "", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("spin() error = %v, want %v", err, boom)
	}
	if !strings.Contains(buf.String(), "Rendering failed") {
		t.Errorf("output = %q, want failure message", buf.String())
	}
}

func TestPrintValidation(t *testing.T) {
	tests := []struct {
		name     string
		valid    bool
		errs     []string
		warnings []string
		want     []string
	}{
		{"clean", true, nil, nil, []string{"Registry is valid"}},
		{"warnings only", true, nil, []string{"1 isolated module(s): docs"}, []string{"isolated", "valid with 1 warnings"}},
		{"errors", false, []string{`module "A" references unknown module "Z" (imports)`}, nil, []string{`unknown module "Z"`, "invalid: 1 errors, 0 warnings"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureUI(t)
			printValidation(tt.valid, tt.errs, tt.warnings)
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output = %q, want %q", buf.String(), w)
				}
			}
		})
	}
}
