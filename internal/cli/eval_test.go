package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	apperrors "github.com/agbru/nbase/internal/errors"
	"github.com/agbru/nbase/internal/service"
	"github.com/agbru/nbase/pkg/models"
)

func TestRunEval(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	tests := []struct {
		name     string
		req      service.Request
		opts     EvalOptions
		wantCode int
		wantOut  string
		wantErr  string
	}{
		{
			name:     "success",
			req:      service.Request{Op: "mul", Args: []string{"15", "15"}, Base: 16},
			wantCode: apperrors.ExitSuccess,
			wantOut:  "1B9\n",
		},
		{
			name:     "division by zero",
			req:      service.Request{Op: "div", Args: []string{"1", "0"}},
			wantCode: apperrors.ExitErrorArithmetic,
			wantErr:  "Status: Arithmetic error.",
		},
		{
			name:     "bad symbol",
			req:      service.Request{Op: "neg", Args: []string{"12x"}},
			wantCode: apperrors.ExitErrorInput,
			wantErr:  "Status: Invalid input.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out, errOut bytes.Buffer
			code := RunEval(context.Background(), svc, tt.req, tt.opts, &out, &errOut)
			if code != tt.wantCode {
				t.Errorf("RunEval() = %d, want %d (stderr %q)", code, tt.wantCode, errOut.String())
			}
			if tt.wantOut != "" && plain(&out) != tt.wantOut {
				t.Errorf("stdout = %q, want %q", plain(&out), tt.wantOut)
			}
			if tt.wantErr != "" && !strings.Contains(plain(&errOut), tt.wantErr) {
				t.Errorf("stderr = %q, want %q", plain(&errOut), tt.wantErr)
			}
		})
	}
}

func TestRunEvalJSONError(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	var out, errOut bytes.Buffer

	code := RunEval(context.Background(), svc, service.Request{Op: "mod", Args: []string{"5", "0"}},
		EvalOptions{OutputConfig: OutputConfig{JSON: true}}, &out, &errOut)
	if code != apperrors.ExitErrorArithmetic {
		t.Errorf("RunEval() = %d, want %d", code, apperrors.ExitErrorArithmetic)
	}
	var resp models.ErrorResponse
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON %q: %v", out.String(), err)
	}
	if resp.Kind != "division_by_zero" {
		t.Errorf("kind = %q, want division_by_zero", resp.Kind)
	}
}

func TestRunEvalCanceled(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out, errOut bytes.Buffer
	code := RunEval(ctx, svc, service.Request{Op: "add", Args: []string{"1", "1"}}, EvalOptions{}, &out, &errOut)
	if code != apperrors.ExitErrorCanceled {
		t.Errorf("RunEval() = %d, want %d", code, apperrors.ExitErrorCanceled)
	}
}
