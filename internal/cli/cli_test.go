package cli

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/agbru/nbase/internal/service"
	"github.com/agbru/nbase/internal/testutil"
	"github.com/agbru/nbase/internal/ui"
	"github.com/agbru/nbase/pkg/nbase"
)

func TestMain(m *testing.M) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	os.Exit(m.Run())
}

// plain returns the contents of buf without escape codes.
func plain(buf *bytes.Buffer) string {
	return testutil.StripAnsiCodes(buf.String())
}

func newTestService(t *testing.T) *service.Evaluator {
	t.Helper()
	f, err := nbase.NewFactory()
	if err != nil {
		t.Fatalf("NewFactory() error = %v", err)
	}
	return service.NewEvaluator(f)
}

// MockSpinner records how it was driven.
type MockSpinner struct {
	mu      sync.Mutex
	started bool
	stopped bool
	suffix  string
}

func (m *MockSpinner) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = true
}

func (m *MockSpinner) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
}

func (m *MockSpinner) UpdateSuffix(suffix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suffix = suffix
}

func (m *MockSpinner) state() (started, stopped bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started, m.stopped
}
