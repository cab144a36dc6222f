// Package testutil provides the harness shared by the integration tests.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/sheetcalc/internal/app"
	"github.com/vk/sheetcalc/internal/loader"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	// Lines is the plain rendering of the sheet, one "ADDR: VALUE" per cell.
	Lines     []string
	LogOutput string
	Err       error
}

// RunIntegrationTest writes a sheet file called name with the given content
// to a temporary directory, evaluates it with plain output and debug logs,
// and returns what happened. mutate may adjust the configuration first.
func RunIntegrationTest(t *testing.T, name, content string, mutate func(*app.Config)) *HarnessResult {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	base := app.DefaultConfig()
	base.SheetPath = path
	base.Output = app.OutputPlain
	base.LogLevel = "debug"
	base.LogFormat = "text"
	if mutate != nil {
		mutate(&base)
	}
	cfg, err := app.NewConfig(base)
	require.NoError(t, err)

	outBuf := &bytes.Buffer{}
	logBuf := &SafeBuffer{}
	testApp, err := app.NewApp(outBuf, logBuf, cfg, loader.New())
	require.NoError(t, err)

	runErr := testApp.Run(context.Background())

	t.Cleanup(func() {
		if os.Getenv("SHEETCALC_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuf.String())
		}
	})

	var lines []string
	if out := strings.TrimSuffix(outBuf.String(), "\n"); out != "" {
		lines = strings.Split(out, "\n")
	}
	return &HarnessResult{Lines: lines, LogOutput: logBuf.String(), Err: runErr}
}
