package app

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/sheetcalc/internal/loader"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// setupAppTest writes a sheet file and returns an app configured to
// evaluate it, plus buffers capturing results and logs.
func setupAppTest(t *testing.T, name, content string, mutate func(*Config)) (*App, *bytes.Buffer, *SafeBuffer) {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	base := DefaultConfig()
	base.SheetPath = path
	base.LogLevel = "debug"
	base.Output = OutputPlain
	if mutate != nil {
		mutate(&base)
	}
	cfg, err := NewConfig(base)
	require.NoError(t, err)

	outBuf := &bytes.Buffer{}
	logBuf := &SafeBuffer{}
	testApp, err := NewApp(outBuf, logBuf, cfg, loader.New())
	require.NoError(t, err)

	t.Cleanup(func() {
		if os.Getenv("SHEETCALC_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuf.String())
		}
	})
	return testApp, outBuf, logBuf
}
