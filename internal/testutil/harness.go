package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"github.com/vk/tsbundler/internal/app"
	"github.com/vk/tsbundler/internal/hcl_adapter"
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
	Output string
	Err    error
	App    *app.App
	FS     afero.Fs
}

// ReadFile returns the content of a file the run produced.
func (r *HarnessResult) ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := afero.ReadFile(r.FS, path)
	require.NoError(t, err)
	return string(data)
}

// RunIntegrationTest provides a standardized harness for running integration
// tests using a default background context.
func RunIntegrationTest(t *testing.T, files map[string]string, appConfig app.Config) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, appConfig)
}

// RunIntegrationTestWithContext writes files to an in-memory filesystem,
// builds the app over it and runs it. Startup panics are returned as errors.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, appConfig app.Config) *HarnessResult {
	t.Helper()

	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}

	if appConfig.LogLevel == "" {
		appConfig.LogLevel = "debug"
	}
	if appConfig.LogFormat == "" {
		appConfig.LogFormat = "text"
	}

	out := &SafeBuffer{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(out, &appConfig, hcl_adapter.NewLoader(fs), fs)
	}()

	if panicErr != nil {
		return &HarnessResult{
			Output: out.String(),
			Err:    fmt.Errorf("application startup panicked | %v", panicErr),
			FS:     fs,
		}
	}

	runErr := testApp.Run(ctx, &appConfig)

	if os.Getenv("TSB_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), out.String())
	}

	return &HarnessResult{
		Output: out.String(),
		Err:    runErr,
		App:    testApp,
		FS:     fs,
	}
}
