package integration_tests

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/tsbundler/internal/app"
	"github.com/vk/tsbundler/internal/dag"
	"github.com/vk/tsbundler/internal/registry"
	"github.com/vk/tsbundler/internal/testutil"
)

// Test for: a failed build never writes the output file
func TestErrorHandling_BuildFailures(t *testing.T) {
	t.Parallel()

	hcl := `
		bundle "app" {
		  entry_module = "/src/main"
		  manifests    = ["build"]
		}
	`

	testCases := []struct {
		name     string
		manifest string
		check    func(t *testing.T, err error)
	}{
		{
			name:     "entry module is not in any manifest",
			manifest: `{"modules": {"/src/other": {"code": "function (exports) {}"}}}`,
			check: func(t *testing.T, err error) {
				var notFound *dag.EntryNotFoundError
				require.True(t, errors.As(err, &notFound), "got %v", err)
				assert.Equal(t, "/src/main", notFound.Module)
			},
		},
		{
			name: "export-star references loop",
			manifest: `{"modules": {
				"/src/main": {"dependencies": ["/src/p"], "exportModuleReferences": ["/src/p"], "code": "function (exports, p) {}"},
				"/src/p": {"dependencies": ["/src/main"], "exportModuleReferences": ["/src/main"], "code": "function (exports, m) {}"}
			}}`,
			check: func(t *testing.T, err error) {
				var cycleErr *dag.ReexportCycleError
				require.True(t, errors.As(err, &cycleErr), "got %v", err)
				assert.Equal(t, []string{"/src/main", "/src/p", "/src/main"}, cycleErr.Chain)
			},
		},
		{
			name: "alt name collides with a module name",
			manifest: `{"modules": {
				"/src/main": {"code": "function (exports) {}"},
				"/src/lib": {"altName": "/src/main", "code": "function (exports) {}"}
			}}`,
			check: func(t *testing.T, err error) {
				var dup *registry.DuplicateModuleError
				require.True(t, errors.As(err, &dup), "got %v", err)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			files := map[string]string{"/proj/bundle.hcl": hcl, "/proj/build/modules.json": tc.manifest}

			// --- Act ---
			result := testutil.RunIntegrationTest(t, files, app.Config{ConfigPath: "/proj"})

			// --- Assert ---
			require.Error(t, result.Err)
			tc.check(t, result.Err)
			exists, err := afero.Exists(result.FS, "/proj/dist/app.js")
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}
