package integration_tests

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"github.com/vk/tsbundler/internal/cli"
	"github.com/vk/tsbundler/internal/testutil"
)

var twoBundles = map[string]string{
	"/proj/web.hcl": `
		bundle "web" {
		  entry_module = "/web/main"
		  manifests    = ["build"]
		}
	`,
	"/proj/tool.hcl": `
		bundle "tool" {
		  entry_module = "/tool/main"
		  manifests    = ["build"]
		}
	`,
	"/proj/build/modules.json": `{"modules": {
		"/web/main":  {"code": "function (exports) { exports.main = function () { return 'web'; }; }"},
		"/tool/main": {"code": "function (exports) { exports.main = function () { return 'tool'; }; }"}
	}}`,
}

// Test for: a bundle is chosen by name when the project defines several
func TestCLI_BundleFlag_SelectsBundle(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	appConfig, _, err := cli.Parse([]string{"-b", "tool", "-run", "/proj"}, &bytes.Buffer{})
	require.NoError(t, err)

	// --- Act ---
	result := testutil.RunIntegrationTest(t, twoBundles, *appConfig)

	// --- Assert ---
	require.NoError(t, result.Err)
	require.Contains(t, result.Output, "Wrote /proj/dist/tool.js (1 modules)")
	require.Contains(t, result.Output, "Entry point /tool/main#main returned: tool")

	exists, err := afero.Exists(result.FS, "/proj/dist/web.js")
	require.NoError(t, err)
	require.False(t, exists, "only the selected bundle is written")
}

// Test for: an ambiguous selection is rejected
func TestCLI_NoBundleFlag_IsAmbiguous(t *testing.T) {
	t.Parallel()

	appConfig, _, err := cli.Parse([]string{"/proj"}, &bytes.Buffer{})
	require.NoError(t, err)

	result := testutil.RunIntegrationTest(t, twoBundles, *appConfig)

	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "project defines 2 bundles [tool web]; choose one by name")
}
