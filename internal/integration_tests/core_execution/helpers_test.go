package integration_tests

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/tsbundler/internal/bundle"
	"github.com/vk/tsbundler/internal/testutil"
)

// project returns the files of a single-bundle project rooted at /proj with
// manifest as its only manifest.
func project(entry, extraAttrs, manifest string) map[string]string {
	return map[string]string{
		"/proj/bundle.hcl": `
			bundle "app" {
			  entry_module = "` + entry + `"
			  manifests    = ["build/modules.json"]
			  ` + extraAttrs + `
			}
		`,
		"/proj/build/modules.json": manifest,
	}
}

// writtenBundle parses the bundle the run wrote to the default output path.
func writtenBundle(t *testing.T, result *testutil.HarnessResult) *bundle.Encoded {
	t.Helper()
	enc, err := bundle.Parse(result.ReadFile(t, "/proj/dist/app.js"))
	require.NoError(t, err)
	return enc
}

func definitionNames(enc *bundle.Encoded) []string {
	names := make([]string, len(enc.Definitions))
	for i, def := range enc.Definitions {
		names[i] = def.Name
	}
	return names
}

// linesMatching returns the log messages containing marker, in output order.
func linesMatching(output, marker string) []string {
	var found []string
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, marker) {
			found = append(found, line)
		}
	}
	return found
}
