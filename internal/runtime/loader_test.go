package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/tsbundler/internal/bundle"
)

// testVM returns a VM with a global hit(name) function counting module runs.
func testVM(t *testing.T) (*goja.Runtime, map[string]int) {
	t.Helper()
	vm := goja.New()
	hits := make(map[string]int)
	require.NoError(t, vm.Set("hit", func(name string) { hits[name]++ }))
	return vm, hits
}

func full(exports ...string) *bundle.Metadata {
	if exports == nil {
		exports = []string{}
	}
	return &bundle.Metadata{Exports: exports}
}

func entry(module, function string) bundle.Params {
	return bundle.Params{EntryPoint: bundle.EntryPoint{Module: module, Function: function}}
}

func newTestLoader(t *testing.T, vm *goja.Runtime, defs []bundle.Definition, params bundle.Params, opts ...Option) *Loader {
	t.Helper()
	l, err := New(vm, defs, params, opts...)
	require.NoError(t, err)
	return l
}

func TestLaunch_MutualImportsWithDeferredAccess(t *testing.T) {
	// --- Arrange ---
	vm, hits := testVM(t)
	defs := []bundle.Definition{
		{
			Name:         "/a",
			Dependencies: []string{"/b"},
			Meta:         full("getBVal", "main"),
			Code: `function (exports, b) {
				hit("/a");
				exports.getBVal = function () { return b.val; };
				exports.main = function () { return exports.getBVal(); };
			}`,
		},
		{
			Name:         "/b",
			Dependencies: []string{"/a"},
			Meta:         full("getA", "val"),
			Code: `function (exports, a) {
				hit("/b");
				exports.val = 10;
				exports.getA = function () { return a.getBVal(); };
			}`,
		},
	}
	l := newTestLoader(t, vm, defs, entry("/a", "main"))

	// --- Act ---
	result, err := l.Launch(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, int64(10), result.ToInteger())
	assert.Equal(t, map[string]int{"/a": 1, "/b": 1}, hits)

	b, err := l.Product("/b")
	require.NoError(t, err)
	getA, ok := goja.AssertFunction(b.(*goja.Object).Get("getA"))
	require.True(t, ok)
	v, err := getA(goja.Undefined())
	require.NoError(t, err)
	assert.Equal(t, int64(10), v.ToInteger(), "B reaches A through its proxy")
	assert.Equal(t, map[string]int{"/a": 1, "/b": 1}, hits, "no module runs twice")
}

func TestProduct_TopLevelCycleAccess(t *testing.T) {
	vm, _ := testVM(t)
	defs := []bundle.Definition{
		{Name: "/x", Dependencies: []string{"/y"}, Meta: full("v"), Code: "function (exports, y) { exports.v = y.w; }"},
		{Name: "/y", Dependencies: []string{"/x"}, Meta: full("w"), Code: "function (exports, x) { exports.w = x.v; }"},
	}
	l := newTestLoader(t, vm, defs, entry("/x", "main"))

	_, err := l.Product("/x")

	var cycle *CycleError
	require.True(t, errors.As(err, &cycle), "got %v", err)
	assert.Equal(t, []string{"/x", "/y", "/x"}, cycle.Chain)
	assert.Contains(t, err.Error(), "/x -> /y -> /x")
	assert.False(t, l.Resolved("/x"))
	assert.False(t, l.Resolved("/y"))
}

func TestProduct_ModuleRunsAtMostOnce(t *testing.T) {
	vm, hits := testVM(t)
	defs := []bundle.Definition{
		{Name: "/shared", Code: `function (exports) { hit("/shared"); exports.n = 1; }`},
		{Name: "/left", Dependencies: []string{"/shared"}, Code: "function (exports, s) { exports.n = s.n; }"},
		{Name: "/right", Dependencies: []string{"/shared"}, Code: "function (exports, s) { exports.n = s.n; }"},
	}
	l := newTestLoader(t, vm, defs, bundle.Params{})

	first, err := l.Product("/shared")
	require.NoError(t, err)
	_, err = l.Product("/left")
	require.NoError(t, err)
	_, err = l.Product("/right")
	require.NoError(t, err)
	again, err := l.Product("/shared")
	require.NoError(t, err)

	assert.Equal(t, 1, hits["/shared"])
	assert.Same(t, first.(*goja.Object), again.(*goja.Object))
}

func TestProduct_ArbitraryTypeIsReturnedValue(t *testing.T) {
	vm, _ := testVM(t)
	defs := []bundle.Definition{
		{
			Name: "/value",
			Meta: &bundle.Metadata{ArbitraryType: true},
			Code: `function (exports) { exports.ignored = true; return "returned"; }`,
		},
	}
	l := newTestLoader(t, vm, defs, bundle.Params{})

	product, err := l.Product("/value")

	require.NoError(t, err)
	assert.Equal(t, "returned", product.String())
}

func TestProduct_ArbitraryTypeWithExportsIsNotProxied(t *testing.T) {
	vm, hits := testVM(t)
	defs := []bundle.Definition{
		{Name: "/user", Dependencies: []string{"/fn"}, Code: `function (exports, fn) { exports.v = fn(); }`},
		{
			Name: "/fn",
			Meta: &bundle.Metadata{Exports: []string{}, ArbitraryType: true},
			Code: `function () { hit("/fn"); return function () { return 7; }; }`,
		},
	}
	l := newTestLoader(t, vm, defs, bundle.Params{})

	product, err := l.Product("/user")

	require.NoError(t, err)
	assert.Equal(t, int64(7), product.(*goja.Object).Get("v").ToInteger())
	assert.Equal(t, 1, hits["/fn"])
}

func TestProduct_AltName(t *testing.T) {
	vm, _ := testVM(t)
	defs := []bundle.Definition{
		{Name: "/main", Dependencies: []string{"lib"}, Code: "function (exports, lib) { exports.name = lib.name; }"},
		{Name: "/node_modules/lib/index", Meta: &bundle.Metadata{AltName: "lib"}, Code: `function (exports) { exports.name = "lib"; }`},
	}
	l := newTestLoader(t, vm, defs, bundle.Params{})

	product, err := l.Product("/main")
	require.NoError(t, err)

	assert.Equal(t, "lib", product.(*goja.Object).Get("name").String())
	assert.True(t, l.Resolved("lib"))
	assert.True(t, l.Resolved("/node_modules/lib/index"))
	assert.Empty(t, l.Externals())
}

func TestProduct_MissingDefinition(t *testing.T) {
	vm, _ := testVM(t)
	l := newTestLoader(t, vm, []bundle.Definition{{Name: "/a", Code: "function () {}"}}, bundle.Params{})

	_, err := l.Product("/nope")

	var missing *MissingDefinitionError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "/nope", missing.Module)
}

func TestProduct_ModuleThrows(t *testing.T) {
	vm, _ := testVM(t)
	defs := []bundle.Definition{
		{Name: "/boom", Code: `function () { throw new Error("kaboom"); }`},
	}
	l := newTestLoader(t, vm, defs, bundle.Params{})

	_, err := l.Product("/boom")

	require.Error(t, err)
	var exc *goja.Exception
	assert.True(t, errors.As(err, &exc))
	assert.Contains(t, err.Error(), `"/boom"`)
	assert.Contains(t, err.Error(), "kaboom")
	assert.False(t, l.Resolved("/boom"))
}

func TestProduct_CodeIsNotAFunction(t *testing.T) {
	vm, _ := testVM(t)
	require.NoError(t, vm.Set("console", map[string]any{"log": func(...any) {}}))
	l := newTestLoader(t, vm, []bundle.Definition{{Name: "/a", Code: "console.log(1)"}}, bundle.Params{})

	_, err := l.Product("/a")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a function")
}

func TestNew_DuplicateDefinition(t *testing.T) {
	_, err := New(goja.New(), []bundle.Definition{
		{Name: "/a", Code: "function () {}"},
		{Name: "/a", Code: "function () {}"},
	}, bundle.Params{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"/a"`)
}

func TestLoaders_AreIndependent(t *testing.T) {
	vm, hits := testVM(t)
	defs := []bundle.Definition{{Name: "/a", Code: `function (exports) { hit("/a"); }`}}

	first := newTestLoader(t, vm, defs, bundle.Params{})
	second := newTestLoader(t, vm, defs, bundle.Params{})
	_, err := first.Product("/a")
	require.NoError(t, err)
	_, err = second.Product("/a")
	require.NoError(t, err)

	assert.Equal(t, 2, hits["/a"])
	assert.NotEqual(t, first.ID(), second.ID())
}
