package runtime

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/tsbundler/internal/bundle"
	"github.com/vk/tsbundler/internal/ctxlog"
)

func TestWithLogger(t *testing.T) {
	defs := []bundle.Definition{
		{Name: "/main", Code: `function (exports) { exports.main = function () { return 1; }; }`},
	}

	t.Run("product before launch logs through the option", func(t *testing.T) {
		// --- Arrange ---
		out := &bytes.Buffer{}
		logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
		l := newTestLoader(t, goja.New(), defs, entry("/main", "main"), WithLogger(logger))

		// --- Act ---
		_, err := l.Product("/main")

		// --- Assert ---
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Product: Module resolved.")
		assert.Contains(t, out.String(), "loader_id="+l.ID())
	})

	t.Run("launch keeps the option over the context logger", func(t *testing.T) {
		own, fromCtx := &bytes.Buffer{}, &bytes.Buffer{}
		opts := &slog.HandlerOptions{Level: slog.LevelDebug}
		ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(fromCtx, opts)))
		l := newTestLoader(t, goja.New(), defs, entry("/main", "main"),
			WithLogger(slog.New(slog.NewTextHandler(own, opts))))

		_, err := l.Launch(ctx)

		require.NoError(t, err)
		assert.Contains(t, own.String(), "Launch: Starting bundle execution.")
		assert.Empty(t, fromCtx.String())
	})

	t.Run("without the option launch adopts the context logger", func(t *testing.T) {
		fromCtx := &bytes.Buffer{}
		ctx := ctxlog.WithLogger(context.Background(),
			slog.New(slog.NewTextHandler(fromCtx, &slog.HandlerOptions{Level: slog.LevelDebug})))
		l := newTestLoader(t, goja.New(), defs, entry("/main", "main"))

		_, err := l.Launch(ctx)

		require.NoError(t, err)
		assert.Contains(t, fromCtx.String(), "Launch: Starting bundle execution.")
	})
}
