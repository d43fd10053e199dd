package cell

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rcliao/site-glue/internal/model"
	"github.com/rcliao/site-glue/internal/store"
)

// ErrDecode is returned when a stored session value is not valid JSON for
// the cell's type.
var ErrDecode = errors.New("decode stored value")

// NewColorMode returns the display preference cell. It starts from the mode
// stored under model.ColorModeKey when that is valid, otherwise from the
// default, and writes every value back as a plain string.
func NewColorMode(ctx context.Context, kv store.KV, logger *slog.Logger) *Cell[model.ColorMode] {
	if kv == nil {
		kv = store.Noop{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	initial := model.DefaultColorMode
	raw, err := kv.Get(ctx, model.ColorModeKey)
	switch {
	case err == nil:
		if m, perr := model.ParseColorMode(raw); perr == nil {
			initial = m
		} else {
			logger.Warn("ignoring stored color mode", slog.String("value", raw))
		}
	case !errors.Is(err, store.ErrNotFound):
		logger.Warn("read color mode", slog.Any("error", err))
	}

	c := New(initial)
	writeCtx := context.WithoutCancel(ctx)
	c.Subscribe(func(m model.ColorMode) {
		if err := kv.Set(writeCtx, model.ColorModeKey, string(m)); err != nil {
			logger.Error("persist color mode", slog.String("mode", string(m)), slog.Any("error", err))
		}
	})
	return c
}

// NewSession returns a cell mirrored as JSON under name. A stored value
// seeds the cell; otherwise def is used unchanged. A stored value that does
// not decode is an error wrapping ErrDecode.
func NewSession[T any](ctx context.Context, kv store.KV, name string, def T, logger *slog.Logger) (*Cell[T], error) {
	if kv == nil {
		kv = store.Noop{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	initial := def
	raw, err := kv.Get(ctx, name)
	switch {
	case err == nil && raw != "":
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("session %s: %w: %v", name, ErrDecode, err)
		}
		initial = v
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("session %s: %w", name, err)
	}

	c := New(initial)
	writeCtx := context.WithoutCancel(ctx)
	c.Subscribe(func(v T) {
		b, err := json.Marshal(v)
		if err != nil {
			logger.Error("encode session value", slog.String("name", name), slog.Any("error", err))
			return
		}
		if err := kv.Set(writeCtx, name, string(b)); err != nil {
			logger.Error("persist session value", slog.String("name", name), slog.Any("error", err))
		}
	})
	return c, nil
}
