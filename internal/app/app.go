// Package app wires the state cells and the CMS client into one explicitly
// owned context, so each process (or test) builds fresh instances.
package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/rcliao/site-glue/internal/cell"
	"github.com/rcliao/site-glue/internal/cms"
	"github.com/rcliao/site-glue/internal/model"
	"github.com/rcliao/site-glue/internal/store"
)

// Options configures New. Nil storage means the host has none.
type Options struct {
	Durable store.KV
	Session store.KV

	Endpoint       string
	Token          string
	PostCollection string
	Timeout        time.Duration
	HTTPClient     *http.Client

	Logger *slog.Logger
}

// App holds the site's client-side state and content access.
type App struct {
	ColorMode     *cell.Cell[model.ColorMode]
	StudentSignup *cell.Cell[model.SignupForm]
	PupilSignup   *cell.Cell[model.SignupForm]
	CMS           *cms.Client
}

// New builds the cells from storage and the CMS client from opts. It fails
// only when a stored signup form cannot be decoded.
func New(ctx context.Context, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	durable := opts.Durable
	if durable == nil {
		durable = store.Noop{}
	}
	session := opts.Session
	if session == nil {
		session = store.Noop{}
	}

	student, err := cell.NewSession(ctx, session, model.StudentSignupKey, model.SignupForm{}, logger)
	if err != nil {
		return nil, err
	}
	pupil, err := cell.NewSession(ctx, session, model.PupilSignupKey, model.SignupForm{}, logger)
	if err != nil {
		return nil, err
	}

	clientOpts := []cms.Option{
		cms.WithLogger(logger),
		cms.WithToken(opts.Token),
		cms.WithPostCollection(opts.PostCollection),
		cms.WithTimeout(opts.Timeout),
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, cms.WithHTTPClient(opts.HTTPClient))
	}

	return &App{
		ColorMode:     cell.NewColorMode(ctx, durable, logger),
		StudentSignup: student,
		PupilSignup:   pupil,
		CMS:           cms.New(opts.Endpoint, clientOpts...),
	}, nil
}

// SignupCell returns the session cell stored under name.
func (a *App) SignupCell(name string) (*cell.Cell[model.SignupForm], bool) {
	switch name {
	case model.StudentSignupKey:
		return a.StudentSignup, true
	case model.PupilSignupKey:
		return a.PupilSignup, true
	}
	return nil, false
}
