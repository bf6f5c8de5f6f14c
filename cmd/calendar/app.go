package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/jrsteele09/go-calendar-client/auth"
	"github.com/jrsteele09/go-calendar-client/calendar"
	"github.com/jrsteele09/go-calendar-client/events"
	"github.com/jrsteele09/go-calendar-client/httpclient"
	"github.com/jrsteele09/go-calendar-client/internal/config"
	"github.com/jrsteele09/go-calendar-client/internal/router"
	"github.com/jrsteele09/go-calendar-client/sessions"
	"github.com/rs/zerolog"
)

type app struct {
	cfg       config.Config
	holder    *sessions.Holder
	auth      *auth.Client
	events    *events.Client
	generator *calendar.Generator
	router    *router.Router
	in        *bufio.Reader
	stdin     io.Reader
	out       io.Writer
	log       zerolog.Logger
	close     func() error
}

func newApp(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer, logger zerolog.Logger) (*app, error) {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	holder := sessions.NewHolder(store, sessions.WithLogger(logger))
	holder.Subscribe(func(s sessions.State) {
		if s.Authenticated {
			logger.Debug().Object("session", s.Session).Msg("Authenticated")
			return
		}
		logger.Debug().Msg("Anonymous")
	})
	if err := holder.Restore(ctx); err != nil {
		closeStore()
		return nil, fmt.Errorf("restore session: %w", err)
	}

	transport := httpclient.Chain(http.DefaultTransport,
		httpclient.RequestID(logger),
		httpclient.Auth(holder, logger),
	)
	api, err := httpclient.New(cfg.GetAPIURL(), httpclient.WithTransport(transport), httpclient.WithLogger(logger))
	if err != nil {
		closeStore()
		return nil, err
	}

	authClient, err := auth.NewClient(api, holder, auth.WithLogger(logger))
	if err != nil {
		closeStore()
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		holder: holder,
		auth:   authClient,
		events: events.NewClient(api, events.WithLogger(logger)),
		generator: calendar.NewGenerator(
			calendar.WithWeekStart(cfg.GetWeekStart()),
			calendar.WithLocation(cfg.GetLocation()),
		),
		router: router.New(router.WithLogger(logger)),
		in:     bufio.NewReader(in),
		stdin:  in,
		out:    out,
		log:    logger,
		close:  closeStore,
	}
	a.registerRoutes()
	return a, nil
}

// withTimeout bounds a single API call by the configured request timeout.
func (a *app) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d := a.cfg.GetRequestTimeout(); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *app) Close() error {
	return a.close()
}
