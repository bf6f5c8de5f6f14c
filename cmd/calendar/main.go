package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-calendar-client/internal/config"
	apperrors "github.com/jrsteele09/go-calendar-client/internal/errors"
	"github.com/jrsteele09/go-calendar-client/internal/router"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `usage: calendar [flags] <command> [args]

commands:
  login [email]                 log in (prompts for anything missing)
  register                      create an account, then log in
  logout                        forget the stored session
  whoami                        show the logged in account
  month [YYYY-MM|next|prev]     show a month grid with event markers
  events list [YYYY-MM-DD]      list events, optionally for one day
  events add -title ... -start ... [-end ...] [-repeat daily|weekly|monthly] [-until ...]
  events delete <id>

flags:
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := flag.NewFlagSet("calendar", flag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprint(flags.Output(), usage)
		flags.PrintDefaults()
	}
	verbose := flags.Bool("v", false, "log debug output")
	noBanner := flags.Bool("no-banner", false, "do not print the banner")
	apiURL := flags.String("api", "", "calendar API base URL (overrides API_URL)")
	store := flags.String("store", "", "session store: sqlite, redis or memory (overrides TOKEN_STORE)")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).Level(level)

	if flags.NArg() == 0 {
		flags.Usage()
		return 2
	}

	cfg := settings{Config: config.New(), apiURL: *apiURL, store: *store}
	if !*noBanner {
		displayAppname(cfg.GetAppName())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, os.Stdin, os.Stdout, log.Logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "calendar:", err)
		return 1
	}
	defer a.Close()

	path, rest, err := routeFor(flags.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, "calendar:", err)
		flags.Usage()
		return 2
	}

	if err := a.router.Dispatch(ctx, path, rest); err != nil {
		reportError(err)
		return 1
	}
	return 0
}

// settings lets command line flags override the environment.
type settings struct {
	config.Config
	apiURL string
	store  string
}

func (s settings) GetAPIURL() string {
	if s.apiURL != "" {
		return s.apiURL
	}
	return s.Config.GetAPIURL()
}

func (s settings) GetTokenStore() string {
	if s.store != "" {
		return s.store
	}
	return s.Config.GetTokenStore()
}

func reportError(err error) {
	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		fmt.Fprintln(os.Stderr, "calendar: please fix the following:")
		for field, fe := range verr.Fields {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, fe.Message)
		}
	case apperrors.IsUnauthorized(err):
		fmt.Fprintln(os.Stderr, "calendar: your session is no longer valid, please log in again")
	case errors.Is(err, router.ErrRouteBlocked):
		fmt.Fprintln(os.Stderr, "calendar: not allowed right now")
	default:
		fmt.Fprintln(os.Stderr, "calendar:", err)
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
