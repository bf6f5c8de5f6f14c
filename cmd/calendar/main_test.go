package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/go-calendar-client/calendar"
	"github.com/jrsteele09/go-calendar-client/internal/config"
	"github.com/jrsteele09/go-calendar-client/internal/testfixtures"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRouteFor(t *testing.T) {
	path, rest, err := routeFor([]string{"events", "delete", "3"})
	require.NoError(t, err)
	require.Equal(t, routeEvents, path)
	require.Equal(t, []string{"delete", "3"}, rest)

	_, _, err = routeFor([]string{"bogus"})
	require.Error(t, err)
}

func TestDayCell(t *testing.T) {
	d := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "  5*", dayCell(calendar.Day{Date: d, IsCurrentMonth: true}, true))
	require.Equal(t, "  5 ", dayCell(calendar.Day{Date: d, IsCurrentMonth: true}, false))
	require.Equal(t, "[ 5]", dayCell(calendar.Day{Date: d, IsCurrentMonth: true, IsToday: true}, true))
	require.Equal(t, "( 5)", dayCell(calendar.Day{Date: d}, false))
}

func setupApp(t *testing.T, api *testfixtures.API, stdin string) (*app, *bytes.Buffer) {
	t.Helper()
	t.Setenv("WEEK_START", "monday")
	t.Setenv("TZ", "UTC")

	var out bytes.Buffer
	cfg := settings{Config: config.New(), apiURL: api.URL, store: config.StoreMemory}
	a, err := newApp(context.Background(), cfg, strings.NewReader(stdin), &out, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a, &out
}

func TestApp_LoginThenEvents(t *testing.T) {
	ctx := context.Background()
	api := testfixtures.NewAPIServer(t, testfixtures.NewClock(time.Now().Truncate(time.Second)))
	api.CreateUser(t, "ann@example.com", "ann", "password1", false)

	a, out := setupApp(t, api, "ann@example.com\npassword1\n")

	// anonymous users are sent to the login route, then home to the month view
	require.NoError(t, a.router.Dispatch(ctx, routeEvents, []string{"list"}))
	require.Equal(t, routeRoot, a.router.Current())
	require.True(t, a.holder.IsAuthenticated())
	require.Contains(t, out.String(), "Logged in as ann@example.com")
	require.Contains(t, out.String(), a.generator.Today().Title())

	out.Reset()
	require.NoError(t, a.router.Dispatch(ctx, routeEvents, []string{"add", "-title", "Standup", "-start", "2024-03-13 09:00", "-repeat", "weekly"}))
	require.Contains(t, out.String(), "Created event 1: Standup")

	out.Reset()
	require.NoError(t, a.router.Dispatch(ctx, routeEvents, []string{"list", "2024-03-20"}))
	require.Contains(t, out.String(), "Standup")
	require.Contains(t, out.String(), "weekly")

	out.Reset()
	require.NoError(t, a.router.Dispatch(ctx, routeEvents, []string{"delete", "1"}))
	require.Contains(t, out.String(), "Deleted event 1")

	out.Reset()
	require.NoError(t, a.router.Dispatch(ctx, routeLogin, nil))
	require.Equal(t, routeRoot, a.router.Current(), "logged in users skip the login route")

	require.NoError(t, a.router.Dispatch(ctx, routeLogout, nil))
	require.False(t, a.holder.IsAuthenticated())
}

func TestApp_LoginValidation(t *testing.T) {
	api := testfixtures.NewAPIServer(t, testfixtures.NewClock(time.Now().Truncate(time.Second)))
	a, _ := setupApp(t, api, "nobody@example.com\npassword1\n")

	err := a.router.Dispatch(context.Background(), routeLogin, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Email does not exists")
	require.False(t, a.holder.IsAuthenticated())
}
