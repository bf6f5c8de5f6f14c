package main

import (
	"context"
	"errors"

	"github.com/jrsteele09/go-calendar-client/auth"
	apperrors "github.com/jrsteele09/go-calendar-client/internal/errors"
)

func (a *app) login(ctx context.Context, args []string) error {
	form := auth.LoginForm{}
	if len(args) > 0 {
		form.Email = args[0]
	}

	var err error
	if form.Email == "" {
		if form.Email, err = a.prompt("Email"); err != nil {
			return err
		}
	}
	if form.Password, err = a.promptPassword("Password"); err != nil {
		return err
	}

	reqCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.auth.ValidateLogin(reqCtx, form); err != nil {
		return err
	}

	_, err = a.auth.Login(reqCtx, form.Credentials())
	switch {
	case errors.Is(err, apperrors.ErrActivation):
		a.log.Warn().Err(err).Msg("Logged in, but the account could not be activated")
	case err != nil:
		a.log.Debug().Err(err).Msg("Login failed")
		return auth.LoginFailure(err)
	}

	a.printf("Logged in as %s\n", a.holder.Current().Email)
	return a.router.Navigate(routeRoot)
}

func (a *app) register(ctx context.Context, _ []string) error {
	var form auth.RegisterForm
	var err error
	if form.Email, err = a.prompt("Email"); err != nil {
		return err
	}
	if form.Username, err = a.prompt("Username"); err != nil {
		return err
	}
	if form.Password, err = a.promptPassword("Password"); err != nil {
		return err
	}
	if form.ConfirmPassword, err = a.promptPassword("Confirm password"); err != nil {
		return err
	}

	reqCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.auth.ValidateRegister(reqCtx, form); err != nil {
		return err
	}
	if _, err := a.auth.Register(reqCtx, form.Request()); err != nil {
		return err
	}

	a.printf("Account %s created, please log in\n", form.Email)
	return a.router.Navigate(routeLogin)
}

func (a *app) logout(ctx context.Context, _ []string) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.printf("Logged out\n")
	return nil
}

func (a *app) whoami(_ context.Context, _ []string) error {
	s := a.holder.Current()
	if s == nil {
		return apperrors.ErrNotAuthenticated
	}
	a.printf("%s (id %s), session valid until %s\n", s.Email, s.ID, s.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}
