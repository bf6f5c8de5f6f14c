package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// prompt reads one line after printing label.
func (a *app) prompt(label string) (string, error) {
	a.printf("%s: ", label)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads without echo when stdin is a terminal.
func (a *app) promptPassword(label string) (string, error) {
	f, ok := a.stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return a.prompt(label)
	}

	a.printf("%s: ", label)
	secret, err := term.ReadPassword(int(f.Fd()))
	a.printf("\n")
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return string(secret), nil
}
