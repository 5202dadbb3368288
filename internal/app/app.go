// Package app is the SuiteKeep app core: it owns the invitation confirmation
// flow and the command bus, and drives both from a terminal.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fkhayef/suitekeep/internal/command"
	"github.com/fkhayef/suitekeep/internal/deeplink"
	"github.com/fkhayef/suitekeep/internal/inviteflow"
	"github.com/fkhayef/suitekeep/internal/membership"
)

// ErrNotInvitation is returned by Open for URLs that carry no invitation.
var ErrNotInvitation = errors.New("not a suitekeep invitation link")

// ErrNotAvailable is returned for commands the terminal shell cannot perform.
var ErrNotAvailable = errors.New("not available in the terminal app")

// Backend is what the app needs from the membership service.
type Backend interface {
	inviteflow.Membership
	ListSuites(ctx context.Context) ([]membership.Suite, error)
	CreateInvitation(ctx context.Context, suiteID int64) (*membership.Invitation, error)
}

// App wires the confirmation flow and command bus to a terminal.
type App struct {
	backend Backend
	flow    *inviteflow.Flow
	bus     *command.Bus
	logger  zerolog.Logger

	in  *bufio.Reader
	out io.Writer

	suiteID     int64
	section     command.Command
	sidebarOpen bool
}

// New builds an app talking to backend. suiteID selects the suite used by
// suite-scoped commands; zero means none is selected.
func New(backend Backend, suiteID int64, in io.Reader, out io.Writer, logger zerolog.Logger) *App {
	a := &App{
		backend:     backend,
		logger:      logger,
		in:          bufio.NewReader(in),
		out:         out,
		suiteID:     suiteID,
		section:     command.NavigateToDashboard,
		sidebarOpen: true,
	}
	a.flow = inviteflow.New(backend,
		inviteflow.WithLogger(logger.With().Str("component", "inviteflow").Logger()),
		inviteflow.WithObserver(a.onFlowState),
	)
	a.bus = command.NewBus(logger.With().Str("component", "commands").Logger())
	a.registerCommands()
	return a
}

// Flow exposes the confirmation flow.
func (a *App) Flow() *inviteflow.Flow {
	return a.flow
}

// Bus exposes the command bus.
func (a *App) Bus() *command.Bus {
	return a.bus
}

// Open handles a URL delivered to the app. Invitation links start the
// confirmation flow, ask the user, and on acceptance wait for the join to
// finish so its outcome can be shown.
func (a *App) Open(ctx context.Context, raw string) error {
	token, ok := deeplink.ParseString(raw)
	if !ok {
		return ErrNotInvitation
	}
	a.flow.ReceiveToken(token)

	accept, err := a.ask(fmt.Sprintf("Join the suite shared with invitation %s? [y/N] ", token))
	if err != nil {
		return errors.Join(err, a.flow.Decline())
	}
	if !accept {
		if err := a.flow.Decline(); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Invitation declined.")
		return nil
	}

	results, err := a.flow.Confirm(ctx)
	if err != nil {
		return err
	}
	select {
	case res := <-results:
		return a.report(res)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run dispatches a single named command.
func (a *App) Run(ctx context.Context, name string) error {
	cmd, err := command.ParseCommand(name)
	if err != nil {
		return err
	}
	return a.bus.Dispatch(ctx, cmd)
}

func (a *App) report(res inviteflow.JoinResult) error {
	switch {
	case errors.Is(res.Err, membership.ErrInvitationNotFound):
		fmt.Fprintln(a.out, "This invitation does not exist.")
	case errors.Is(res.Err, membership.ErrInvitationExpired):
		fmt.Fprintln(a.out, "This invitation has expired or was revoked. Ask for a new link.")
	case res.Err != nil:
		fmt.Fprintln(a.out, "Could not join the suite. Try again later.")
	default:
		fmt.Fprintf(a.out, "Joined %q as %s.\n", res.Joined.SuiteName, strings.ToLower(res.Joined.Role))
		a.suiteID = res.Joined.SuiteID
	}
	return res.Err
}

func (a *App) ask(prompt string) (bool, error) {
	fmt.Fprint(a.out, prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (a *App) onFlowState(s inviteflow.State) {
	a.logger.Debug().Str("state", s.String()).Bool("prompt", inviteflow.PromptVisible(s)).Msg("invitation flow changed")
}
