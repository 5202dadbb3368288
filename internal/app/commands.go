package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fkhayef/suitekeep/internal/command"
)

var errNoSuiteSelected = errors.New("no suite selected; set suite_id in the config")

func (a *App) registerCommands() {
	for _, c := range command.All() {
		if c.IsNavigation() {
			a.bus.Handle(c, a.navigate)
		}
	}
	a.bus.Handle(command.ToggleSidebar, a.toggleSidebar)
	a.bus.Handle(command.SyncNow, a.syncNow)
	a.bus.Handle(command.InviteMember, a.inviteMember)
	for _, c := range []command.Command{command.NewConcert, command.ImportData, command.ExportData, command.SuiteSettings} {
		a.bus.Handle(c, unavailable)
	}
}

func (a *App) navigate(ctx context.Context, cmd command.Command) error {
	a.section = cmd
	fmt.Fprintf(a.out, "Showing %s.\n", sectionName(cmd))
	return nil
}

func sectionName(cmd command.Command) string {
	switch cmd {
	case command.NavigateToConcerts:
		return "concerts"
	case command.NavigateToAnalytics:
		return "analytics"
	case command.NavigateToSettings:
		return "settings"
	default:
		return "dashboard"
	}
}

func (a *App) toggleSidebar(ctx context.Context, cmd command.Command) error {
	a.sidebarOpen = !a.sidebarOpen
	state := "hidden"
	if a.sidebarOpen {
		state = "shown"
	}
	fmt.Fprintf(a.out, "Sidebar %s.\n", state)
	return nil
}

func (a *App) syncNow(ctx context.Context, cmd command.Command) error {
	suites, err := a.backend.ListSuites(ctx)
	if err != nil {
		return err
	}
	if len(suites) == 0 {
		fmt.Fprintln(a.out, "You are not a member of any suite yet.")
		return nil
	}
	for _, s := range suites {
		marker := " "
		if s.ID == a.suiteID {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s %d\t%s\n", marker, s.ID, s.Name)
	}
	return nil
}

func (a *App) inviteMember(ctx context.Context, cmd command.Command) error {
	if a.suiteID == 0 {
		return errNoSuiteSelected
	}
	inv, err := a.backend.CreateInvitation(ctx, a.suiteID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Share this link (expires %s):\n  %s\n  %s\n", inv.ExpiresAt, inv.UniversalLink, inv.Link)
	return nil
}

func unavailable(ctx context.Context, cmd command.Command) error {
	return ErrNotAvailable
}

// Listen reads one command name per line from the app's input and feeds them
// through the bus in order until the input ends or ctx is done.
func (a *App) Listen(ctx context.Context) error {
	cmds := make(chan command.Command)
	done := make(chan error, 1)
	go func() {
		done <- a.bus.Run(ctx, cmds)
	}()

	scanner := bufio.NewScanner(a.in)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		cmd, err := command.ParseCommand(name)
		if err != nil {
			a.logger.Warn().Err(err).Msg("skipping input line")
			continue
		}
		select {
		case cmds <- cmd:
		case <-ctx.Done():
			return <-done
		}
	}
	close(cmds)
	if err := <-done; err != nil {
		return err
	}
	return scanner.Err()
}
