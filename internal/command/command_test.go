package command

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestNamesRoundTrip(t *testing.T) {
	all := All()
	if len(all) != 11 {
		t.Fatalf("expected 11 commands, got %d", len(all))
	}
	for _, c := range all {
		parsed, err := ParseCommand(c.String())
		if err != nil {
			t.Fatalf("parse %s: %v", c, err)
		}
		if parsed != c {
			t.Fatalf("parse %s = %s", c, parsed)
		}
	}
}

func TestParseCommandUnknown(t *testing.T) {
	if _, err := ParseCommand("openInvitation"); err == nil {
		t.Fatalf("expected error for unknown command")
	}
	if Command(99).Valid() {
		t.Fatalf("Command(99) should not be valid")
	}
	if Command(99).String() != "Command(99)" {
		t.Fatalf("unexpected string: %s", Command(99))
	}
}

func TestCanonicalNames(t *testing.T) {
	want := map[Command]string{
		NewConcert:          "newConcertRequested",
		SyncNow:             "syncNowRequested",
		InviteMember:        "inviteMemberRequested",
		NavigateToAnalytics: "navigateToAnalytics",
	}
	for c, name := range want {
		if c.String() != name {
			t.Fatalf("%d.String() = %q, want %q", int(c), c.String(), name)
		}
	}
	if !NavigateToSettings.IsNavigation() || SyncNow.IsNavigation() {
		t.Fatalf("unexpected navigation classification")
	}
}

func TestBusDispatch(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	var got []Command
	bus.Handle(SyncNow, func(ctx context.Context, cmd Command) error {
		got = append(got, cmd)
		return nil
	})

	if err := bus.Dispatch(context.Background(), SyncNow); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(got) != 1 || got[0] != SyncNow {
		t.Fatalf("handler saw %v", got)
	}

	err := bus.Dispatch(context.Background(), ExportData)
	if !errors.Is(err, ErrUnhandled) {
		t.Fatalf("expected ErrUnhandled, got %v", err)
	}
}

func TestBusRunDrainsChannel(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	var order []Command
	record := func(ctx context.Context, cmd Command) error {
		order = append(order, cmd)
		return nil
	}
	bus.Handle(NavigateToDashboard, record)
	bus.Handle(InviteMember, func(ctx context.Context, cmd Command) error {
		order = append(order, cmd)
		return errors.New("no suite selected")
	})

	in := make(chan Command, 4)
	in <- NavigateToDashboard
	in <- InviteMember
	in <- ImportData
	in <- NavigateToDashboard
	close(in)

	if err := bus.Run(context.Background(), in); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(order) != 3 || order[0] != NavigateToDashboard || order[1] != InviteMember || order[2] != NavigateToDashboard {
		t.Fatalf("unexpected dispatch order: %v", order)
	}
}

func TestBusRunStopsOnCancel(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := bus.Run(ctx, make(chan Command)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
