// Package command routes the app's menu and navigation commands through a
// typed bus instead of string-keyed broadcasts.
package command

import (
	"fmt"
)

// Command is one menu or navigation request.
type Command int

const (
	NewConcert Command = iota + 1
	ImportData
	ExportData
	ToggleSidebar
	NavigateToDashboard
	NavigateToConcerts
	NavigateToAnalytics
	NavigateToSettings
	SyncNow
	InviteMember
	SuiteSettings
)

var names = map[Command]string{
	NewConcert:          "newConcertRequested",
	ImportData:          "importDataRequested",
	ExportData:          "exportDataRequested",
	ToggleSidebar:       "toggleSidebarRequested",
	NavigateToDashboard: "navigateToDashboard",
	NavigateToConcerts:  "navigateToConcerts",
	NavigateToAnalytics: "navigateToAnalytics",
	NavigateToSettings:  "navigateToSettings",
	SyncNow:             "syncNowRequested",
	InviteMember:        "inviteMemberRequested",
	SuiteSettings:       "suiteSettingsRequested",
}

var byName = func() map[string]Command {
	m := make(map[string]Command, len(names))
	for c, n := range names {
		m[n] = c
	}
	return m
}()

// All returns every command in declaration order.
func All() []Command {
	out := make([]Command, 0, len(names))
	for c := NewConcert; c <= SuiteSettings; c++ {
		out = append(out, c)
	}
	return out
}

// String returns the canonical command name.
func (c Command) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// Valid reports whether c is a known command.
func (c Command) Valid() bool {
	_, ok := names[c]
	return ok
}

// IsNavigation reports whether c only changes the visible section.
func (c Command) IsNavigation() bool {
	switch c {
	case NavigateToDashboard, NavigateToConcerts, NavigateToAnalytics, NavigateToSettings:
		return true
	}
	return false
}

// ParseCommand resolves a canonical command name.
func ParseCommand(name string) (Command, error) {
	if c, ok := byName[name]; ok {
		return c, nil
	}
	return 0, fmt.Errorf("unknown command %q", name)
}
