package inviteflow

import "github.com/fkhayef/suitekeep/internal/deeplink"

// State is the confirmation flow state: either Idle or Pending.
type State interface {
	isState()
	String() string
}

// Idle means no invitation is waiting for a decision.
type Idle struct{}

// Pending holds the invitation the user is being asked about.
type Pending struct {
	Token deeplink.Token
}

func (Idle) isState()    {}
func (Pending) isState() {}

func (Idle) String() string    { return "idle" }
func (Pending) String() string { return "pending" }

// PromptVisible reports whether s shows the confirmation prompt.
func PromptVisible(s State) bool {
	_, ok := s.(Pending)
	return ok
}
