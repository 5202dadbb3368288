// Package inviteflow turns an invitation token into an accept/decline decision
// and, on acceptance, hands the token to the membership service.
package inviteflow

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fkhayef/suitekeep/internal/deeplink"
)

// ErrNoPendingInvitation is returned by Confirm and Decline when the flow is idle.
var ErrNoPendingInvitation = errors.New("no pending invitation")

// Joined describes the suite a redeemed invitation granted access to.
type Joined struct {
	SuiteID   int64
	SuiteName string
	Role      string
}

// Membership redeems invitation tokens.
type Membership interface {
	JoinSuite(ctx context.Context, token deeplink.Token) (*Joined, error)
}

// JoinResult is the outcome of one redemption started by Confirm.
type JoinResult struct {
	Token    deeplink.Token
	Joined   *Joined
	Err      error
	Duration time.Duration
}

// Observer is called after every state change with the flow's state at the
// time of the call. Calls never overlap, and the last call always carries the
// current state. An observer must not call back into the flow.
type Observer func(State)

// Option configures a Flow.
type Option func(*Flow)

// WithLogger sets the logger used to report redemption outcomes.
func WithLogger(logger zerolog.Logger) Option {
	return func(f *Flow) {
		f.logger = logger
	}
}

// WithObserver registers fn to be told about state changes.
func WithObserver(fn Observer) Option {
	return func(f *Flow) {
		f.observer = fn
	}
}

// Flow holds at most one pending invitation. A newer token replaces an older
// one; nothing is queued.
type Flow struct {
	membership Membership
	logger     zerolog.Logger
	observer   Observer

	mu    sync.Mutex
	state State

	notifyMu sync.Mutex
}

// New creates an idle flow redeeming tokens through membership.
func New(membership Membership, opts ...Option) *Flow {
	f := &Flow{
		membership: membership,
		logger:     zerolog.Nop(),
		state:      Idle{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// State returns the current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// PendingToken returns the token awaiting a decision, if any.
func (f *Flow) PendingToken() (deeplink.Token, bool) {
	p, ok := f.State().(Pending)
	return p.Token, ok
}

// HandleURL extracts an invitation from u and makes it pending.
// URLs that are not invitation links are ignored.
func (f *Flow) HandleURL(u *url.URL) bool {
	token, ok := deeplink.Parse(u)
	if !ok {
		if u != nil {
			f.logger.Debug().Str("url", u.Redacted()).Msg("ignoring non-invitation url")
		}
		return false
	}
	f.ReceiveToken(token)
	return true
}

// ReceiveToken makes token the pending invitation, replacing any other.
func (f *Flow) ReceiveToken(token deeplink.Token) {
	f.mu.Lock()
	if prev, ok := f.state.(Pending); ok && prev.Token != token {
		f.logger.Debug().Str("replaced", prev.Token.String()).Msg("pending invitation replaced")
	}
	f.state = Pending{Token: token}
	f.mu.Unlock()
	f.notify()
}

// Decline discards the pending invitation without contacting the service.
func (f *Flow) Decline() error {
	if _, err := f.take(); err != nil {
		return err
	}
	f.notify()
	return nil
}

// Confirm starts redeeming the pending invitation and returns to Idle
// immediately. The redemption runs to completion even if ctx is cancelled
// afterwards; exactly one result is delivered on the returned channel.
func (f *Flow) Confirm(ctx context.Context) (<-chan JoinResult, error) {
	token, err := f.take()
	if err != nil {
		return nil, err
	}
	f.notify()

	results := make(chan JoinResult, 1)
	go f.redeem(context.WithoutCancel(ctx), token, results)
	return results, nil
}

// take moves a pending flow to Idle and returns the token it held.
func (f *Flow) take() (deeplink.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.state.(Pending)
	if !ok {
		return "", ErrNoPendingInvitation
	}
	f.state = Idle{}
	return p.Token, nil
}

func (f *Flow) redeem(ctx context.Context, token deeplink.Token, results chan<- JoinResult) {
	start := time.Now()
	joined, err := f.membership.JoinSuite(ctx, token)
	res := JoinResult{Token: token, Joined: joined, Err: err, Duration: time.Since(start)}

	if err != nil {
		f.logger.Error().Err(err).Str("token", token.String()).Dur("took", res.Duration).Msg("invitation redemption failed")
	} else if joined != nil {
		f.logger.Info().Int64("suite_id", joined.SuiteID).Str("suite", joined.SuiteName).Msg("joined suite")
	}
	results <- res
	close(results)
}

// notify reports the state as it is now, not as the caller left it, so a
// stale Pending can never be the last thing an observer sees.
func (f *Flow) notify() {
	if f.observer == nil {
		return
	}
	f.notifyMu.Lock()
	defer f.notifyMu.Unlock()
	f.observer(f.State())
}
