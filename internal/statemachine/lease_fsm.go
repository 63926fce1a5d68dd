package statemachine

import (
	"context"
	"fmt"
	"time"

	"github.com/looplab/fsm"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/models"
)

// LeaseFSM wraps a lease with its state machine. Transitions are
// one-directional; renewal never reuses a state, it spawns a new lease row.
type LeaseFSM struct {
	lease *models.Lease
	fsm   *fsm.FSM
}

// NewLeaseFSM creates a new lease state machine
func NewLeaseFSM(lease *models.Lease) *LeaseFSM {
	lfsm := &LeaseFSM{
		lease: lease,
	}

	lfsm.fsm = fsm.NewFSM(
		lease.Status,
		fsm.Events{
			// draft → pending (unit and tenant assigned)
			{Name: "submit", Src: []string{models.LeaseStatusDraft}, Dst: models.LeaseStatusPending},

			// pending → active (activating invoice settled)
			{Name: "activate", Src: []string{models.LeaseStatusPending}, Dst: models.LeaseStatusActive},

			// active → terminated
			{Name: "terminate", Src: []string{models.LeaseStatusActive}, Dst: models.LeaseStatusTerminated},

			// active → expired
			{Name: "expire", Src: []string{models.LeaseStatusActive}, Dst: models.LeaseStatusExpired},
		},
		fsm.Callbacks{},
	)

	return lfsm
}

// Submit transitions the lease to pending state
func (l *LeaseFSM) Submit(ctx context.Context) error {
	if !l.lease.MaySubmit() {
		return fmt.Errorf("lease cannot be submitted in current state: %s", l.lease.Status)
	}

	if err := l.fsm.Event(ctx, "submit"); err != nil {
		return fmt.Errorf("failed to submit lease: %w", err)
	}

	l.lease.Status = l.fsm.Current()
	return nil
}

// Activate transitions the lease to active state
func (l *LeaseFSM) Activate(ctx context.Context) error {
	if !l.lease.MayActivate() {
		return fmt.Errorf("lease cannot be activated in current state: %s", l.lease.Status)
	}

	if err := l.fsm.Event(ctx, "activate"); err != nil {
		return fmt.Errorf("failed to activate lease: %w", err)
	}

	l.lease.Status = l.fsm.Current()
	return nil
}

// Terminate transitions the lease to terminated state
func (l *LeaseFSM) Terminate(ctx context.Context) error {
	if !l.lease.MayTerminate() {
		return fmt.Errorf("lease cannot be terminated in current state: %s", l.lease.Status)
	}

	if err := l.fsm.Event(ctx, "terminate"); err != nil {
		return fmt.Errorf("failed to terminate lease: %w", err)
	}

	l.lease.Status = l.fsm.Current()
	return nil
}

// Expire transitions the lease to expired state as of the given instant
func (l *LeaseFSM) Expire(ctx context.Context, now time.Time) error {
	if !l.lease.MayExpire(now) {
		return fmt.Errorf("lease cannot expire in current state: %s", l.lease.Status)
	}

	if err := l.fsm.Event(ctx, "expire"); err != nil {
		return fmt.Errorf("failed to expire lease: %w", err)
	}

	l.lease.Status = l.fsm.Current()
	return nil
}

// Current returns the current state
func (l *LeaseFSM) Current() string {
	return l.fsm.Current()
}

// Can checks if a transition is possible
func (l *LeaseFSM) Can(event string) bool {
	return l.fsm.Can(event)
}
