package service

import (
	"context"

	"github.com/looplab/fsm"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
	fsmutil "github.com/autopeer-io/fleetcare/internal/pkg/util/fsm"
)

// EventApprove moves a pending quote to approved. Approved is terminal.
const EventApprove = "approve"

type quoteMachine struct {
	*fsm.FSM
}

func newQuoteMachine(initial model.QuoteStatus) *quoteMachine {
	m := &quoteMachine{}

	events := fsm.Events{
		{Name: EventApprove, Src: []string{string(model.QuoteStatusPending)}, Dst: string(model.QuoteStatusApproved)},
	}

	callbacks := fsm.Callbacks{
		"enter_" + string(model.QuoteStatusApproved): fsmutil.WrapEvent(m.ActionEnterApproved),
	}

	m.FSM = fsm.NewFSM(string(initial), events, callbacks)
	return m
}

// ActionEnterApproved writes the new state onto the quote passed as first argument.
func (m *quoteMachine) ActionEnterApproved(ctx context.Context, e *fsm.Event) error {
	q := e.Args[0].(*model.Quote)
	q.Status = model.QuoteStatus(e.Dst)
	return nil
}

// approveQuote applies the approve event to q in place and reports whether
// the state changed.
func approveQuote(ctx context.Context, q *model.Quote) (bool, error) {
	return fsmutil.Fire(ctx, newQuoteMachine(q.Status).FSM, EventApprove, q)
}
