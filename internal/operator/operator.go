package operator

import (
	"context"

	"github.com/FBLACOMPBG2024/ledger-server/internal/operator/actions"
)

// Operator is the worker that processes items from one queue. Every action
// routed to a queue shares ownership routing, so a single Operator never
// interleaves two mutations for the same owner.
type Operator struct {
	deps  *actions.Deps
	queue chan ActionItem
}

func NewOperator(deps *actions.Deps, queue chan ActionItem) *Operator {
	return &Operator{
		deps:  deps,
		queue: queue,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		o.processItem(item)
	}
}

func (o *Operator) processItem(item ActionItem) {
	// The caller may already have given up; don't run a mutation nobody is
	// waiting for.
	if err := item.ctx.Err(); err != nil {
		item.response <- ActionItemResponse{err: err}
		return
	}

	err := item.action.Perform(item.ctx, o.deps)
	item.response <- ActionItemResponse{err: err}
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
