package operator

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/gofrs/uuid/v5"

	"github.com/FBLACOMPBG2024/ledger-server/internal/operator/actions"
)

const queueDepth = 1000

// OperatorDelegator manages the queues, starts/stops Operators (workers),
// and enqueues items. Actions are routed to a queue by a hash of their owner
// id, so all mutations for one owner are serialized on one worker while
// different owners proceed in parallel on the others.
type OperatorDelegator struct {
	deps       *actions.Deps
	queues     []chan ActionItem
	numWorkers int
	wg         sync.WaitGroup
	stopOnce   sync.Once
}

func NewOperatorDelegator(deps *actions.Deps, numWorkers int) *OperatorDelegator {
	if numWorkers < 1 {
		numWorkers = 1
	}
	queues := make([]chan ActionItem, numWorkers)
	for i := range queues {
		queues[i] = make(chan ActionItem, queueDepth)
	}
	return &OperatorDelegator{
		deps:       deps,
		queues:     queues,
		numWorkers: numWorkers,
	}
}

func (d *OperatorDelegator) Start() {
	for i := 0; i < d.numWorkers; i++ {
		d.wg.Add(1)
		op := NewOperator(d.deps, d.queues[i])
		go func() {
			defer d.wg.Done()
			op.Run()
		}()
	}
}

func (d *OperatorDelegator) Stop() {
	d.stopOnce.Do(func() {
		for _, queue := range d.queues {
			close(queue)
		}
		d.wg.Wait()
	})
}

// Process enqueues the action on its owner's queue and waits for the result
// or context cancellation. When the context wins, the action may still run
// later; its own ctx check and the post-mutation reconcile paths keep that
// safe.
func (d *OperatorDelegator) Process(ctx context.Context, action actions.IAction) error {
	respCh := make(chan ActionItemResponse, 1)
	item := ActionItem{
		ctx:      ctx,
		action:   action,
		response: respCh,
	}

	select {
	case d.queues[d.queueIndex(action.Owner())] <- item:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case resp := <-respCh:
		return resp.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *OperatorDelegator) queueIndex(ownerID uuid.UUID) int {
	h := fnv.New32a()
	_, _ = h.Write(ownerID.Bytes())
	return int(h.Sum32() % uint32(d.numWorkers))
}
