package operator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/FBLACOMPBG2024/ledger-server/internal/logging"
	"github.com/FBLACOMPBG2024/ledger-server/internal/operator/actions"
	"github.com/FBLACOMPBG2024/ledger-server/internal/storage"
)

func newTestDeps() *actions.Deps {
	return &actions.Deps{
		Storage: storage.NewMemoryStorage(),
		Logger:  logging.SetupLogging(),
	}
}

// recordingAction tracks, per owner, whether two of its Performs ever ran at
// the same time.
type recordingAction struct {
	ownerID uuid.UUID
	mu      *sync.Mutex
	active  map[uuid.UUID]int
	overlap map[uuid.UUID]bool
}

func (a *recordingAction) Owner() uuid.UUID {
	return a.ownerID
}

func (a *recordingAction) Perform(ctx context.Context, deps *actions.Deps) error {
	a.mu.Lock()
	a.active[a.ownerID]++
	if a.active[a.ownerID] > 1 {
		a.overlap[a.ownerID] = true
	}
	a.mu.Unlock()

	time.Sleep(time.Millisecond)

	a.mu.Lock()
	a.active[a.ownerID]--
	a.mu.Unlock()
	return nil
}

func TestProcess_SerializesPerOwner(t *testing.T) {
	delegator := NewOperatorDelegator(newTestDeps(), 4)
	delegator.Start()
	defer delegator.Stop()

	var mu sync.Mutex
	active := make(map[uuid.UUID]int)
	overlap := make(map[uuid.UUID]bool)

	owners := []uuid.UUID{
		uuid.Must(uuid.NewV4()),
		uuid.Must(uuid.NewV4()),
		uuid.Must(uuid.NewV4()),
	}

	var wg sync.WaitGroup
	for _, ownerID := range owners {
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(ownerID uuid.UUID) {
				defer wg.Done()
				err := delegator.Process(context.Background(), &recordingAction{
					ownerID: ownerID,
					mu:      &mu,
					active:  active,
					overlap: overlap,
				})
				assert.NoError(t, err)
			}(ownerID)
		}
	}
	wg.Wait()

	for _, ownerID := range owners {
		assert.False(t, overlap[ownerID], "two mutations for owner %s overlapped", ownerID)
	}
}

func TestProcess_ConcurrentAddsAllLand(t *testing.T) {
	deps := newTestDeps()
	delegator := NewOperatorDelegator(deps, 4)
	delegator.Start()
	defer delegator.Stop()

	ownerID := uuid.Must(uuid.NewV4())

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := delegator.Process(context.Background(), &actions.AddTransaction{
				OwnerID:    ownerID,
				Amount:     decimal.NewFromInt(2),
				Name:       "deposit",
				OccurredAt: time.Now(),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	balance, err := deps.Storage.Balances.Get(context.Background(), ownerID)
	assert.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(50)), "balance %s", balance)

	total, err := deps.Storage.Transactions.SumAmounts(context.Background(), ownerID)
	assert.NoError(t, err)
	assert.True(t, balance.Equal(total))
}

func TestProcess_SameOwnerAlwaysSameQueue(t *testing.T) {
	delegator := NewOperatorDelegator(newTestDeps(), 4)
	ownerID := uuid.Must(uuid.NewV4())

	first := delegator.queueIndex(ownerID)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, delegator.queueIndex(ownerID))
	}
}

func TestProcess_CancelledContext(t *testing.T) {
	delegator := NewOperatorDelegator(newTestDeps(), 1)
	delegator.Start()
	defer delegator.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := delegator.Process(ctx, &recordingAction{
		ownerID: uuid.Must(uuid.NewV4()),
		mu:      &sync.Mutex{},
		active:  make(map[uuid.UUID]int),
		overlap: make(map[uuid.UUID]bool),
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStop_IsIdempotent(t *testing.T) {
	delegator := NewOperatorDelegator(newTestDeps(), 2)
	delegator.Start()
	delegator.Stop()
	delegator.Stop()
}
