package core

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/golang/groupcache/lru"
	"github.com/sisu-network/dbridge/chains/eth"
	"github.com/sisu-network/dbridge/database"
	"github.com/sisu-network/dbridge/types"
	"github.com/sisu-network/lib/log"
)

const (
	// A source tx is final after this number of blocks.
	RequiredConfirmations = 1

	ConfirmedCacheSize = 1000
)

// ConfirmedFunc is called once the source tx of a transfer is confirmed. The transfer is no
// longer pending when it is called, but its persisted record is only deleted after it returns.
type ConfirmedFunc func(transfer *types.PendingTransfer, receipt *ethtypes.Receipt)

type transferKey struct {
	chainId uint64
	hash    common.Hash
}

type pendingEntry struct {
	transfer    *types.PendingTransfer
	onConfirmed ConfirmedFunc
	failed      bool
}

// Tracker keeps the set of submitted transfers whose source tx is not confirmed yet. Every
// transfer has its own confirmation watch.
type Tracker struct {
	confirmers    map[uint64]eth.Confirmer
	confirmations uint64
	db            database.Database

	lock      *sync.RWMutex
	pending   map[transferKey]*pendingEntry
	seq       uint64
	confirmed *lru.Cache
	stopped   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTracker creates a tracker watching the chains of the given confirmers. db is optional.
func NewTracker(confirmers map[uint64]eth.Confirmer, db database.Database) *Tracker {
	ctx, cancel := context.WithCancel(context.Background())

	return &Tracker{
		confirmers:    confirmers,
		confirmations: RequiredConfirmations,
		db:            db,
		lock:          &sync.RWMutex{},
		pending:       make(map[transferKey]*pendingEntry),
		confirmed:     lru.New(ConfirmedCacheSize),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Add puts a transfer into the pending set and starts watching its source tx. The returned
// channel receives exactly one update once the watch is over.
//
// A transfer which is already pending is rejected unless its previous watch failed, in which
// case it is watched again. Add does no I/O: the transfer is persisted by its watch.
func (t *Tracker) Add(transfer *types.PendingTransfer, onConfirmed ConfirmedFunc) (<-chan *types.TrackUpdate, error) {
	if transfer == nil {
		return nil, fmt.Errorf("transfer cannot be nil")
	}

	key := transferKey{chainId: transfer.ChainId, hash: transfer.Hash}

	t.lock.Lock()
	if t.stopped {
		t.lock.Unlock()
		return nil, types.ErrTrackerStopped
	}

	confirmer, ok := t.confirmers[transfer.ChainId]
	if !ok {
		t.lock.Unlock()
		return nil, types.NewUnknownChainError(transfer.ChainId)
	}

	if _, ok := t.confirmed.Get(key); ok {
		t.lock.Unlock()
		return nil, types.ErrTransferConfirmed
	}

	if existing, ok := t.pending[key]; ok && !existing.failed {
		t.lock.Unlock()
		return nil, types.ErrDuplicateTransfer
	}

	t.seq++
	copied := *transfer
	copied.Seq = t.seq
	copied.WatchFailed = false

	entry := &pendingEntry{
		transfer:    &copied,
		onConfirmed: onConfirmed,
	}
	t.pending[key] = entry
	t.wg.Add(1)
	t.lock.Unlock()

	log.Verbosef("Tracking transfer %s on chain %d, seq = %d", transfer.Hash.Hex(), transfer.ChainId,
		copied.Seq)

	ch := make(chan *types.TrackUpdate, 1)
	go t.watch(key, entry, confirmer, ch)

	return ch, nil
}

func (t *Tracker) watch(key transferKey, entry *pendingEntry, confirmer eth.Confirmer,
	ch chan<- *types.TrackUpdate) {
	defer t.wg.Done()
	defer close(ch)

	if t.db != nil {
		if err := t.db.SavePendingTransfer(entry.transfer); err != nil {
			log.Warnf("Transfer %s is tracked but not persisted, err = %v", key.hash.Hex(), err)
		}
	}

	receipt, err := confirmer.WaitForTransaction(t.ctx, key.hash, t.confirmations)
	if err == nil && receipt == nil {
		err = fmt.Errorf("tx is not mined")
	}

	if err != nil {
		t.onWatchFailed(key, entry, err, ch)
		return
	}

	t.lock.Lock()
	current, ok := t.pending[key]
	removed := ok && current == entry
	if removed {
		delete(t.pending, key)
		t.confirmed.Add(key, true)
	}
	t.lock.Unlock()

	var height int64
	if receipt.BlockNumber != nil {
		height = receipt.BlockNumber.Int64()
	}

	// Only the watch that removed the entry runs the callback. The persisted record outlives the
	// callback so that a crash inside it resumes the transfer on the next start.
	if removed {
		log.Infof("Transfer %s on chain %d is confirmed at block %d", key.hash.Hex(), key.chainId, height)

		if entry.onConfirmed != nil {
			entry.onConfirmed(entry.transfer, receipt)
		}

		if t.db != nil {
			if err := t.db.DeletePendingTransfer(key.chainId, key.hash); err != nil {
				log.Errorf("Cannot delete confirmed transfer %s on chain %d, err = %v", key.hash.Hex(),
					key.chainId, err)
			}
		}
	}

	ch <- &types.TrackUpdate{
		ChainId:     key.chainId,
		Hash:        key.hash,
		BlockHeight: height,
		Result:      types.TrackResultConfirmed,
	}
}

func (t *Tracker) onWatchFailed(key transferKey, entry *pendingEntry, err error, ch chan<- *types.TrackUpdate) {
	watchErr := types.NewConfirmationWatchError(key.chainId, key.hash, err)

	// A cancelled watch leaves the transfer pending as it was.
	if t.ctx.Err() == nil {
		t.lock.Lock()
		if current, ok := t.pending[key]; ok && current == entry {
			entry.failed = true
		}
		t.lock.Unlock()

		log.Errorf("Failed to watch transfer %s on chain %d, err = %v", key.hash.Hex(), key.chainId, err)
	}

	ch <- &types.TrackUpdate{
		ChainId: key.chainId,
		Hash:    key.hash,
		Result:  types.TrackResultFailure,
		Err:     watchErr,
	}
}

// Pending returns a snapshot of the pending transfers ordered by submission.
func (t *Tracker) Pending() []*types.PendingTransfer {
	t.lock.RLock()
	defer t.lock.RUnlock()

	transfers := make([]*types.PendingTransfer, 0, len(t.pending))
	for _, entry := range t.pending {
		copied := *entry.transfer
		copied.WatchFailed = entry.failed
		transfers = append(transfers, &copied)
	}

	sort.Slice(transfers, func(i, j int) bool { return transfers[i].Seq < transfers[j].Seq })

	return transfers
}

func (t *Tracker) Get(chainId uint64, hash common.Hash) (*types.PendingTransfer, bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	entry, ok := t.pending[transferKey{chainId: chainId, hash: hash}]
	if !ok {
		return nil, false
	}

	copied := *entry.transfer
	copied.WatchFailed = entry.failed

	return &copied, true
}

func (t *Tracker) Len() int {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return len(t.pending)
}

// Stop cancels all watches and waits for them to return. Their transfers stay pending.
func (t *Tracker) Stop() {
	t.lock.Lock()
	if t.stopped {
		t.lock.Unlock()
		return
	}
	t.stopped = true
	t.lock.Unlock()

	t.cancel()
	t.wg.Wait()
}
