package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/sisu-network/dbridge/bridge"
	"github.com/sisu-network/dbridge/chains/eth"
	"github.com/sisu-network/dbridge/config"
	"github.com/sisu-network/dbridge/database"
	"github.com/sisu-network/dbridge/types"
	"github.com/sisu-network/lib/log"
	"go.uber.org/atomic"
)

const (
	ReleaseQueueSize = 1000
	ReleaseTimeout   = 2 * time.Minute
)

var (
	ErrProcessorNotStarted = errors.New("processor is not started")
)

type releaseRequest struct {
	transfer *types.BridgeTransaction
	done     chan struct{}
}

// Processor tracks submitted transfers and releases them once their source tx is confirmed.
type Processor struct {
	cfg        config.Relayer
	db         database.Database
	registry   *bridge.Registry
	dispatcher *bridge.Dispatcher
	tracker    *Tracker
	// Release txs are sent to the source bridge, so signers are keyed by the source chain id.
	signers map[uint64]*eth.Signer

	releaseCh chan *releaseRequest
	stopCh    chan struct{}
	wg        sync.WaitGroup
	started   *atomic.Bool
}

func NewProcessor(
	cfg *config.Relayer,
	db database.Database,
	registry *bridge.Registry,
	confirmers map[uint64]eth.Confirmer,
	signers map[uint64]*eth.Signer,
) *Processor {
	return &Processor{
		cfg:        *cfg,
		db:         db,
		registry:   registry,
		dispatcher: bridge.NewDispatcher(registry),
		tracker:    NewTracker(confirmers, db),
		signers:    signers,
		releaseCh:  make(chan *releaseRequest, ReleaseQueueSize),
		stopCh:     make(chan struct{}),
		started:    atomic.NewBool(false),
	}
}

// Start resumes the transfers left pending by a previous run and starts the release loop.
func (p *Processor) Start() error {
	if !p.started.CAS(false, true) {
		return fmt.Errorf("processor is already started")
	}

	log.Info("Starting processor...")
	log.Info("Supported chains: ", p.registry.ChainIds())

	if p.db != nil {
		transfers, err := p.db.LoadPendingTransfers()
		if err != nil {
			return fmt.Errorf("cannot load pending transfers: %w", err)
		}

		for _, transfer := range transfers {
			if _, err := p.TrackTransfer(transfer); err != nil {
				log.Errorf("Cannot resume transfer %s on chain %d, err = %v", transfer.Hash.Hex(),
					transfer.ChainId, err)
			}
		}
		log.Infof("Resumed %d pending transfers", p.tracker.Len())
	}

	p.wg.Add(1)
	go p.listen()

	return nil
}

// Stop waits for the watches to return, including the releases of transfers confirmed in the
// meantime, before stopping the release loop.
func (p *Processor) Stop() {
	if !p.started.CAS(true, false) {
		return
	}

	p.tracker.Stop()
	close(p.stopCh)
	p.wg.Wait()
}

// TrackTransfer watches the source tx of a transfer. If the transfer carries its bridge
// transaction and auto release is on, the transaction is released once the source tx is
// confirmed.
func (p *Processor) TrackTransfer(transfer *types.PendingTransfer) (<-chan *types.TrackUpdate, error) {
	if transfer == nil {
		return nil, fmt.Errorf("transfer cannot be nil")
	}

	if !p.started.Load() {
		return nil, ErrProcessorNotStarted
	}

	if transfer.Transfer != nil && transfer.Transfer.FromChainId != transfer.ChainId {
		return nil, fmt.Errorf("transfer from chain %d cannot be tracked on chain %d",
			transfer.Transfer.FromChainId, transfer.ChainId)
	}

	return p.tracker.Add(transfer, p.onConfirmed)
}

func (p *Processor) onConfirmed(transfer *types.PendingTransfer, receipt *ethtypes.Receipt) {
	if !p.cfg.AutoRelease || transfer.Transfer == nil {
		return
	}

	// The watch waits for the release to be attempted, so the persisted transfer is only deleted
	// afterwards. The release loop runs until all watches have returned.
	req := &releaseRequest{
		transfer: transfer.Transfer,
		done:     make(chan struct{}),
	}
	p.releaseCh <- req
	<-req.done
}

func (p *Processor) listen() {
	defer p.wg.Done()

	for {
		select {
		case req := <-p.releaseCh:
			p.release(req)

		case <-p.stopCh:
			for {
				select {
				case req := <-p.releaseCh:
					p.release(req)
				default:
					return
				}
			}
		}
	}
}

func (p *Processor) release(req *releaseRequest) {
	defer close(req.done)

	transfer := req.transfer
	ctx, cancel := context.WithTimeout(context.Background(), ReleaseTimeout)
	defer cancel()

	tx, err := p.ReleaseTransfer(ctx, transfer, transfer.ToChainId)
	if err != nil {
		log.Errorf("Failed to release transfer %s, err = %v", transfer.MsgHash.Hex(), err)
		return
	}

	log.Info("Released transfer ", transfer.MsgHash.Hex(), " with tx ", tx.Hash().Hex())
}

// ReleaseTransfer releases a confirmed transfer as a relayer acting on currentChainId.
func (p *Processor) ReleaseTransfer(ctx context.Context, transfer *types.BridgeTransaction,
	currentChainId uint64) (*ethtypes.Transaction, error) {
	if transfer == nil {
		return nil, types.ErrMissingMessage
	}

	return p.dispatcher.ReleaseTransfer(ctx, transfer, currentChainId, p.signers[transfer.FromChainId])
}

func (p *Processor) PendingTransfers() []*types.PendingTransfer {
	return p.tracker.Pending()
}
