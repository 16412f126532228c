package bridge

import (
	"context"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/sisu-network/dbridge/chains/eth"
	"github.com/sisu-network/dbridge/config"
	"github.com/sisu-network/dbridge/types"
)

// ReleaseHandler completes a transfer of one asset type.
type ReleaseHandler interface {
	ReleaseTokens(ctx context.Context, req *eth.ReleaseRequest) (*ethtypes.Transaction, error)
}

type ChainMetadata struct {
	ChainId           uint64
	Name              string
	BridgeAddress     common.Address
	TokenVaultAddress common.Address
	Client            eth.EthClient
}

// Registry maps chain ids to chain metadata and asset types to release handlers. It is not
// modified after construction and can be shared without locking.
type Registry struct {
	chains   map[uint64]*ChainMetadata
	handlers map[types.AssetType]ReleaseHandler
}

func NewRegistry(chains []*ChainMetadata, handlers map[types.AssetType]ReleaseHandler) (*Registry, error) {
	r := &Registry{
		chains:   make(map[uint64]*ChainMetadata, len(chains)),
		handlers: make(map[types.AssetType]ReleaseHandler, len(handlers)),
	}

	for _, chain := range chains {
		if _, ok := r.chains[chain.ChainId]; ok {
			return nil, fmt.Errorf("chain %d is registered twice", chain.ChainId)
		}

		copied := *chain
		r.chains[chain.ChainId] = &copied
	}

	for assetType, handler := range handlers {
		r.handlers[assetType] = handler
	}

	return r, nil
}

// NewRegistryFromConfig builds the registry of all configured chains. clients must contain a
// client for every configured chain.
func NewRegistryFromConfig(cfg *config.Relayer, clients map[uint64]eth.EthClient,
	handlers map[types.AssetType]ReleaseHandler) (*Registry, error) {
	chains := make([]*ChainMetadata, 0, len(cfg.Chains))
	for name, chainCfg := range cfg.Chains {
		client, ok := clients[chainCfg.ChainId]
		if !ok {
			return nil, fmt.Errorf("no client for chain %s", name)
		}

		chains = append(chains, &ChainMetadata{
			ChainId:           chainCfg.ChainId,
			Name:              name,
			BridgeAddress:     common.HexToAddress(chainCfg.BridgeAddress),
			TokenVaultAddress: common.HexToAddress(chainCfg.TokenVaultAddress),
			Client:            client,
		})
	}

	return NewRegistry(chains, handlers)
}

// DefaultHandlers returns the release handlers of the native and token asset types.
func DefaultHandlers(prover eth.Prover) map[types.AssetType]ReleaseHandler {
	return map[types.AssetType]ReleaseHandler{
		types.AssetTypeNative: eth.NewEtherReleaser(prover),
		types.AssetTypeToken:  eth.NewERC20Releaser(prover),
	}
}

func (r *Registry) ChainMetadata(chainId uint64) (*ChainMetadata, error) {
	chain, ok := r.chains[chainId]
	if !ok {
		return nil, types.NewUnknownChainError(chainId)
	}

	return chain, nil
}

func (r *Registry) Handler(assetType types.AssetType) (ReleaseHandler, error) {
	handler, ok := r.handlers[assetType]
	if !ok {
		return nil, types.NewUnknownAssetTypeError(assetType)
	}

	return handler, nil
}

// ChainIds returns the registered chain ids in ascending order.
func (r *Registry) ChainIds() []uint64 {
	ids := make([]uint64, 0, len(r.chains))
	for id := range r.chains {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}
