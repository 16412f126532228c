package eth

import (
	"context"
	"fmt"
	"math/big"
	"math/rand"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/ethclient/gethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sisu-network/dbridge/config"
	"github.com/sisu-network/lib/log"
)

const (
	RpcTimeOut          = time.Second * 10
	HealthCheckInterval = time.Minute * 10
)

type NoHealthyClientErr struct {
	chain string
}

func NewNoHealthyClientErr(chain string) error {
	return &NoHealthyClientErr{chain: chain}
}

func (e *NoHealthyClientErr) Error() string {
	return fmt.Sprintf("No healthy client for chain %s", e.chain)
}

// EthClient is a wrapper around eth.client so that we can mock it in tests. It is also the
// backend of the bound bridge and vault contracts.
type EthClient interface {
	bind.ContractBackend

	Start()
	Close()

	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error)
	BalanceAt(ctx context.Context, account common.Address, block *big.Int) (*big.Int, error)
	GetProof(ctx context.Context, account common.Address, keys []string, blockNumber *big.Int) (*gethclient.AccountResult, error)
}

type rpcConn struct {
	rpc  string
	eth  *ethclient.Client
	geth *gethclient.Client
	raw  *rpc.Client
}

func (c *rpcConn) close() {
	c.raw.Close()
}

type defaultEthClient struct {
	chain string
	rpcs  []string

	conns     []*rpcConn
	healthies []bool

	lock   *sync.RWMutex
	stopCh chan struct{}
	once   sync.Once
}

func NewEthClient(cfg config.Chain) EthClient {
	return &defaultEthClient{
		chain:  cfg.Chain,
		rpcs:   cfg.Rpcs,
		lock:   &sync.RWMutex{},
		stopCh: make(chan struct{}),
	}
}

func (c *defaultEthClient) Start() {
	c.updateRpcs()
	go c.loopCheck()
}

func (c *defaultEthClient) Close() {
	c.once.Do(func() {
		close(c.stopCh)

		c.lock.Lock()
		defer c.lock.Unlock()
		for _, conn := range c.conns {
			conn.close()
		}
		c.conns, c.healthies = nil, nil
	})
}

func (c *defaultEthClient) loopCheck() {
	ticker := time.NewTicker(HealthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.updateRpcs()
		}
	}
}

func (c *defaultEthClient) updateRpcs() {
	conns, healthies := c.getRpcsHealthiness(c.rpcs)

	c.lock.Lock()
	oldConns := c.conns
	c.conns, c.healthies = conns, healthies
	c.lock.Unlock()

	// Close all the old clients
	for _, conn := range oldConns {
		conn.close()
	}
}

func (c *defaultEthClient) getRpcsHealthiness(allRpcs []string) ([]*rpcConn, []bool) {
	conns := make([]*rpcConn, 0, len(allRpcs))
	healthies := make([]bool, 0, len(allRpcs))

	for _, url := range allRpcs {
		ctx, cancel := context.WithTimeout(context.Background(), RpcTimeOut)
		raw, err := rpc.DialContext(ctx, url)
		if err != nil {
			cancel()
			log.Errorf("Cannot dial %s for chain %s, err = %v", url, c.chain, err)
			continue
		}

		conn := &rpcConn{
			rpc:  url,
			eth:  ethclient.NewClient(raw),
			geth: gethclient.New(raw),
			raw:  raw,
		}

		_, err = conn.eth.BlockNumber(ctx)
		cancel()

		conns = append(conns, conn)
		healthies = append(healthies, err == nil)
		if err != nil {
			log.Warnf("Rpc %s of chain %s is not healthy, err = %v", url, c.chain, err)
		}
	}

	return conns, healthies
}

func (c *defaultEthClient) shuffle() ([]*rpcConn, []bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	n := len(c.conns)

	conns := make([]*rpcConn, n)
	healthy := make([]bool, n)

	copy(conns, c.conns)
	copy(healthy, c.healthies)

	rand.Shuffle(n, func(x, y int) {
		conns[x], conns[y] = conns[y], conns[x]
		healthy[x], healthy[y] = healthy[y], healthy[x]
	})

	return conns, healthy
}

func (c *defaultEthClient) getHealthyClient() *rpcConn {
	// Shuffle rpcs so that we will use different healthy rpc
	conns, healthies := c.shuffle()
	for i, healthy := range healthies {
		if healthy {
			return conns[i]
		}
	}

	return nil
}

func execute[T any](c *defaultEthClient, f func(conn *rpcConn) (T, error)) (T, error) {
	conn := c.getHealthyClient()
	if conn == nil {
		var empty T
		return empty, NewNoHealthyClientErr(c.chain)
	}

	return f(conn)
}

func (c *defaultEthClient) ChainID(ctx context.Context) (*big.Int, error) {
	return execute(c, func(conn *rpcConn) (*big.Int, error) {
		return conn.eth.ChainID(ctx)
	})
}

func (c *defaultEthClient) BlockNumber(ctx context.Context) (uint64, error) {
	return execute(c, func(conn *rpcConn) (uint64, error) {
		return conn.eth.BlockNumber(ctx)
	})
}

func (c *defaultEthClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	return execute(c, func(conn *rpcConn) (*ethtypes.Receipt, error) {
		return conn.eth.TransactionReceipt(ctx, txHash)
	})
}

func (c *defaultEthClient) BalanceAt(ctx context.Context, account common.Address, block *big.Int) (*big.Int, error) {
	return execute(c, func(conn *rpcConn) (*big.Int, error) {
		return conn.eth.BalanceAt(ctx, account, block)
	})
}

func (c *defaultEthClient) GetProof(ctx context.Context, account common.Address, keys []string,
	blockNumber *big.Int) (*gethclient.AccountResult, error) {
	return execute(c, func(conn *rpcConn) (*gethclient.AccountResult, error) {
		return conn.geth.GetProof(ctx, account, keys, blockNumber)
	})
}

func (c *defaultEthClient) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return execute(c, func(conn *rpcConn) ([]byte, error) {
		return conn.eth.CodeAt(ctx, contract, blockNumber)
	})
}

func (c *defaultEthClient) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return execute(c, func(conn *rpcConn) ([]byte, error) {
		return conn.eth.CallContract(ctx, call, blockNumber)
	})
}

func (c *defaultEthClient) HeaderByNumber(ctx context.Context, number *big.Int) (*ethtypes.Header, error) {
	return execute(c, func(conn *rpcConn) (*ethtypes.Header, error) {
		return conn.eth.HeaderByNumber(ctx, number)
	})
}

func (c *defaultEthClient) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return execute(c, func(conn *rpcConn) ([]byte, error) {
		return conn.eth.PendingCodeAt(ctx, account)
	})
}

func (c *defaultEthClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return execute(c, func(conn *rpcConn) (uint64, error) {
		return conn.eth.PendingNonceAt(ctx, account)
	})
}

func (c *defaultEthClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return execute(c, func(conn *rpcConn) (*big.Int, error) {
		return conn.eth.SuggestGasPrice(ctx)
	})
}

func (c *defaultEthClient) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return execute(c, func(conn *rpcConn) (*big.Int, error) {
		return conn.eth.SuggestGasTipCap(ctx)
	})
}

func (c *defaultEthClient) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	return execute(c, func(conn *rpcConn) (uint64, error) {
		return conn.eth.EstimateGas(ctx, call)
	})
}

func (c *defaultEthClient) SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error {
	_, err := execute(c, func(conn *rpcConn) (struct{}, error) {
		return struct{}{}, conn.eth.SendTransaction(ctx, tx)
	})

	return err
}

func (c *defaultEthClient) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]ethtypes.Log, error) {
	return execute(c, func(conn *rpcConn) ([]ethtypes.Log, error) {
		return conn.eth.FilterLogs(ctx, query)
	})
}

func (c *defaultEthClient) SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery,
	ch chan<- ethtypes.Log) (ethereum.Subscription, error) {
	return execute(c, func(conn *rpcConn) (ethereum.Subscription, error) {
		return conn.eth.SubscribeFilterLogs(ctx, query, ch)
	})
}
