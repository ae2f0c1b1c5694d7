// Package ethereum wraps go-ethereum's ethclient with the bounded-concurrency
// Multicall helper and a new-block subscription used by the scan
// orchestrator (C7).
package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	ethgo "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Client wraps the go-ethereum client with additional functionality.
type Client struct {
	client  *ethclient.Client
	rpcURL  string
	chainID *big.Int
	mu      sync.RWMutex
}

// NewClient dials rpcURL and verifies it reports the expected chain id.
func NewClient(rpcURL string, expectedChainID *big.Int) (*Client, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, err
	}

	if expectedChainID != nil && chainID.Cmp(expectedChainID) != 0 {
		client.Close()
		return nil, fmt.Errorf("ethereum: unexpected chain id %s, want %s", chainID, expectedChainID)
	}

	return &Client{
		client:  client,
		rpcURL:  rpcURL,
		chainID: chainID,
	}, nil
}

// Close closes the underlying client connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.client.Close()
}

// ChainID returns the chain ID.
func (c *Client) ChainID() *big.Int {
	return c.chainID
}

// CallContract executes a contract call.
func (c *Client) CallContract(ctx context.Context, msg ethgo.CallMsg) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client.CallContract(ctx, msg, nil)
}

// BlockNumber returns the current block number.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client.BlockNumber(ctx)
}

// SubscribeNewHead subscribes to new block headers, the per-block trigger
// each scan orchestrator instance (C7) waits on.
func (c *Client) SubscribeNewHead(ctx context.Context, ch chan<- *types.Header) (ethgo.Subscription, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client.SubscribeNewHead(ctx, ch)
}

// Multicall performs multiple contract calls with bounded concurrency. Used
// by the venue adapters' pool reads to fan out decimals/balanceOf reads and
// the venue's price/fee calls.
func (c *Client) Multicall(ctx context.Context, calls []ethgo.CallMsg) ([][]byte, error) {
	results := make([][]byte, len(calls))
	errs := make([]error, len(calls))
	var wg sync.WaitGroup

	// Limit concurrent calls to prevent overwhelming the RPC.
	semaphore := make(chan struct{}, 10)

	for i, call := range calls {
		wg.Add(1)
		go func(idx int, msg ethgo.CallMsg) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			result, err := c.CallContract(ctx, msg)
			results[idx] = result
			errs[idx] = err
		}(i, call)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}

	return results, nil
}

// ZeroAddress is the EVM zero address.
var ZeroAddress = common.HexToAddress("0x0000000000000000000000000000000000000000")
