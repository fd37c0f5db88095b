package chain

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
)

// Dial connects to the JSON-RPC endpoint and verifies the node answers and
// serves the chain we expect.
func Dial(ctx context.Context, rawURL string, wantChainID int64) (*ethclient.Client, *big.Int, error) {
	client, err := ethclient.DialContext(ctx, rawURL)
	if err != nil {
		return nil, nil, fmt.Errorf("chain: dial %s: %w", rawURL, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	chainID, err := client.ChainID(pingCtx)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("chain: chain id: %w", err)
	}
	if wantChainID != 0 && chainID.Int64() != wantChainID {
		client.Close()
		return nil, nil, fmt.Errorf("chain: node serves chain %s, want %d", chainID, wantChainID)
	}
	log.Printf("chain: connected to %s (chain id %s)", rawURL, chainID)
	return client, chainID, nil
}
