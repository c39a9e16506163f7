package blockchain

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/config"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/logger"
)

// erc20MetadataABI covers the three read-only calls needed for token metadata
const erc20MetadataABI = `[
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"name","outputs":[{"name":"","type":"string"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"}
]`

// EthereumClient wraps the JSON-RPC client with the calls the decoder needs
type EthereumClient struct {
	client         *ethclient.Client
	erc20ABI       abi.ABI
	requestTimeout time.Duration
	logger         *logger.Logger

	mu      sync.Mutex
	chainID *big.Int
}

// NewEthereumClient dials the configured RPC endpoint
func NewEthereumClient(cfg *config.Config, logger *logger.Logger) (*EthereumClient, error) {
	parsed, err := abi.JSON(strings.NewReader(erc20MetadataABI))
	if err != nil {
		return nil, eris.Wrap(err, "ethereum: parse erc20 metadata abi")
	}

	client, err := ethclient.Dial(cfg.Ethereum.RPCURL)
	if err != nil {
		return nil, eris.Wrapf(err, "ethereum: dial %s", cfg.Ethereum.RPCURL)
	}

	log := logger.WithComponent("ethereum-client")
	log.Info("Connected to Ethereum RPC", zap.String("network", cfg.Ethereum.Network))

	return &EthereumClient{
		client:         client,
		erc20ABI:       parsed,
		requestTimeout: cfg.Ethereum.RequestTimeout,
		logger:         log,
	}, nil
}

// Close releases the underlying RPC connection
func (c *EthereumClient) Close() {
	c.client.Close()
}

func (c *EthereumClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.requestTimeout > 0 {
		return context.WithTimeout(ctx, c.requestTimeout)
	}
	return ctx, func() {}
}

// TransactionByHash fetches a transaction and its pending flag
func (c *EthereumClient) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.client.TransactionByHash(ctx, hash)
}

// TransactionReceipt fetches the receipt of a mined transaction
func (c *EthereumClient) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.client.TransactionReceipt(ctx, hash)
}

// HeaderByNumber fetches a block header, used for the block timestamp
func (c *EthereumClient) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.client.HeaderByNumber(ctx, number)
}

// BalanceAt fetches the current balance of an address in wei
func (c *EthereumClient) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.client.BalanceAt(ctx, address, nil)
}

// NonceAt fetches the outgoing transaction count of an address
func (c *EthereumClient) NonceAt(ctx context.Context, address common.Address) (uint64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.client.NonceAt(ctx, address, nil)
}

// Sender recovers the from address of a signed transaction
func (c *EthereumClient) Sender(ctx context.Context, tx *types.Transaction) (common.Address, error) {
	chainID, err := c.getChainID(ctx)
	if err != nil {
		return common.Address{}, err
	}
	return types.Sender(types.LatestSignerForChainID(chainID), tx)
}

func (c *EthereumClient) getChainID(ctx context.Context) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.chainID != nil {
		return c.chainID, nil
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	id, err := c.client.ChainID(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "ethereum: chain id")
	}
	c.chainID = id
	return id, nil
}

// TokenMetadata reads symbol, name and decimals from an ERC20 contract.
// Returns (nil, nil) when the contract does not answer the metadata calls.
func (c *EthereumClient) TokenMetadata(ctx context.Context, contract common.Address) (*entity.TokenInfo, error) {
	symbol, err := c.callString(ctx, contract, "symbol")
	if err != nil {
		return nil, nil
	}
	name, err := c.callString(ctx, contract, "name")
	if err != nil {
		name = symbol
	}
	decimals, err := c.callUint8(ctx, contract, "decimals")
	if err != nil {
		decimals = 18
	}
	return &entity.TokenInfo{Symbol: symbol, Name: name, Decimals: decimals}, nil
}

func (c *EthereumClient) call(ctx context.Context, contract common.Address, method string) ([]interface{}, error) {
	input, err := c.erc20ABI.Pack(method)
	if err != nil {
		return nil, err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	output, err := c.client.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: input}, nil)
	if err != nil {
		return nil, err
	}
	return c.erc20ABI.Unpack(method, output)
}

func (c *EthereumClient) callString(ctx context.Context, contract common.Address, method string) (string, error) {
	out, err := c.call(ctx, contract, method)
	if err != nil {
		return "", eris.Wrapf(err, "ethereum: call %s", method)
	}
	if len(out) == 0 {
		return "", eris.Errorf("ethereum: %s returned nothing", method)
	}
	s, ok := out[0].(string)
	if !ok {
		return "", eris.Errorf("ethereum: %s returned non-string", method)
	}
	return s, nil
}

func (c *EthereumClient) callUint8(ctx context.Context, contract common.Address, method string) (uint8, error) {
	out, err := c.call(ctx, contract, method)
	if err != nil {
		return 0, eris.Wrapf(err, "ethereum: call %s", method)
	}
	if len(out) == 0 {
		return 0, eris.Errorf("ethereum: %s returned nothing", method)
	}
	d, ok := out[0].(uint8)
	if !ok {
		return 0, eris.Errorf("ethereum: %s returned non-uint8", method)
	}
	return d, nil
}
