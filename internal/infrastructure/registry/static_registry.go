package registry

import (
	"context"
	"strings"

	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/repository"
)

// Curated mainnet tables. Keys are lowercase addresses.
var knownTokens = map[string]entity.TokenInfo{
	"0xdac17f958d2ee523a2206206994597c13d831ec7": {Symbol: "USDT", Name: "Tether USD", Decimals: 6},
	"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48": {Symbol: "USDC", Name: "USD Coin", Decimals: 6},
	"0x6b175474e89094c44da98b954eedeac495271d0f": {Symbol: "DAI", Name: "Dai Stablecoin", Decimals: 18},
	"0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2": {Symbol: "WETH", Name: "Wrapped Ether", Decimals: 18},
	"0x2260fac5e5542a773aa44fbcfedf7c193bc2c599": {Symbol: "WBTC", Name: "Wrapped BTC", Decimals: 8},
	"0x1f9840a85d5af5bf1d1762f925bdaddc4201f984": {Symbol: "UNI", Name: "Uniswap", Decimals: 18},
	"0x514910771af9ca656af840dff83e8264ecf986ca": {Symbol: "LINK", Name: "Chainlink", Decimals: 18},
	"0x7d1afa7b718fb893db30a3abc0cfc608aacfebb0": {Symbol: "MATIC", Name: "Polygon", Decimals: 18},
	"0x95ad61b0a150d79219dcf64e1e6cc01f0b64c4ce": {Symbol: "SHIB", Name: "Shiba Inu", Decimals: 18},
	"0x4d224452801aced8b2f0aebe155379bb5d594381": {Symbol: "APE", Name: "ApeCoin", Decimals: 18},
}

var knownAddresses = map[string]entity.AddressLabel{
	"0x28c6c06298d514db089934071355e5743bf21d60": {Name: "Binance Hot Wallet", Type: entity.AddressTypeExchange},
	"0x21a31ee1afc51d94c2efccaa2092ad1028285549": {Name: "Binance", Type: entity.AddressTypeExchange},
	"0xdfd5293d8e347dfe59e90efd55b2956a1343963d": {Name: "Binance", Type: entity.AddressTypeExchange},
	"0x56eddb7aa87536c09ccc2793473599fd21a8b17f": {Name: "Coinbase", Type: entity.AddressTypeExchange},
	"0x71660c4005ba85c37ccec55d0c4493e66fe775d3": {Name: "Coinbase", Type: entity.AddressTypeExchange},
	"0x7a250d5630b4cf539739df2c5dacb4c659f2488d": {Name: "Uniswap V2 Router", Type: entity.AddressTypeDEX},
	"0x68b3465833fb72a70ecdf485e0e4c7bd8665fc45": {Name: "Uniswap V3 Router", Type: entity.AddressTypeDEX},
	"0xe592427a0aece92de3edee1f18e0157c05861564": {Name: "Uniswap V3", Type: entity.AddressTypeDEX},
	"0x7be8076f4ea4a4ad08075c2508e481d6c946d12b": {Name: "OpenSea", Type: entity.AddressTypeNFT},
	"0x00000000006c3852cbef3e08e8df289169ede581": {Name: "Seaport", Type: entity.AddressTypeNFT},
}

// StaticRegistry serves the curated in-process tables. It is the default
// backend and never fails.
type StaticRegistry struct{}

// NewStaticRegistry creates the in-process registry
func NewStaticRegistry() repository.AddressRegistry {
	return &StaticRegistry{}
}

// LookupAddress resolves a known exchange, DEX or marketplace address
func (r *StaticRegistry) LookupAddress(_ context.Context, address string) (*entity.AddressLabel, error) {
	if label, ok := knownAddresses[strings.ToLower(address)]; ok {
		out := label
		return &out, nil
	}
	return nil, nil
}

// LookupToken resolves a known ERC20 contract to its metadata
func (r *StaticRegistry) LookupToken(_ context.Context, contractAddress string) (*entity.TokenInfo, error) {
	if token, ok := knownTokens[strings.ToLower(contractAddress)]; ok {
		out := token
		return &out, nil
	}
	return nil, nil
}
