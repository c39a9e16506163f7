package repository

import (
	"context"

	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
)

// AddressRegistry resolves known addresses (exchanges, DEX routers, NFT
// marketplaces) and token contracts to display metadata. Read-only; lookups
// return (nil, nil) for unknown entries so callers can distinguish a miss
// from a backend failure.
type AddressRegistry interface {
	// LookupAddress resolves a wallet or contract address to a known label
	LookupAddress(ctx context.Context, address string) (*entity.AddressLabel, error)

	// LookupToken resolves an ERC20 contract address to token metadata
	LookupToken(ctx context.Context, contractAddress string) (*entity.TokenInfo, error)
}
