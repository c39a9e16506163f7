package service

import (
	"context"

	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
)

// TransactionDecoder fetches and decodes on-chain transaction data.
// Implementations live in infrastructure/blockchain.
type TransactionDecoder interface {
	// Decode fetches the transaction and its receipt and builds an immutable
	// TransactionRecord. Returns entity.ErrTransactionNotFound when the chain
	// has no transaction for the hash.
	Decode(ctx context.Context, txHash string) (*entity.TransactionRecord, error)

	// AddressStats returns historical behavior statistics for an address,
	// used as auxiliary input to the fraud feature set.
	AddressStats(ctx context.Context, address string) (*entity.WalletStats, error)
}
