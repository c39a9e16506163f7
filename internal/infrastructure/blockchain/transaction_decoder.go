package blockchain

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/repository"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/service"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/config"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/logger"
)

var (
	weiPerETH  = new(big.Float).SetFloat64(1e18)
	weiPerGwei = new(big.Float).SetFloat64(1e9)
)

// Baseline behavioral profile used for the fields the RPC node cannot answer.
// Full per-address history needs an indexer; until one backs this service the
// fraud features fall back to a typical-wallet prior.
const (
	baselineAvgGasGwei      = 30.0
	baselineFailedRatio     = 0.02
	baselineTxGapSeconds    = 3600.0
	baselineUniquePartners  = 25
	baselineSentPerTx       = 1.0
	baselineReceivedPerSent = 0.8
)

// TransactionDecoderService builds immutable transaction records from RPC data
type TransactionDecoderService struct {
	client   *EthereumClient
	registry repository.AddressRegistry
	network  string
	logger   *logger.Logger
}

// NewTransactionDecoderService creates the decoder backing the pipeline
func NewTransactionDecoderService(
	cfg *config.Config,
	client *EthereumClient,
	registry repository.AddressRegistry,
	logger *logger.Logger,
) service.TransactionDecoder {
	return &TransactionDecoderService{
		client:   client,
		registry: registry,
		network:  cfg.Ethereum.Network,
		logger:   logger.WithComponent("transaction-decoder"),
	}
}

// Decode fetches a transaction plus its receipt and block header and produces
// the decoded record, including token movement and known-address labels
func (s *TransactionDecoderService) Decode(ctx context.Context, txHash string) (*entity.TransactionRecord, error) {
	hash := common.HexToHash(txHash)

	tx, pending, err := s.client.TransactionByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, entity.ErrTransactionNotFound
		}
		return nil, eris.Wrapf(entity.ErrDecodeFailed, "fetch transaction %s: %v", txHash, err)
	}

	record := &entity.TransactionRecord{
		Hash:     tx.Hash().Hex(),
		ValueWei: tx.Value().String(),
		ValueETH: weiToETH(tx.Value()),
		GasLimit: tx.Gas(),
		Nonce:    tx.Nonce(),
		Network:  s.network,
		Status:   entity.TxStatusSuccess,
	}

	from, err := s.client.Sender(ctx, tx)
	if err != nil {
		return nil, eris.Wrapf(entity.ErrDecodeFailed, "recover sender of %s: %v", txHash, err)
	}
	record.From = from.Hex()

	gasPrice := tx.GasPrice()
	record.GasUsed = tx.Gas()

	if !pending {
		receipt, err := s.client.TransactionReceipt(ctx, hash)
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			return nil, eris.Wrapf(entity.ErrDecodeFailed, "fetch receipt of %s: %v", txHash, err)
		}
		if receipt != nil {
			record.BlockNumber = receipt.BlockNumber.Uint64()
			record.GasUsed = receipt.GasUsed
			if receipt.EffectiveGasPrice != nil {
				gasPrice = receipt.EffectiveGasPrice
			}
			if receipt.Status != types.ReceiptStatusSuccessful {
				record.Status = entity.TxStatusFailed
			}
			if ts := s.blockTimestamp(ctx, receipt.BlockNumber); ts != nil {
				record.Timestamp = ts
			}
		}
	}

	record.GasPriceGwei = weiToGwei(gasPrice)
	fee := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(record.GasUsed))
	record.FeeETH = weiToETH(fee)

	data := tx.Data()
	record.InputData = "0x" + hex.EncodeToString(data)
	record.ContractInteraction = len(data) > 0

	if tx.To() == nil {
		record.ContractCreation = true
		record.To = "Contract Creation"
	} else {
		record.To = tx.To().Hex()
	}

	if len(data) >= 4 {
		record.MethodID = "0x" + hex.EncodeToString(data[:4])
		record.MethodName = MethodName(record.MethodID)
	}

	if !record.ContractCreation {
		s.decodeTokenMovement(ctx, record, tx.To())
		record.ToLabel = s.lookupLabel(ctx, record.To)
	}
	record.FromLabel = s.lookupLabel(ctx, record.From)

	s.logger.Debug("Decoded transaction",
		zap.String("tx_hash", record.Hash),
		zap.String("method", record.MethodName),
		zap.Bool("token_transfer", record.IsTokenTransfer),
		zap.String("status", string(record.Status)))

	return record, nil
}

// decodeTokenMovement enriches the record with token metadata and the decoded
// transfer amount when the calldata is an ERC20 movement
func (s *TransactionDecoderService) decodeTokenMovement(ctx context.Context, record *entity.TransactionRecord, contract *common.Address) {
	if !IsERC20Transfer(record.MethodID) {
		return
	}
	record.IsTokenTransfer = true

	token := s.lookupToken(ctx, contract)
	if token == nil {
		return
	}
	record.Token = token

	call, err := DecodeTransferCall(record.InputData)
	if err != nil {
		s.logger.Debug("Token calldata not decodable",
			zap.String("tx_hash", record.Hash),
			zap.Error(err))
		return
	}
	record.TokenRecipient = call.Recipient
	record.TokenAmount = scaleTokenAmount(call.Amount, token.Decimals)
}

func (s *TransactionDecoderService) lookupToken(ctx context.Context, contract *common.Address) *entity.TokenInfo {
	token, err := s.registry.LookupToken(ctx, contract.Hex())
	if err != nil {
		s.logger.Warn("Token registry lookup failed",
			zap.String("contract", contract.Hex()),
			zap.Error(err))
	}
	if token != nil {
		return token
	}
	token, err = s.client.TokenMetadata(ctx, *contract)
	if err != nil {
		s.logger.Debug("On-chain token metadata unavailable",
			zap.String("contract", contract.Hex()),
			zap.Error(err))
		return nil
	}
	return token
}

func (s *TransactionDecoderService) lookupLabel(ctx context.Context, address string) *entity.AddressLabel {
	label, err := s.registry.LookupAddress(ctx, address)
	if err != nil {
		s.logger.Warn("Address registry lookup failed",
			zap.String("address", address),
			zap.Error(err))
		return nil
	}
	return label
}

func (s *TransactionDecoderService) blockTimestamp(ctx context.Context, number *big.Int) *time.Time {
	header, err := s.client.HeaderByNumber(ctx, number)
	if err != nil {
		s.logger.Debug("Block header unavailable",
			zap.String("block", number.String()),
			zap.Error(err))
		return nil
	}
	ts := time.Unix(int64(header.Time), 0).UTC()
	return &ts
}

// AddressStats combines live balance and nonce with a baseline behavioral
// profile and the registry label for the address
func (s *TransactionDecoderService) AddressStats(ctx context.Context, address string) (*entity.WalletStats, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: %q is not an address", entity.ErrDecodeFailed, address)
	}
	addr := common.HexToAddress(address)

	balance, err := s.client.BalanceAt(ctx, addr)
	if err != nil {
		return nil, eris.Wrapf(entity.ErrDecodeFailed, "balance of %s: %v", address, err)
	}
	nonce, err := s.client.NonceAt(ctx, addr)
	if err != nil {
		return nil, eris.Wrapf(entity.ErrDecodeFailed, "nonce of %s: %v", address, err)
	}

	balanceETH := weiToETH(balance)
	txCount := int64(nonce)
	sent := float64(txCount) * baselineSentPerTx

	stats := &entity.WalletStats{
		Address:                   addr.Hex(),
		BalanceETH:                balanceETH,
		TransactionCount:          txCount,
		TotalValueSent:            sent,
		TotalValueReceived:        sent*baselineReceivedPerSent + balanceETH,
		UniqueAddressesInteracted: minInt64(txCount, baselineUniquePartners),
		AvgTransactionValue:       baselineSentPerTx,
		MaxTransactionValue:       baselineSentPerTx * 2,
		MinTransactionValue:       baselineSentPerTx * 0.1,
		AvgGasPriceGwei:           baselineAvgGasGwei,
		ContractCreationCount:     0,
		FailedTransactionRatio:    baselineFailedRatio,
		TimeBetweenTxsAvgSec:      baselineTxGapSeconds,
		KnownLabel:                s.lookupLabel(ctx, addr.Hex()),
	}
	return stats, nil
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func weiToETH(wei *big.Int) float64 {
	out, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), weiPerETH).Float64()
	return out
}

func weiToGwei(wei *big.Int) float64 {
	out, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), weiPerGwei).Float64()
	return out
}

func scaleTokenAmount(raw *big.Int, decimals uint8) float64 {
	divisor := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	out, _ := new(big.Float).Quo(new(big.Float).SetInt(raw), divisor).Float64()
	return out
}
