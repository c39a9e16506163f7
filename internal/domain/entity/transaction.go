package entity

import (
	"time"
)

// TxStatus represents the execution status of a transaction
type TxStatus string

const (
	TxStatusSuccess TxStatus = "Success"
	TxStatusFailed  TxStatus = "Failed"
)

// AddressType categorizes a known address
type AddressType string

const (
	AddressTypeExchange AddressType = "exchange"
	AddressTypeDEX      AddressType = "dex"
	AddressTypeNFT      AddressType = "nft"
	AddressTypeContract AddressType = "contract"
	AddressTypeEOA      AddressType = "eoa"
)

// AddressLabel is the resolved identity of a known address
type AddressLabel struct {
	Name string      `json:"name"`
	Type AddressType `json:"type"`
}

// TokenInfo holds ERC20 token metadata
type TokenInfo struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
}

// TransactionRecord is an immutable snapshot of a decoded on-chain transaction.
// It is created once per request by the decoder and never mutated afterwards.
type TransactionRecord struct {
	Hash        string     `json:"hash"`
	BlockNumber uint64     `json:"block_number"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
	From        string     `json:"from_address"`
	To          string     `json:"to_address"`
	ValueWei    string     `json:"value_wei"`
	ValueETH    float64    `json:"value_eth"`
	GasUsed     uint64     `json:"gas_used"`
	GasLimit    uint64     `json:"gas_limit"`
	// GasPriceGwei is the effective gas price in gwei
	GasPriceGwei float64  `json:"gas_price_gwei"`
	FeeETH       float64  `json:"transaction_fee_eth"`
	Nonce        uint64   `json:"nonce"`
	InputData    string   `json:"input_data"`
	Status       TxStatus `json:"status"`
	Network      string   `json:"network"`

	ContractInteraction bool   `json:"contract_interaction"`
	ContractCreation    bool   `json:"contract_creation"`
	MethodID            string `json:"method_id,omitempty"`
	MethodName          string `json:"method_name,omitempty"`

	IsTokenTransfer bool       `json:"is_token_transfer"`
	Token           *TokenInfo `json:"token_info,omitempty"`
	TokenAmount     float64    `json:"token_amount,omitempty"`
	TokenRecipient  string     `json:"token_recipient,omitempty"`

	FromLabel *AddressLabel `json:"from_address_info,omitempty"`
	ToLabel   *AddressLabel `json:"to_address_info,omitempty"`
}

// HasTokenData reports whether decoded token-transfer metadata is present
func (t *TransactionRecord) HasTokenData() bool {
	return t.IsTokenTransfer && t.Token != nil && t.TokenAmount > 0
}

// EffectiveRecipient returns the token recipient for token transfers, otherwise
// the transaction To address
func (t *TransactionRecord) EffectiveRecipient() string {
	if t.HasTokenData() && t.TokenRecipient != "" {
		return t.TokenRecipient
	}
	return t.To
}
