package blockchain

import (
	"fmt"
	"math/big"
	"strings"
)

// Method IDs for transaction type detection
const (
	methodTransfer     = "0xa9059cbb"
	methodTransferFrom = "0x23b872dd"
	methodApprove      = "0x095ea7b3"
)

// methodNames maps known 4-byte selectors to human-readable names
var methodNames = map[string]string{
	methodTransfer:     "transfer",
	methodTransferFrom: "transferFrom",
	methodApprove:      "approve",
	"0x7ff36ab5":       "swapExactETHForTokens",
	"0x38ed1739":       "swapExactTokensForTokens",
	"0x2e1a7d4d":       "withdraw",
	"0xd0e30db0":       "deposit",
	"0x42842e0e":       "safeTransferFrom",
	"0xb88d4fde":       "safeTransferFrom",
	"0xa22cb465":       "setApprovalForAll",
	"0xe8e33700":       "addLiquidity",
	"0xf305d719":       "addLiquidityETH",
}

// erc20TransferMethods are the selectors that move token balances
var erc20TransferMethods = map[string]bool{
	methodTransfer:     true,
	methodTransferFrom: true,
	methodApprove:      true,
}

// MethodName resolves a selector to its known name, "Unknown" otherwise
func MethodName(methodID string) string {
	if name, ok := methodNames[strings.ToLower(methodID)]; ok {
		return name
	}
	return "Unknown"
}

// IsERC20Transfer reports whether a selector indicates an ERC20 token movement
func IsERC20Transfer(methodID string) bool {
	return erc20TransferMethods[strings.ToLower(methodID)]
}

// TransferCall is a decoded ERC20 transfer or transferFrom calldata payload
type TransferCall struct {
	Recipient string
	Amount    *big.Int
}

// DecodeTransferCall decodes transfer(address,uint256) and
// transferFrom(address,address,uint256) calldata into recipient and raw
// amount. Returns an error for any other selector or truncated calldata.
func DecodeTransferCall(inputData string) (*TransferCall, error) {
	data := strings.TrimPrefix(strings.ToLower(inputData), "0x")
	if len(data) < 8 {
		return nil, fmt.Errorf("calldata too short for a method selector: %d hex chars", len(data))
	}

	selector := "0x" + data[:8]
	args := data[8:]

	// Each ABI argument occupies one 32-byte word (64 hex chars); addresses
	// sit right-aligned in the word.
	var recipientWord, amountWord string
	switch selector {
	case methodTransfer:
		if len(args) < 128 {
			return nil, fmt.Errorf("transfer calldata truncated: %d hex chars", len(args))
		}
		recipientWord, amountWord = args[0:64], args[64:128]
	case methodTransferFrom:
		if len(args) < 192 {
			return nil, fmt.Errorf("transferFrom calldata truncated: %d hex chars", len(args))
		}
		recipientWord, amountWord = args[64:128], args[128:192]
	default:
		return nil, fmt.Errorf("selector %s is not a token transfer", selector)
	}

	amount, ok := new(big.Int).SetString(amountWord, 16)
	if !ok {
		return nil, fmt.Errorf("invalid amount word %q", amountWord)
	}

	return &TransferCall{
		Recipient: "0x" + recipientWord[24:],
		Amount:    amount,
	}, nil
}
