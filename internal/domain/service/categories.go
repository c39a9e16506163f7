package service

import "github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"

// TxCategories is the closed category set of the transaction-type classifier,
// in model output order
var TxCategories = []string{
	"Simple Transfer",
	"Token Transfer",
	"DEX Swap",
	"NFT Transaction",
	"Staking/Yield",
	"Bridge Transfer",
	"Contract Deployment",
	"Governance Vote",
	"Lending/Borrowing",
	"Other",
}

var categoryDescriptions = map[string]string{
	"Simple Transfer":     "A basic ETH transfer between two addresses",
	"Token Transfer":      "Transfer of ERC-20 tokens between addresses",
	"DEX Swap":            "Token exchange on a decentralized exchange",
	"NFT Transaction":     "NFT purchase, sale, or transfer",
	"Staking/Yield":       "Staking tokens or yield farming activity",
	"Bridge Transfer":     "Cross-chain asset transfer via bridge",
	"Contract Deployment": "Deployment of a new smart contract",
	"Governance Vote":     "Participation in DAO governance",
	"Lending/Borrowing":   "DeFi lending or borrowing activity",
	"Other":               "Transaction type could not be classified",
}

// CategoryDescription returns the display description for a category
func CategoryDescription(category string) string {
	if desc, ok := categoryDescriptions[category]; ok {
		return desc
	}
	return "Unknown transaction type"
}

// HeuristicCategory derives a display category and description from decoded
// transaction fields alone, without consulting the classifier model. Used by
// the quick-summary path.
func HeuristicCategory(tx *entity.TransactionRecord, tier entity.ValueTier) (string, string) {
	switch {
	case tx.ContractCreation:
		return "Contract Deployment", CategoryDescription("Contract Deployment")
	case tx.HasTokenData():
		return tx.Token.Symbol + " Transfer", "Transfer of " + tx.Token.Symbol + " tokens"
	case tx.ContractInteraction:
		switch tx.MethodName {
		case "swapExactETHForTokens", "swapExactTokensForTokens":
			return "DEX Swap", "Token exchange on decentralized exchange"
		case "addLiquidity", "addLiquidityETH":
			return "Liquidity Provision", "Adding liquidity to a pool"
		case "safeTransferFrom":
			return "NFT Transfer", "NFT token transfer"
		}
		if tx.ToLabel != nil {
			switch tx.ToLabel.Type {
			case entity.AddressTypeDEX:
				return "DEX Interaction", "Interaction with " + tx.ToLabel.Name
			case entity.AddressTypeNFT:
				return "NFT Transaction", "Interaction with " + tx.ToLabel.Name
			}
		}
		return "Contract Interaction", "Smart contract execution"
	default:
		return tier.DisplayName() + " Native ETH Transfer", "Native ETH transfer between addresses"
	}
}

// FraudRecommendation returns the per-tier advisory text used by the direct
// fraud prediction endpoint
func FraudRecommendation(level entity.RiskLevel) string {
	switch level {
	case entity.RiskLevelLow:
		return "Transaction appears safe. Normal activity patterns detected."
	case entity.RiskLevelMedium:
		return "Exercise caution. Some unusual patterns detected in wallet behavior."
	case entity.RiskLevelHigh:
		return "High risk detected. Recommend further investigation before proceeding."
	case entity.RiskLevelCritical:
		return "Critical risk level. Strong indicators of fraudulent activity."
	default:
		return "Risk could not be assessed."
	}
}
