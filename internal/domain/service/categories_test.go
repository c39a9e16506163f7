package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
)

func TestEveryCategoryHasDescription(t *testing.T) {
	for _, cat := range TxCategories {
		assert.NotEqual(t, "Unknown transaction type", CategoryDescription(cat), "category %q", cat)
	}
	assert.Equal(t, "Unknown transaction type", CategoryDescription("Not A Category"))
}

func TestHeuristicCategory(t *testing.T) {
	base := func() *entity.TransactionRecord {
		return &entity.TransactionRecord{
			Hash:     "0x3e3a0a8f6f0f1f91cbd1aa3f4f28c663ff3a1a1988c89c72e21c54d171cfe2ac",
			From:     "0x1111111111111111111111111111111111111111",
			To:       "0x2222222222222222222222222222222222222222",
			ValueETH: 1.5,
			Status:   entity.TxStatusSuccess,
		}
	}

	t.Run("contract deployment", func(t *testing.T) {
		tx := base()
		tx.ContractCreation = true
		cat, _ := HeuristicCategory(tx, entity.ValueTierMedium)
		assert.Equal(t, "Contract Deployment", cat)
	})

	t.Run("token transfer", func(t *testing.T) {
		tx := base()
		tx.IsTokenTransfer = true
		tx.Token = &entity.TokenInfo{Symbol: "USDT", Decimals: 6}
		tx.TokenAmount = 100
		cat, desc := HeuristicCategory(tx, entity.ValueTierMedium)
		assert.Equal(t, "USDT Transfer", cat)
		assert.Equal(t, "Transfer of USDT tokens", desc)
	})

	t.Run("dex swap by method", func(t *testing.T) {
		tx := base()
		tx.ContractInteraction = true
		tx.MethodName = "swapExactETHForTokens"
		cat, _ := HeuristicCategory(tx, entity.ValueTierMedium)
		assert.Equal(t, "DEX Swap", cat)
	})

	t.Run("liquidity by method", func(t *testing.T) {
		tx := base()
		tx.ContractInteraction = true
		tx.MethodName = "addLiquidityETH"
		cat, _ := HeuristicCategory(tx, entity.ValueTierMedium)
		assert.Equal(t, "Liquidity Provision", cat)
	})

	t.Run("nft transfer by method", func(t *testing.T) {
		tx := base()
		tx.ContractInteraction = true
		tx.MethodName = "safeTransferFrom"
		cat, _ := HeuristicCategory(tx, entity.ValueTierMedium)
		assert.Equal(t, "NFT Transfer", cat)
	})

	t.Run("dex interaction by label", func(t *testing.T) {
		tx := base()
		tx.ContractInteraction = true
		tx.MethodName = "multicall"
		tx.ToLabel = &entity.AddressLabel{Name: "Uniswap V3 Router", Type: entity.AddressTypeDEX}
		cat, desc := HeuristicCategory(tx, entity.ValueTierMedium)
		assert.Equal(t, "DEX Interaction", cat)
		assert.Equal(t, "Interaction with Uniswap V3 Router", desc)
	})

	t.Run("generic contract interaction", func(t *testing.T) {
		tx := base()
		tx.ContractInteraction = true
		tx.MethodName = "Unknown"
		cat, _ := HeuristicCategory(tx, entity.ValueTierMedium)
		assert.Equal(t, "Contract Interaction", cat)
	})

	t.Run("native transfer uses value tier", func(t *testing.T) {
		cat, _ := HeuristicCategory(base(), entity.ValueTierHigh)
		assert.Equal(t, "High Value Native ETH Transfer", cat)
	})
}

func TestFraudRecommendation(t *testing.T) {
	assert.Contains(t, FraudRecommendation(entity.RiskLevelLow), "appears safe")
	assert.Contains(t, FraudRecommendation(entity.RiskLevelMedium), "Exercise caution")
	assert.Contains(t, FraudRecommendation(entity.RiskLevelHigh), "further investigation")
	assert.Contains(t, FraudRecommendation(entity.RiskLevelCritical), "fraudulent activity")
	assert.Equal(t, "Risk could not be assessed.", FraudRecommendation(entity.RiskLevelUnknown))
}
