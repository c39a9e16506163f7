package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
)

func sampleTx() *entity.TransactionRecord {
	ts := time.Date(2024, 3, 14, 18, 30, 0, 0, time.UTC)
	return &entity.TransactionRecord{
		Hash:         "0x3e3a0a8f6f0f1f91cbd1aa3f4f28c663ff3a1a1988c89c72e21c54d171cfe2ac",
		From:         "0x1111111111111111111111111111111111111111",
		To:           "0x2222222222222222222222222222222222222222",
		ValueETH:     1.5,
		GasUsed:      21000,
		GasLimit:     21000,
		GasPriceGwei: 25.0,
		InputData:    "0x",
		Status:       entity.TxStatusSuccess,
		Timestamp:    &ts,
	}
}

func sampleStats() *entity.WalletStats {
	return &entity.WalletStats{
		Address:                   "0x1111111111111111111111111111111111111111",
		TransactionCount:          120,
		TotalValueSent:            45.5,
		TotalValueReceived:        50.2,
		UniqueAddressesInteracted: 30,
		AvgTransactionValue:       0.8,
		MaxTransactionValue:       12.0,
		MinTransactionValue:       0.01,
		AvgGasPriceGwei:           28.0,
		ContractCreationCount:     1,
		FailedTransactionRatio:    0.03,
		TimeBetweenTxsAvgSec:      5400,
	}
}

func TestExtractFraudFeatures(t *testing.T) {
	fe := NewFeatureExtractor()

	fv, err := fe.Extract(sampleTx(), sampleStats(), entity.DomainFraud)
	require.NoError(t, err)

	assert.Equal(t, entity.DomainFraud, fv.Domain)
	require.Len(t, fv.Names, 11)
	assert.Equal(t, "transaction_count", fv.Names[0])
	assert.Equal(t, "time_between_txs_avg", fv.Names[10])

	count, ok := fv.Get("transaction_count")
	require.True(t, ok)
	assert.Equal(t, 120.0, count)
	ratio, ok := fv.Get("failed_transaction_ratio")
	require.True(t, ok)
	assert.Equal(t, 0.03, ratio)
}

func TestExtractFraudFeaturesSyntheticFallback(t *testing.T) {
	fe := NewFeatureExtractor()
	tx := sampleTx()

	fv, err := fe.Extract(tx, nil, entity.DomainFraud)
	require.NoError(t, err)

	sent, ok := fv.Get("total_value_sent")
	require.True(t, ok)
	assert.Equal(t, tx.ValueETH, sent)
	count, ok := fv.Get("transaction_count")
	require.True(t, ok)
	assert.Equal(t, 50.0, count)
}

func TestExtractGasFeatures(t *testing.T) {
	fe := NewFeatureExtractor()
	tx := sampleTx()
	tx.ContractInteraction = true
	tx.InputData = "0xa9059cbb" + "00"

	fv, err := fe.Extract(tx, nil, entity.DomainGas)
	require.NoError(t, err)

	require.Len(t, fv.Names, 7)
	isCall, _ := fv.Get("is_contract_call")
	assert.Equal(t, 1.0, isCall)
	size, _ := fv.Get("input_data_size")
	assert.Equal(t, 5.0, size)
	hour, _ := fv.Get("time_of_day")
	assert.Equal(t, 18.0, hour)
	day, _ := fv.Get("day_of_week")
	assert.Equal(t, float64(time.Thursday), day)
}

func TestExtractGasFeaturesNoTimestamp(t *testing.T) {
	fe := NewFeatureExtractor()
	tx := sampleTx()
	tx.Timestamp = nil

	fv, err := fe.Extract(tx, nil, entity.DomainGas)
	require.NoError(t, err)

	hour, _ := fv.Get("time_of_day")
	assert.Equal(t, 12.0, hour)
	day, _ := fv.Get("day_of_week")
	assert.Equal(t, 3.0, day)
}

func TestExtractClassificationFeatures(t *testing.T) {
	fe := NewFeatureExtractor()
	tx := sampleTx()
	tx.ToLabel = &entity.AddressLabel{Name: "Uniswap V3 Router", Type: entity.AddressTypeDEX}

	fv, err := fe.Extract(tx, nil, entity.DomainClassification)
	require.NoError(t, err)

	require.Len(t, fv.Names, 5)
	toType, _ := fv.Get("to_address_type")
	assert.Equal(t, 3.0, toType)
	fromType, _ := fv.Get("from_address_type")
	assert.Equal(t, 0.0, fromType)
}

func TestExtractAll(t *testing.T) {
	fe := NewFeatureExtractor()

	set, err := fe.ExtractAll(sampleTx(), sampleStats())
	require.NoError(t, err)
	require.NotNil(t, set.Fraud)
	require.NotNil(t, set.Gas)
	require.NotNil(t, set.Classification)
}

func TestExtractValidation(t *testing.T) {
	fe := NewFeatureExtractor()

	cases := []struct {
		name   string
		mutate func(*entity.TransactionRecord)
		field  string
	}{
		{"missing hash", func(tx *entity.TransactionRecord) { tx.Hash = "" }, "hash"},
		{"negative value", func(tx *entity.TransactionRecord) { tx.ValueETH = -1 }, "value_eth"},
		{"negative gas price", func(tx *entity.TransactionRecord) { tx.GasPriceGwei = -5 }, "gas_price_gwei"},
		{"token transfer without metadata", func(tx *entity.TransactionRecord) { tx.IsTokenTransfer = true }, "token_info"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := sampleTx()
			tc.mutate(tx)
			_, err := fe.Extract(tx, nil, entity.DomainGas)
			var fErr *entity.FeatureError
			require.ErrorAs(t, err, &fErr)
			assert.Equal(t, tc.field, fErr.Field)
		})
	}

	t.Run("nil record", func(t *testing.T) {
		_, err := fe.Extract(nil, nil, entity.DomainFraud)
		var fErr *entity.FeatureError
		require.ErrorAs(t, err, &fErr)
	})
}

func TestGasVectorFromExplicitInputs(t *testing.T) {
	fv, err := GasVector(GasFeatureInputs{
		ValueETH:          0.5,
		GasLimit:          65000,
		IsContractCall:    true,
		InputDataSize:     68,
		NetworkCongestion: 0.7,
		TimeOfDay:         14,
		DayOfWeek:         5,
	})
	require.NoError(t, err)

	limit, _ := fv.Get("gas_limit")
	assert.Equal(t, 65000.0, limit)
	congestion, _ := fv.Get("network_congestion")
	assert.Equal(t, 0.7, congestion)
}

func TestIdentifyRiskFactors(t *testing.T) {
	t.Run("nil stats", func(t *testing.T) {
		assert.Equal(t, []string{"No wallet history available"}, IdentifyRiskFactors(nil))
	})

	t.Run("clean wallet", func(t *testing.T) {
		factors := IdentifyRiskFactors(sampleStats())
		assert.Equal(t, []string{"No significant risk factors identified"}, factors)
	})

	t.Run("multiple flags", func(t *testing.T) {
		stats := &entity.WalletStats{
			TransactionCount:       3,
			MaxTransactionValue:    500,
			FailedTransactionRatio: 0.4,
			TimeBetweenTxsAvgSec:   10,
		}
		factors := IdentifyRiskFactors(stats)
		assert.Contains(t, factors, "High failed transaction ratio")
		assert.Contains(t, factors, "New wallet with limited history")
		assert.Contains(t, factors, "Large value transactions detected")
		assert.Contains(t, factors, "Rapid transaction frequency")
	})
}
