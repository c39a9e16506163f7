package blockchain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethodName(t *testing.T) {
	assert.Equal(t, "transfer", MethodName("0xa9059cbb"))
	assert.Equal(t, "transfer", MethodName("0xA9059CBB"))
	assert.Equal(t, "swapExactETHForTokens", MethodName("0x7ff36ab5"))
	assert.Equal(t, "Unknown", MethodName("0xdeadbeef"))
}

func TestIsERC20Transfer(t *testing.T) {
	assert.True(t, IsERC20Transfer("0xa9059cbb"))
	assert.True(t, IsERC20Transfer("0x23b872dd"))
	assert.True(t, IsERC20Transfer("0x095ea7b3"))
	assert.False(t, IsERC20Transfer("0x7ff36ab5"))
}

func TestDecodeTransferCall(t *testing.T) {
	// transfer(0x2222...2222, 1000000)
	input := "0xa9059cbb" +
		"0000000000000000000000002222222222222222222222222222222222222222" +
		"00000000000000000000000000000000000000000000000000000000000f4240"

	call, err := DecodeTransferCall(input)
	require.NoError(t, err)
	assert.Equal(t, "0x2222222222222222222222222222222222222222", call.Recipient)
	assert.Equal(t, big.NewInt(1000000), call.Amount)
}

func TestDecodeTransferFromCall(t *testing.T) {
	// transferFrom(0x1111...1111, 0x3333...3333, 500)
	input := "0x23b872dd" +
		"0000000000000000000000001111111111111111111111111111111111111111" +
		"0000000000000000000000003333333333333333333333333333333333333333" +
		"00000000000000000000000000000000000000000000000000000000000001f4"

	call, err := DecodeTransferCall(input)
	require.NoError(t, err)
	assert.Equal(t, "0x3333333333333333333333333333333333333333", call.Recipient)
	assert.Equal(t, big.NewInt(500), call.Amount)
}

func TestDecodeTransferCallErrors(t *testing.T) {
	t.Run("too short for selector", func(t *testing.T) {
		_, err := DecodeTransferCall("0xa9")
		assert.Error(t, err)
	})

	t.Run("truncated transfer args", func(t *testing.T) {
		_, err := DecodeTransferCall("0xa9059cbb" + "0000000000000000000000002222")
		assert.Error(t, err)
	})

	t.Run("truncated transferFrom args", func(t *testing.T) {
		_, err := DecodeTransferCall("0x23b872dd" +
			"0000000000000000000000001111111111111111111111111111111111111111" +
			"0000000000000000000000003333333333333333333333333333333333333333")
		assert.Error(t, err)
	})

	t.Run("non transfer selector", func(t *testing.T) {
		_, err := DecodeTransferCall("0x7ff36ab5" +
			"0000000000000000000000000000000000000000000000000000000000000001" +
			"0000000000000000000000000000000000000000000000000000000000000002")
		assert.Error(t, err)
	})
}
