package wallet

import (
	"testing"
	"time"

	"walletwatch/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapTransactions_Outgoing(t *testing.T) {
	raw := []models.RawTransaction{
		{From: "0xABC", To: "0xdef", Value: "2000000000000000000", Hash: "0x01"},
	}

	rows := MapTransactions(raw, "0xabc")
	require.Len(t, rows, 1)
	assert.Equal(t, models.Outgoing, rows[0].Direction)
	assert.Equal(t, "0xdef", rows[0].Counterparty)
	assert.Equal(t, "2 ETH", rows[0].Amount)
	assert.Equal(t, "0x01", rows[0].Hash)
	assert.Equal(t, raw[0], rows[0].Raw)
}

func TestMapTransactions_Incoming(t *testing.T) {
	raw := []models.RawTransaction{
		{From: "0x999", To: "0xabc", Value: "1234560000000000000"},
	}

	rows := MapTransactions(raw, "0xABC")
	require.Len(t, rows, 1)
	assert.Equal(t, models.Incoming, rows[0].Direction)
	assert.Equal(t, "0x999", rows[0].Counterparty)
	assert.Equal(t, "1.23456 ETH", rows[0].Amount)
}

func TestMapTransactions_EmptySender(t *testing.T) {
	rows := MapTransactions([]models.RawTransaction{{From: "", To: "0xdef"}}, "")
	require.Len(t, rows, 1)
	assert.Equal(t, models.Incoming, rows[0].Direction)
	assert.Equal(t, "", rows[0].Counterparty)
	assert.Equal(t, "0 ETH", rows[0].Amount)
}

func TestMapTransactions_Time(t *testing.T) {
	tests := []struct {
		name     string
		tx       models.RawTransaction
		expected string
	}{
		{
			name:     "timestamp",
			tx:       models.RawTransaction{TimeStamp: "1681000000", BlockNumber: "17000000"},
			expected: time.Unix(1681000000, 0).Local().Format(TimeLayout),
		},
		{
			name:     "block fallback",
			tx:       models.RawTransaction{BlockNumber: "17000000"},
			expected: "block 17000000",
		},
		{
			name:     "unparseable timestamp falls back to block",
			tx:       models.RawTransaction{TimeStamp: "soon", BlockNumber: "5"},
			expected: "block 5",
		},
		{
			name:     "nothing",
			tx:       models.RawTransaction{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := MapTransactions([]models.RawTransaction{tt.tx}, "0xabc")
			assert.Equal(t, tt.expected, rows[0].Time)
		})
	}
}

func TestMapTransactions_Empty(t *testing.T) {
	rows := MapTransactions(nil, "0xabc")
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestMapTokens(t *testing.T) {
	bal := "1234567"
	dec := 6
	holdings := MapTokens([]models.RawTokenItem{
		{ContractAddress: "0xusdc", ContractName: "USD Coin", ContractTickerSymbol: "USDC", Balance: &bal, ContractDecimals: &dec},
		{ContractTickerSymbol: "NUL"},
	})

	assert.Len(t, holdings, 2)
	assert.Equal(t, "1.234567", holdings[0].Formatted)
	assert.Equal(t, "USD Coin", holdings[0].Name)
	assert.Equal(t, 6, holdings[0].Decimals)

	assert.Equal(t, "0", holdings[1].Balance)
	assert.Equal(t, 18, holdings[1].Decimals)
	assert.Equal(t, "0", holdings[1].Formatted)

	assert.NotNil(t, MapTokens(nil))
}
