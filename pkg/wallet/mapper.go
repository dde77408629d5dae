package wallet

import (
	"strconv"
	"strings"
	"time"

	"walletwatch/pkg/models"
	"walletwatch/pkg/units"
)

const defaultTokenDecimals = 18

// TimeLayout renders transaction times in the local zone.
const TimeLayout = "2006-01-02 15:04:05"

// MapTransactions turns explorer records into display rows relative to current.
// A record is outgoing when its sender equals current, ignoring case.
func MapTransactions(raw []models.RawTransaction, current string) []models.TransactionRow {
	rows := make([]models.TransactionRow, 0, len(raw))
	for _, tx := range raw {
		outgoing := tx.From != "" && strings.EqualFold(tx.From, current)

		row := models.TransactionRow{
			Direction:    models.Incoming,
			Counterparty: tx.From,
			Amount:       formatAmount(tx.Value),
			Time:         formatTime(tx),
			Hash:         tx.Hash,
			Raw:          tx,
		}
		if outgoing {
			row.Direction = models.Outgoing
			row.Counterparty = tx.To
		}
		rows = append(rows, row)
	}
	return rows
}

func formatAmount(value string) string {
	if value == "" {
		value = "0"
	}
	return units.WeiToDecimal(value, units.DefaultFractionDigits) + " ETH"
}

func formatTime(tx models.RawTransaction) string {
	if tx.TimeStamp != "" {
		if secs, err := strconv.ParseInt(strings.TrimSpace(tx.TimeStamp), 10, 64); err == nil {
			return time.Unix(secs, 0).Local().Format(TimeLayout)
		}
	}
	if tx.BlockNumber != "" {
		return "block " + tx.BlockNumber
	}
	return ""
}

// MapTokens converts indexer items into holdings. A missing balance reads as
// "0" and missing decimals as 18.
func MapTokens(items []models.RawTokenItem) []models.TokenHolding {
	holdings := make([]models.TokenHolding, 0, len(items))
	for _, it := range items {
		balance := "0"
		if it.Balance != nil {
			balance = *it.Balance
		}
		decimals := defaultTokenDecimals
		if it.ContractDecimals != nil {
			decimals = *it.ContractDecimals
		}
		holdings = append(holdings, models.TokenHolding{
			ContractAddress: it.ContractAddress,
			Name:            it.ContractName,
			Symbol:          it.ContractTickerSymbol,
			Balance:         balance,
			Decimals:        decimals,
			Formatted:       units.TokenAmountToDecimal(balance, decimals, units.DefaultFractionDigits),
		})
	}
	return holdings
}
