package models

// Direction of a transaction relative to the watched address.
type Direction string

const (
	Incoming Direction = "Incoming"
	Outgoing Direction = "Outgoing"
)

// RawTransaction is a single entry of the explorer's txlist result.
// Every field is a string on the wire.
type RawTransaction struct {
	BlockNumber     string `json:"blockNumber"`
	TimeStamp       string `json:"timeStamp"`
	Hash            string `json:"hash"`
	Nonce           string `json:"nonce,omitempty"`
	From            string `json:"from"`
	To              string `json:"to"`
	Value           string `json:"value"`
	Gas             string `json:"gas,omitempty"`
	GasPrice        string `json:"gasPrice,omitempty"`
	GasUsed         string `json:"gasUsed,omitempty"`
	IsError         string `json:"isError,omitempty"`
	Input           string `json:"input,omitempty"`
	ContractAddress string `json:"contractAddress,omitempty"`
	Confirmations   string `json:"confirmations,omitempty"`
}

// TransactionRow is a transaction prepared for display.
type TransactionRow struct {
	Direction    Direction      `json:"type"`
	Counterparty string         `json:"object"`
	Amount       string         `json:"amount"`
	Time         string         `json:"time"`
	Hash         string         `json:"hash"`
	Raw          RawTransaction `json:"raw"`
}

// RawTokenItem is one item of the indexer's balances_v2 response.
// Balance and Decimals are nullable upstream.
type RawTokenItem struct {
	ContractAddress      string  `json:"contract_address"`
	ContractName         string  `json:"contract_name"`
	ContractTickerSymbol string  `json:"contract_ticker_symbol"`
	Balance              *string `json:"balance"`
	ContractDecimals     *int    `json:"contract_decimals"`
}

// TokenHolding is an ERC-20 balance prepared for display.
type TokenHolding struct {
	ContractAddress string `json:"contract_address"`
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	Balance         string `json:"balance"`
	Decimals        int    `json:"decimals"`
	Formatted       string `json:"formatted"`
}

// State is a point-in-time copy of a wallet's observable values.
type State struct {
	Address      string           `json:"address"`
	Balance      string           `json:"eth_balance"`
	Transactions []TransactionRow `json:"transactions"`
	Tokens       []TokenHolding   `json:"tokens"`
	Loading      bool             `json:"loading"`
	Error        string           `json:"error,omitempty"`
}

// RPCResult is the outcome of probing one RPC endpoint.
type RPCResult struct {
	URL     string `json:"url"`
	Status  string `json:"status"`
	ChainID int64  `json:"chain_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CheckReport holds the results of the configuration check.
type CheckReport struct {
	ConfigPath      string      `json:"config_path"`
	ValidStructure  bool        `json:"valid_structure"`
	StructureErrors []string    `json:"structure_errors,omitempty"`
	AddressCount    int         `json:"address_count"`
	ChainID         int64       `json:"chain_id"`
	EtherscanKeySet bool        `json:"etherscan_key_set"`
	CovalentKeySet  bool        `json:"covalent_key_set"`
	RPCs            []RPCResult `json:"rpcs,omitempty"`
	Inconsistent    bool        `json:"inconsistent"`
}
