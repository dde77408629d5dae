package wallet

// EventType defines the type of event being broadcast.
type EventType string

const (
	EventAddressChanged      EventType = "address_changed"
	EventLoadingChanged      EventType = "loading_changed"
	EventBalanceUpdated      EventType = "balance_updated"
	EventTransactionsUpdated EventType = "transactions_updated"
	EventTokensUpdated       EventType = "tokens_updated"
	EventErrorUpdated        EventType = "error_updated"
	EventFetchCompleted      EventType = "fetch_completed"
)

// Event represents a change to wallet state. Data carries the new value:
// string for address, balance, error and fetch_completed (the address),
// bool for loading, []models.TransactionRow and []models.TokenHolding for lists.
type Event struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data"`
}

// Subscriber is a channel that receives events.
type Subscriber chan Event
