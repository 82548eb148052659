package models

// TransferEvent is published to Kafka once a transfer has been committed.
type TransferEvent struct {
	ReferenceID  string  `json:"reference_id"`          // Ledger reference, also the message key
	SenderID     string  `json:"sender_id"`             // Debited user
	ReceiverID   string  `json:"receiver_id,omitempty"` // Credited user for internal transfers
	Amount       string  `json:"amount"`                // Decimal amount as a string
	Currency     string  `json:"currency"`              // Currency label
	TransferType string  `json:"transfer_type"`         // internal, external, withdrawal, deposit
	Status       string  `json:"status"`                // Status at commit time
	FraudScore   float64 `json:"fraud_score"`           // Score assigned by the scorer
	Timestamp    int64   `json:"timestamp"`             // Unix seconds of processing
}
