package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChangeKind names what kind of mutation happened to a box's ledger.
type ChangeKind string

const (
	EntryCreated      ChangeKind = "entry_created"
	EntryUpdated      ChangeKind = "entry_updated"
	EntryDeleted      ChangeKind = "entry_deleted"
	EntriesImported   ChangeKind = "entries_imported"
	RecurrenceChanged ChangeKind = "recurrence_changed"
	BalanceChanged    ChangeKind = "balance_changed"
	BoxChanged        ChangeKind = "box_changed"
)

// LedgerChangedMessage tells consumers a box's ledger must be re-read.
// It deliberately carries no entry payload; consumers re-fetch a fresh
// snapshot before recomputing balances.
type LedgerChangedMessage struct {
	MessageID  string     `json:"message_id"`
	BoxID      int64      `json:"box_id"`
	Change     ChangeKind `json:"change"`
	OccurredAt time.Time  `json:"occurred_at"`
}

func NewLedgerChangedMessage(boxID int64, change ChangeKind) LedgerChangedMessage {
	return LedgerChangedMessage{
		MessageID:  uuid.NewString(),
		BoxID:      boxID,
		Change:     change,
		OccurredAt: time.Now().UTC(),
	}
}

func (m LedgerChangedMessage) ToJSON() ([]byte, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal ledger change: %w", err)
	}
	return body, nil
}

// FromJSON decodes a message published by PublishLedgerChanged.
func FromJSON(body []byte) (LedgerChangedMessage, error) {
	var m LedgerChangedMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return LedgerChangedMessage{}, fmt.Errorf("unmarshal ledger change: %w", err)
	}
	return m, nil
}
