package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// ChangeKind names the ledger collection a change touched.
type ChangeKind string

const (
	KindExpense  ChangeKind = "expense"
	KindOverride ChangeKind = "override"
	KindGig      ChangeKind = "gig"
	KindPackage  ChangeKind = "package"
)

// Valid reports whether k is one of the known kinds.
func (k ChangeKind) Valid() bool {
	switch k {
	case KindExpense, KindOverride, KindGig, KindPackage:
		return true
	}
	return false
}

var ErrUnknownKind = errors.New("unknown change kind")

// LedgerChangeMessage announces that a record changed. Consumers reload the
// ledger themselves; Month narrows the affected month when it is known.
type LedgerChangeMessage struct {
	Kind      ChangeKind `json:"kind"`
	ID        string     `json:"id"`
	Month     string     `json:"month,omitempty"`
	Deleted   bool       `json:"deleted,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

func NewLedgerChangeMessage(kind ChangeKind, id, month string, deleted bool) *LedgerChangeMessage {
	return &LedgerChangeMessage{
		Kind:      kind,
		ID:        id,
		Month:     month,
		Deleted:   deleted,
		Timestamp: time.Now(),
	}
}

func (m *LedgerChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangeMessageFromJSON decodes and checks the kind.
func LedgerChangeMessageFromJSON(data []byte) (*LedgerChangeMessage, error) {
	var msg LedgerChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if !msg.Kind.Valid() {
		return nil, ErrUnknownKind
	}
	return &msg, nil
}
