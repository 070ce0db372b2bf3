package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type MessageKind string

const (
	KindSMS  MessageKind = "sms"
	KindCall MessageKind = "call"
)

func (k MessageKind) String() string {
	return string(k)
}

func (k MessageKind) Valid() bool {
	return k == KindSMS || k == KindCall
}

// ParseMessageKind normalizes input. Returns (value, true) if valid;
// otherwise (sms, false).
func ParseMessageKind(s string) (MessageKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sms":
		return KindSMS, true
	case "call":
		return KindCall, true
	default:
		return KindSMS, false
	}
}

// Metadata is the open key/value map attached to a message, stored as a JSON
// column. Bounds are enforced at validation time, before any write.
type Metadata map[string]any

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *Metadata) Scan(src any) error {
	if src == nil {
		*m = Metadata{}
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("metadata: cannot scan %T", src)
	}
	if len(b) == 0 {
		*m = Metadata{}
		return nil
	}
	return json.Unmarshal(b, m)
}

// Message is the DB entity persisted in the messages table. JSON names follow
// the gateway wire format: `type` carries the kind, `message` the body.
type Message struct {
	ID          string      `db:"id"           json:"id"`
	SimID       string      `db:"sim_id"       json:"sim_id"`
	Kind        MessageKind `db:"kind"         json:"type"`
	From        string      `db:"from_number"  json:"from"`
	To          string      `db:"to_number"    json:"to,omitempty"`
	Body        string      `db:"body"         json:"message"`
	Timestamp   time.Time   `db:"timestamp"    json:"timestamp"`
	Processed   bool        `db:"processed"    json:"processed"`
	ProcessedAt *time.Time  `db:"processed_at" json:"processed_at"`
	Metadata    Metadata    `db:"metadata"     json:"metadata"`
	CreatedAt   time.Time   `db:"created_at"   json:"created_at"`
}

// MessageFilter controls list queries. Empty fields match everything.
type MessageFilter struct {
	SimID string
	Kind  MessageKind
}
