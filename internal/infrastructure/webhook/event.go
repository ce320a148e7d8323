package webhook

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// EventKind discriminates decoded processor notifications.
type EventKind int

const (
	// EventIgnored covers unknown types and payloads that cannot be acted on.
	EventIgnored EventKind = iota
	EventPayment
)

func (k EventKind) String() string {
	if k == EventPayment {
		return "payment"
	}
	return "ignored"
}

// Event is a decoded webhook notification.
//
// PaymentID is set only for EventPayment and is the processor's payment id.
// Type keeps the raw type for logging.
type Event struct {
	Kind      EventKind
	Type      string
	Action    string
	PaymentID string
}

type rawEvent struct {
	Type   string          `json:"type"`
	Topic  string          `json:"topic"`
	Action string          `json:"action"`
	Data   *rawEventData   `json:"data"`
	ID     json.RawMessage `json:"id"`
}

type rawEventData struct {
	ID json.RawMessage `json:"id"`
}

// ParseEvent decodes rawBody. It never fails: anything that is not a
// well-formed payment notification comes back as EventIgnored.
func ParseEvent(rawBody []byte) Event {
	var raw rawEvent
	if err := json.Unmarshal(rawBody, &raw); err != nil {
		return Event{Kind: EventIgnored}
	}

	typ := raw.Type
	if typ == "" {
		typ = raw.Topic
	}
	ev := Event{Kind: EventIgnored, Type: typ, Action: raw.Action}
	if typ != "payment" || raw.Data == nil {
		return ev
	}

	id, ok := decodeID(raw.Data.ID)
	if !ok {
		return ev
	}
	ev.Kind = EventPayment
	ev.PaymentID = id
	return ev
}

// decodeID accepts the id as a JSON string or a JSON integer.
func decodeID(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		return s, s != ""
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return "", false
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return "", false
	}
	return n.String(), true
}
