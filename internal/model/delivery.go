package model

import (
	"encoding/json"
	"strings"
)

// DeliveryKind enumerates the terminal delivery states of a lead.
type DeliveryKind int

const (
	DeliverySent DeliveryKind = iota + 1
	DeliverySkipped
	DeliveryFailed
)

// Status strings written to the output table.
const (
	StatusSent         = "SENT"
	StatusSkippedEmail = "SKIPPED: Missing email"
	statusErrorPrefix  = "ERROR: "
)

// Delivery is the outcome of a single send attempt.
type Delivery struct {
	Kind   DeliveryKind
	Detail string // error text when Kind is DeliveryFailed
}

// Sent returns a successful delivery.
func Sent() Delivery { return Delivery{Kind: DeliverySent} }

// SkippedMissingEmail returns the skip state for leads without an address.
func SkippedMissingEmail() Delivery { return Delivery{Kind: DeliverySkipped} }

// Failed returns a failed delivery carrying the send error.
func Failed(err error) Delivery {
	d := Delivery{Kind: DeliveryFailed}
	if err != nil {
		d.Detail = err.Error()
	}
	return d
}

// String renders the status column value.
func (d Delivery) String() string {
	switch d.Kind {
	case DeliverySent:
		return StatusSent
	case DeliverySkipped:
		return StatusSkippedEmail
	case DeliveryFailed:
		return statusErrorPrefix + d.Detail
	default:
		return ""
	}
}

// ParseDelivery reverses String. Unknown values parse as a failure with the
// raw text as detail.
func ParseDelivery(s string) Delivery {
	switch {
	case s == StatusSent:
		return Sent()
	case s == StatusSkippedEmail:
		return SkippedMissingEmail()
	case strings.HasPrefix(s, statusErrorPrefix):
		return Delivery{Kind: DeliveryFailed, Detail: strings.TrimPrefix(s, statusErrorPrefix)}
	default:
		return Delivery{Kind: DeliveryFailed, Detail: s}
	}
}

// MarshalJSON encodes the delivery as its status string.
func (d Delivery) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a status string.
func (d *Delivery) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*d = ParseDelivery(s)
	return nil
}
