package realtime

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Server→client event names.
const (
	EventVendorOrderDispatched = "vendor_order_dispatched"
	EventVendorOrderDeclined   = "vendor_order_declined"
)

// orderIDFieldCandidates lists payload fields that may carry the order id,
// in priority order. Upstream event shapes are not strictly versioned, so
// the first present field wins.
var orderIDFieldCandidates = []string{"vendorOrderId", "id", "_id", "orderId"}

// Event is the wire envelope pushed to connected consoles.
type Event struct {
	Name    string         `json:"event"`
	Message string         `json:"message,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Encode renders the event as a JSON frame.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// ResolveOrderID extracts the order id from an event payload by checking
// the candidate fields in priority order. Numeric values are accepted and
// stringified; blank values are skipped.
func ResolveOrderID(payload map[string]any) (string, bool) {
	if payload == nil {
		return "", false
	}
	for _, field := range orderIDFieldCandidates {
		value, ok := payload[field]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed, true
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), true
		case json.Number:
			return v.String(), true
		}
	}
	return "", false
}
