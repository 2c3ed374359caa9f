package enums

import "fmt"

// OrderEventType identifies vendor-order decision events on the order
// events topic.
type OrderEventType string

const (
	OrderEventDispatched OrderEventType = "vendor_order_dispatched"
	OrderEventDeclined   OrderEventType = "vendor_order_declined"
)

var validOrderEventTypes = []OrderEventType{
	OrderEventDispatched,
	OrderEventDeclined,
}

// IsValid reports whether the value matches the canonical event type.
func (e OrderEventType) IsValid() bool {
	for _, candidate := range validOrderEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// NotificationType maps the event to the notification row it produces.
func (e OrderEventType) NotificationType() NotificationType {
	if e == OrderEventDeclined {
		return NotificationTypeVendorOrderDeclined
	}
	return NotificationTypeVendorOrderDispatched
}

// ParseOrderEventType converts raw input into OrderEventType.
func ParseOrderEventType(value string) (OrderEventType, error) {
	for _, candidate := range validOrderEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order event type %q", value)
}
