package enums

import "fmt"

// NotificationType mirrors the type values the RINSR backend emits. The
// console only acts on the two vendor-order decision types; the rest exist
// so upstream rows decode cleanly.
type NotificationType string

const (
	NotificationTypeVendorOrderDispatched NotificationType = "VENDOR_ORDER_DISPATCHED"
	NotificationTypeVendorOrderDeclined   NotificationType = "VENDOR_ORDER_DECLINED"
	NotificationTypeOrderAssigned         NotificationType = "ORDER_ASSIGNED"
	NotificationTypeComplaintRaised       NotificationType = "COMPLAINT_RAISED"
	NotificationTypeSystemAnnouncement    NotificationType = "SYSTEM_ANNOUNCEMENT"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeVendorOrderDispatched,
	NotificationTypeVendorOrderDeclined,
	NotificationTypeOrderAssigned,
	NotificationTypeComplaintRaised,
	NotificationTypeSystemAnnouncement,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// IsActionable reports whether the type participates in the unread badge and
// grouped notification view.
func (n NotificationType) IsActionable() bool {
	return n == NotificationTypeVendorOrderDispatched || n == NotificationTypeVendorOrderDeclined
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
