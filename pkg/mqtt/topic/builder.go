package topic

import (
	"fmt"
	"strings"
)

// Topic segments shared with downstream consumers. Changing them breaks
// existing subscribers.
const (
	// SuffixNotification carries outbound notifications.
	// Structure: {root}/notifications/{kind}/{id}
	SuffixNotification = "notifications"

	// SuffixStatus carries retained online/offline markers.
	// Structure: {root}/status/{component}
	SuffixStatus = "status"

	// Wildcard is the single-level wildcard "+".
	Wildcard = "+"

	// MultiWildcard is the multi-level wildcard "#". It must be the last level.
	MultiWildcard = "#"
)

// TopicBuilder constructs MQTT topic strings under a common root.
type TopicBuilder struct {
	// root is the base namespace for all topics (e.g., "fleetcare/v1").
	root string
}

// NewTopicBuilder creates a TopicBuilder with the specified root namespace.
// Trailing slashes are dropped.
func NewTopicBuilder(root string) *TopicBuilder {
	return &TopicBuilder{root: strings.TrimRight(root, "/")}
}

// Notification returns the topic a notification of the given kind about the
// entity id is published on. Dots in kind become levels so subscribers can
// filter per entity type, e.g. {root}/notifications/bill/+/#.
func (b *TopicBuilder) Notification(kind, id string) string {
	return fmt.Sprintf("%s/%s/%s/%s", b.root, SuffixNotification, strings.ReplaceAll(kind, ".", "/"), sanitize(id))
}

// NotificationWildcard matches every notification topic.
func (b *TopicBuilder) NotificationWildcard() string {
	return fmt.Sprintf("%s/%s/%s", b.root, SuffixNotification, MultiWildcard)
}

// Status returns the retained presence topic of a component.
func (b *TopicBuilder) Status(component string) string {
	return fmt.Sprintf("%s/%s/%s", b.root, SuffixStatus, sanitize(component))
}

// sanitize keeps wildcard characters and separators out of a single level.
func sanitize(level string) string {
	return strings.NewReplacer("/", "_", Wildcard, "_", MultiWildcard, "_").Replace(level)
}
