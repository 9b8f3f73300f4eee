package model

// NotificationKind names the event a notification reports.
type NotificationKind string

const (
	// NotificationBillDuplicate carries a *DuplicateArtifact.
	NotificationBillDuplicate NotificationKind = "bill.duplicate"

	// NotificationQuoteApproved carries a *Quote.
	NotificationQuoteApproved NotificationKind = "quote.approved"
)

// Notification is a domain event handed to the dispatcher.
type Notification struct {
	Kind NotificationKind

	// SubjectID identifies the bill or quote the event is about.
	SubjectID string

	Payload any
}
