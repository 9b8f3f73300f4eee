package notifier

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
)

// Message is the JSON document published on the message buses.
type Message struct {
	Kind      model.NotificationKind `json:"kind"`
	SubjectID string                 `json:"subjectId"`
	SentAt    time.Time              `json:"sentAt"`
	Data      any                    `json:"data"`
}

type duplicateData struct {
	BillID        string  `json:"billId"`
	Month         string  `json:"month"`
	Value         float64 `json:"value"`
	DueDate       string  `json:"dueDate"`
	Status        string  `json:"status"`
	DuplicateCode string  `json:"duplicateCode"`
	GeneratedAt   string  `json:"generatedAt"`
}

type quoteData struct {
	QuoteID   string `json:"quoteId"`
	Plate     string `json:"plate"`
	Model     string `json:"model"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

// Encode renders n as a Message stamped with sentAt.
func Encode(n *model.Notification, sentAt time.Time) ([]byte, error) {
	msg := Message{Kind: n.Kind, SubjectID: n.SubjectID, SentAt: sentAt.UTC()}

	switch p := n.Payload.(type) {
	case *model.DuplicateArtifact:
		msg.Data = duplicateData{
			BillID:        p.ID,
			Month:         p.Month,
			Value:         p.Value.InexactFloat64(),
			DueDate:       p.DueDate.Format(time.DateOnly),
			Status:        string(p.Status),
			DuplicateCode: p.Code,
			GeneratedAt:   p.GeneratedAt.UTC().Format(time.RFC3339),
		}
	case *model.Quote:
		msg.Data = quoteData{
			QuoteID:   p.ID,
			Plate:     p.Plate,
			Model:     p.Model,
			Status:    string(p.Status),
			CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		}
	default:
		return nil, fmt.Errorf("unsupported notification payload %T", n.Payload)
	}

	return json.Marshal(msg)
}
