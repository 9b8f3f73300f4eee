package notifier

import (
	"context"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
	"github.com/autopeer-io/fleetcare/pkg/log"
)

// LogNotifier renders the customer e-mail and writes it to the log instead
// of handing it to a mail server.
type LogNotifier struct {
	tmpl   *Template
	logger log.Logger
}

func NewLogNotifier(tmpl *Template, logger log.Logger) *LogNotifier {
	return &LogNotifier{tmpl: tmpl, logger: logger.WithName("mail")}
}

func (n *LogNotifier) Notify(_ context.Context, notification *model.Notification) error {
	mail, err := n.tmpl.Render(notification)
	if err != nil {
		return err
	}

	n.logger.Info("Email sent", "from", mail.From, "to", mail.To, "subject", mail.Subject, "body", mail.Body)
	n.logger.Debug("Email html part", "subject", mail.Subject, "html", mail.HTML)
	return nil
}
