package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/campaign-cli/internal/model"
)

// Sender delivers one plain-text email. Implemented by mailer.SMTPSender.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Subject builds the outreach subject line.
func Subject(lead model.Lead, quarter string) string {
	return fmt.Sprintf("%s x Quick idea for Q%s", lead.Company, quarter)
}

// Deliver sends body to the lead. A lead without an email is skipped without
// calling the sender; a send error becomes a Failed delivery.
func Deliver(ctx context.Context, sender Sender, lead model.Lead, subject, body string) model.Delivery {
	if !lead.HasEmail() {
		return model.SkippedMissingEmail()
	}
	if err := sender.Send(ctx, strings.TrimSpace(lead.Email), subject, body); err != nil {
		zap.L().Warn("pipeline: send failed",
			zap.Int("row", lead.Row),
			zap.String("email", lead.Email),
			zap.Error(err),
		)
		return model.Failed(err)
	}
	return model.Sent()
}
