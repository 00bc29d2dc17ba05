package suggestions

import (
	"context"
	"fmt"
	"strings"

	"dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/metrics"
	"dining-concierge/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESService is the slice of the SES API the notifier needs.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Notifier formats the hydrated suggestions into a plaintext email and
// submits it for delivery. One attempt, no retry: queue redelivery is the
// only retry mechanism in the pipeline.
type Notifier struct {
	ses       SESService
	fromEmail string
	logger    logger.Logger
}

func NewNotifier(sesClient SESService, fromEmail string, log logger.Logger) *Notifier {
	return &Notifier{
		ses:       sesClient,
		fromEmail: fromEmail,
		logger:    log.WithFields(map[string]interface{}{"component": "notifier"}),
	}
}

// Notify sends the suggestion email. An empty record set is a no-op, not
// an error.
func (n *Notifier) Notify(ctx context.Context, recipient, cuisine string, records []models.RestaurantRecord) error {
	if len(records) == 0 {
		n.logger.Warn("no restaurant recommendations to send", map[string]interface{}{
			"recipient": recipient,
			"cuisine":   cuisine,
		})
		return nil
	}

	subject := fmt.Sprintf("Your %s Restaurant Suggestions!", cuisine)
	body := composeBody(cuisine, records)

	_, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(n.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{recipient},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		metrics.EmailsSent.WithLabelValues("failed").Inc()
		n.logger.Error("email send failed", map[string]interface{}{
			"recipient": recipient,
			"error":     err,
		})
		return errors.NewEmailSendFailedError(recipient, err)
	}

	metrics.EmailsSent.WithLabelValues("sent").Inc()
	n.logger.Info("suggestion email sent", map[string]interface{}{
		"recipient":   recipient,
		"cuisine":     cuisine,
		"restaurants": len(records),
	})
	return nil
}

func composeBody(cuisine string, records []models.RestaurantRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello! Here are some %s restaurant recommendations:\n\n", cuisine)
	for i, r := range records {
		fmt.Fprintf(&b, "%d. %s - %s (Rating: %g)\n", i+1, r.Name, r.Address, r.Rating)
	}
	b.WriteString("\nEnjoy your meal!\n\n- Dining Concierge Bot")
	return b.String()
}
