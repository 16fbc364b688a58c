package mail

import (
	"appointment-ivr/internal/observability"
	"context"
	"errors"
	"fmt"

	"github.com/resendlabs/resend-go"
)

var ErrMissingRecipient = errors.New("email has no recipient")

// Message is a single outgoing email. Text is sent alongside HTML as the
// plain-text alternative.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

type ResendClient struct {
	client *resend.Client
	logger *observability.Logger
}

func NewResendClient(apiKey string, logger *observability.Logger) (*ResendClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}
	client := resend.NewClient(apiKey)
	if client == nil {
		return nil, fmt.Errorf("failed to create Resend client")
	}

	return &ResendClient{
		client: client,
		logger: logger,
	}, nil
}

func (c *ResendClient) Send(ctx context.Context, msg Message) (string, error) {
	if msg.To == "" {
		return "", ErrMissingRecipient
	}
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "email_to", Value: observability.MaskEmail(msg.To)},
		observability.Field{Key: "email_subject", Value: msg.Subject},
	)

	params := &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	res, err := c.client.Emails.Send(params)
	if err != nil {
		c.logger.Error(ctx, "failed to send email", err)
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	c.logger.Info(ctx, "email sent successfully")
	return res.Id, nil
}
