package twilio

import (
	"appointment-ivr/internal/observability"
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

var (
	ErrMissingCredentials = errors.New("twilio account sid and auth token are required")
	ErrMissingNumber      = errors.New("both from and to numbers are required")
)

// Client places outbound calls through the REST API.
type Client struct {
	rest   *twilio.RestClient
	from   string
	logger *observability.Logger
}

func NewClient(accountSID, authToken, fromNumber string, logger *observability.Logger) (*Client, error) {
	if accountSID == "" || authToken == "" {
		return nil, ErrMissingCredentials
	}
	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &Client{
		rest:   rest,
		from:   fromNumber,
		logger: logger,
	}, nil
}

// PlaceCall dials to and points the call's webhook at answerURL. It returns
// the new CallSid.
func (c *Client) PlaceCall(ctx context.Context, to, answerURL, statusURL string) (string, error) {
	if c.from == "" || to == "" {
		return "", ErrMissingNumber
	}
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "call_to", Value: to},
		observability.Field{Key: "call_from", Value: c.from},
	)

	params := &openapi.CreateCallParams{}
	params.SetTo(to)
	params.SetFrom(c.from)
	params.SetUrl(answerURL)
	params.SetMethod("POST")
	if statusURL != "" {
		params.SetStatusCallback(statusURL)
		params.SetStatusCallbackMethod("POST")
	}

	call, err := c.rest.Api.CreateCall(params)
	if err != nil {
		c.logger.Error(ctx, "failed to place call", err)
		return "", fmt.Errorf("failed to place call: %w", err)
	}
	if call.Sid == nil {
		return "", fmt.Errorf("twilio returned no call sid")
	}

	c.logger.Info(observability.WithFields(ctx, observability.Field{Key: "call_sid", Value: *call.Sid}), "outbound call placed")
	return *call.Sid, nil
}
