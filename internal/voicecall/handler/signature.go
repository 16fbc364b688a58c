package handler

import (
	"appointment-ivr/internal/apierrors"
	"appointment-ivr/internal/observability"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	twilioClient "github.com/twilio/twilio-go/client"
)

const signatureHeader = "X-Twilio-Signature"

// ValidateSignature rejects webhooks that were not signed with authToken.
// publicBaseURL is the URL Twilio was configured with; behind a proxy the
// request's own host differs from it.
func ValidateSignature(authToken, publicBaseURL string, logger *observability.Logger) gin.HandlerFunc {
	validator := twilioClient.NewRequestValidator(authToken)
	publicBaseURL = strings.TrimRight(publicBaseURL, "/")

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if err := c.Request.ParseForm(); err != nil {
			logger.Warn(ctx, "twilio webhook with unreadable form")
			apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Unreadable webhook form"))
			return
		}

		params := make(map[string]string, len(c.Request.PostForm))
		for key, values := range c.Request.PostForm {
			if len(values) > 0 {
				params[key] = values[0]
			}
		}

		url := webhookURL(c.Request, publicBaseURL)
		if !validator.Validate(url, params, c.GetHeader(signatureHeader)) {
			logger.Warn(observability.WithFields(ctx, observability.Field{Key: "webhook_url", Value: url}), "rejected twilio webhook with bad signature")
			apierrors.RespondWithError(c, apierrors.Forbidden("Invalid Twilio signature"))
			return
		}
		c.Next()
	}
}

func webhookURL(r *http.Request, publicBaseURL string) string {
	if publicBaseURL != "" {
		return publicBaseURL + r.URL.RequestURI()
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
