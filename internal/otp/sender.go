package otp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rasoilink/rasoilink-backend/pkg/config"
	pkgerrors "github.com/rasoilink/rasoilink-backend/pkg/errors"
	"github.com/rasoilink/rasoilink-backend/pkg/logger"
)

// SMSSender delivers one-time codes to a phone number.
type SMSSender interface {
	Send(ctx context.Context, phone, message string) error
}

// NewSender picks the sender implementation from SMS config. The log
// sender is the dev default so the stack runs without Twilio creds.
func NewSender(cfg config.SMSConfig, logg *logger.Logger) (SMSSender, error) {
	switch cfg.Provider {
	case "twilio":
		return NewTwilioSender(cfg)
	case "log", "":
		return &LogSender{logg: logg}, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown sms provider %q", cfg.Provider))
	}
}

// LogSender writes the message to the application log instead of
// sending it.
type LogSender struct {
	logg *logger.Logger
}

// Send logs the message.
func (s *LogSender) Send(ctx context.Context, phone, message string) error {
	ctx = s.logg.WithFields(ctx, map[string]any{
		"phone": maskPhone(phone),
		"sms":   message,
	})
	s.logg.Info(ctx, "sms send (log provider)")
	return nil
}

// TwilioSender posts messages to the Twilio REST API.
type TwilioSender struct {
	httpClient *http.Client
	accountSID string
	authToken  string
	from       string
}

// NewTwilioSender builds a Twilio-backed sender from SMS config.
func NewTwilioSender(cfg config.SMSConfig) (*TwilioSender, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.FromNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "twilio sender requires account sid, auth token and from number")
	}
	return &TwilioSender{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.FromNumber,
	}, nil
}

// Send delivers the message through Twilio's Messages endpoint.
func (s *TwilioSender) Send(ctx context.Context, phone, message string) error {
	form := url.Values{}
	form.Set("To", phone)
	form.Set("From", s.from)
	form.Set("Body", message)

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", s.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build twilio request")
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send sms")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("twilio responded %d", resp.StatusCode))
	}
	return nil
}

// maskPhone keeps only the last four digits for log lines.
func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
