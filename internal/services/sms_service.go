package services

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
)

// SMSSender delivers a text message to a phone number. The core only
// depends on this send contract; delivery retries are the collaborator's
// concern.
type SMSSender interface {
	SendSMS(to, body string) error
}

// TwilioService sends SMS messages through the Twilio Messages API.
type TwilioService struct {
	accountSID string
	authToken  string
	from       string
	client     *http.Client
}

// NewTwilioService creates a TwilioService.
func NewTwilioService(accountSID, authToken, from string) *TwilioService {
	return &TwilioService{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		client:     http.DefaultClient,
	}
}

// SendSMS posts a message to the Twilio REST API. An unconfigured service
// reports an error so a pending second-factor login is never reported as
// sent when nothing went out.
func (s *TwilioService) SendSMS(to, body string) error {
	if s.accountSID == "" || s.authToken == "" || s.from == "" {
		return fmt.Errorf("twilio credentials not configured")
	}

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", s.accountSID)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.from)
	form.Set("Body", body)

	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.accountSID, s.authToken)

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[Twilio] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[Twilio] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("twilio returned status %d", resp.StatusCode)
	}

	return nil
}
