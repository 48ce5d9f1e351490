package notify

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/qualiworth/hike-api/internal/config"
)

// TwilioSender posts to the Twilio Messages API. NewSMSSender falls back to
// the mock when credentials are missing.
type TwilioSender struct {
	accountSID string
	authToken  string
	from       string
	client     *http.Client
}

func NewSMSSender(cfg *config.Config) SMSSender {
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioPhoneNumber == "" {
		log.Println("📱 SMS not configured, using mock sender (set TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, TWILIO_PHONE_NUMBER)")
		return &MockSMSSender{}
	}
	return &TwilioSender{
		accountSID: cfg.TwilioAccountSID,
		authToken:  cfg.TwilioAuthToken,
		from:       cfg.TwilioPhoneNumber,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *TwilioSender) Send(to, text string) Result {
	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", s.accountSID)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.from)
	form.Set("Body", text)

	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Result{Success: false, Err: err}
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[SMS ERROR] Failed to send SMS to %s: %v", to, err)
		return Result{Success: false, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		err := fmt.Errorf("twilio returned status %d", resp.StatusCode)
		log.Printf("[SMS ERROR] Failed to send SMS to %s: %v", to, err)
		return Result{Success: false, Err: err}
	}

	var body struct {
		SID string `json:"sid"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)

	log.Printf("[SMS SUCCESS] Message sent to %s, SID: %s", to, body.SID)
	return Result{Success: true, MessageID: body.SID}
}

// MockSMSSender logs the message instead of sending it.
type MockSMSSender struct{}

func (s *MockSMSSender) Send(to, text string) Result {
	log.Printf("[SMS MOCK] Sending SMS to: %s", to)
	log.Printf("[SMS MOCK] Text: %s", text)
	return mockResult()
}
