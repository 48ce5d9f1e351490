// Package notify abstracts outbound email and SMS delivery. The gateway is
// constructed once at startup and injected into the services that need it;
// when no provider is configured it degrades to a log-only mode that still
// reports success, so callers never branch on configuration state.
package notify

import (
	"fmt"

	"github.com/google/uuid"
)

// Result is what every send returns. Sends never panic and never return a Go
// error directly; callers check Success and log Err if they care.
type Result struct {
	Success   bool
	MessageID string
	Mock      bool
	Err       error
}

type Mailer interface {
	Send(to, subject, body string) Result
}

type SMSSender interface {
	Send(to, text string) Result
}

type Gateway struct {
	mailer Mailer
	sms    SMSSender
}

func NewGateway(mailer Mailer, sms SMSSender) *Gateway {
	return &Gateway{mailer: mailer, sms: sms}
}

// SendPlainOTPEmail delivers the SMS-style plain text OTP message by email.
// The same wording is used on both channels so the frontend can treat them
// uniformly.
func (g *Gateway) SendPlainOTPEmail(to, otp, purpose string) Result {
	subject := fmt.Sprintf("Your %s OTP - Qualiworth Hike", purpose)
	body := otpMessage(otp, purpose)
	return g.mailer.Send(to, subject, body)
}

func (g *Gateway) SendPlainOTPSMS(to, otp, purpose string) Result {
	return g.sms.Send(to, otpMessage(otp, purpose))
}

func otpMessage(otp, purpose string) string {
	return fmt.Sprintf("Your %s OTP is: %s. This code expires in 5 minutes.", purpose, otp)
}

func mockResult() Result {
	return Result{Success: true, MessageID: uuid.NewString(), Mock: true}
}
