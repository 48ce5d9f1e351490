package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeMailer struct {
	to, subject, body string
}

func (f *fakeMailer) Send(to, subject, body string) Result {
	f.to, f.subject, f.body = to, subject, body
	return Result{Success: true, MessageID: "fake-id"}
}

type fakeSMS struct {
	to, text string
}

func (f *fakeSMS) Send(to, text string) Result {
	f.to, f.text = to, text
	return Result{Success: true, MessageID: "fake-id"}
}

func TestSendPlainOTPEmail(t *testing.T) {
	mailer := &fakeMailer{}
	g := NewGateway(mailer, &MockSMSSender{})

	result := g.SendPlainOTPEmail("ann@example.com", "123456", "password reset")
	assert.True(t, result.Success)

	assert.Equal(t, "ann@example.com", mailer.to)
	assert.Equal(t, "Your password reset OTP - Qualiworth Hike", mailer.subject)
	assert.Equal(t, "Your password reset OTP is: 123456. This code expires in 5 minutes.", mailer.body)
}

func TestSendPlainOTPSMS(t *testing.T) {
	sms := &fakeSMS{}
	g := NewGateway(&MockMailer{}, sms)

	result := g.SendPlainOTPSMS("+256701234567", "123456", "login")
	assert.True(t, result.Success)

	assert.Equal(t, "+256701234567", sms.to)
	assert.Equal(t, "Your login OTP is: 123456. This code expires in 5 minutes.", sms.text)
}

// The mocks stand in when no provider is configured. They must report success
// so callers treat delivery uniformly.
func TestMockProvidersReportSuccess(t *testing.T) {
	g := NewGateway(&MockMailer{}, &MockSMSSender{})

	email := g.SendPlainOTPEmail("ann@example.com", "123456", "email verification")
	assert.True(t, email.Success)
	assert.True(t, email.Mock)
	assert.NotEmpty(t, email.MessageID)

	sms := g.SendPlainOTPSMS("+256701234567", "123456", "login")
	assert.True(t, sms.Success)
	assert.True(t, sms.Mock)
	assert.NotEmpty(t, sms.MessageID)
}
