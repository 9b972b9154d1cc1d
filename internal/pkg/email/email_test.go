package email

import (
	"context"
	"testing"
	"time"

	"github.com/ddhealthcare/hrms-backend-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPasswordResetOTP(t *testing.T) {
	svc, err := NewEmailService(config.SMTPConfig{})
	require.NoError(t, err)
	impl := svc.(*emailServiceImpl)

	html, text, err := impl.render("password_reset_otp", passwordResetOTPData{
		EmployeeName: "Asha <Rao>",
		Code:         "482913",
		ValidMinutes: 10,
	})
	require.NoError(t, err)

	assert.Contains(t, html, "482913")
	assert.Contains(t, html, "valid for 10 minutes")
	assert.Contains(t, html, "Asha &lt;Rao&gt;", "html body must escape names")
	assert.Contains(t, text, "Your one-time passcode: 482913")
	assert.Contains(t, text, "Hello Asha <Rao>,")
}

func TestSendWithoutSMTPIsNoop(t *testing.T) {
	svc, err := NewEmailService(config.SMTPConfig{})
	require.NoError(t, err)

	err = svc.SendPasswordResetOTP(context.Background(), "asha@example.com", "Asha", "482913", 10*time.Minute)
	assert.NoError(t, err)
}
