package mailing

import (
	"testing"

	"Foodgram-Backend/internal/utils"

	"github.com/stretchr/testify/assert"
)

func TestSendMailWithoutSMTP(t *testing.T) {
	utils.SetConfig("SMTP_HOST", "")

	err := SendMail("alice@example.com", "Welcome", "<p>hi</p>")
	assert.ErrorIs(t, err, ErrMailNotConfigured)
}
