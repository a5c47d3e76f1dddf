package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/campus-auth/pkg/mailer"
)

func TestEnsureRecipientAndEmail(t *testing.T) {
	job := mailer.EmailJob{To: "a@x.com"}
	EnsureRecipientAndEmail(&job)
	assert.Equal(t, "a@x.com", job.Data["Email"])
	assert.Equal(t, "a@x.com", job.Data["RecipientEmail"])

	job = mailer.EmailJob{To: "a@x.com", Data: map[string]any{"Email": "b@x.com", "RecipientEmail": ""}}
	EnsureRecipientAndEmail(&job)
	assert.Equal(t, "b@x.com", job.Data["Email"])
	assert.Equal(t, "a@x.com", job.Data["RecipientEmail"])
}

func TestWithDefaults(t *testing.T) {
	job := mailer.EmailJob{Data: map[string]any{"AppName": "Mine", "LogoURL": ""}}
	WithDefaults(&job, map[string]string{"AppName": "Campus Market", "LogoURL": "https://logo", "SupportURL": "https://help"})

	assert.Equal(t, "Mine", job.Data["AppName"])
	assert.Equal(t, "https://logo", job.Data["LogoURL"])
	assert.Equal(t, "https://help", job.Data["SupportURL"])
}
