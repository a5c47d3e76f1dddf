package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWelcome(t *testing.T) {
	data := ToMap(EmailData{Name: "Budi", Email: "budi@x.com", AppName: "Campus Market", ProfileURL: "https://app/profile"})

	subject, text, html, err := Render(Welcome, data)
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Campus Market", subject)
	assert.Contains(t, text, "Hi Budi,")
	assert.Contains(t, text, "https://app/profile")
	assert.Contains(t, html, "<strong>budi@x.com</strong>")
}

func TestRenderWelcome_Defaults(t *testing.T) {
	subject, text, _, err := Render(Welcome, map[string]any{"Email": "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Campus Market", subject)
	assert.Contains(t, text, "Hi there,")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", nil)
	assert.Error(t, err)
}
