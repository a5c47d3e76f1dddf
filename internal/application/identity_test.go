package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_PassportProfile(t *testing.T) {
	raw, err := ParseRawProfile([]byte(`{
		"id": "g1",
		"displayName": "A B",
		"emails": [{"value": "a@x.com", "verified": true}],
		"photos": [{"value": "https://img/a.png"}]
	}`))
	require.NoError(t, err)

	id, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, "g1", id.ExternalID)
	assert.Equal(t, "a@x.com", id.Email)
	assert.Equal(t, "A B", id.DisplayName)
	assert.Equal(t, "https://img/a.png", id.AvatarURL)
}

func TestNormalize_UserInfoDocument(t *testing.T) {
	raw, err := ParseRawProfile([]byte(`{
		"sub": "1234567890",
		"name": "Test User",
		"email": "test.user@example.com",
		"picture": "https://example.com/avatar.jpg"
	}`))
	require.NoError(t, err)

	id, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, "1234567890", id.ExternalID)
	assert.Equal(t, "test.user@example.com", id.Email)
	assert.Equal(t, "Test User", id.DisplayName)
	assert.Equal(t, "https://example.com/avatar.jpg", id.AvatarURL)
}

func TestNormalize_CallbackShape(t *testing.T) {
	id, err := Normalize(RawProfile{
		"googleId":       "g9",
		"email":          "c@x.com",
		"fullName":       "C D",
		"profilePicture": "https://img/c.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "g9", id.ExternalID)
	assert.Equal(t, "C D", id.DisplayName)
	assert.Equal(t, "https://img/c.png", id.AvatarURL)
}

func TestNormalize_DisplayNameFallsBackToLocalPart(t *testing.T) {
	id, err := Normalize(RawProfile{
		"id":     "g1",
		"emails": []map[string]any{{"value": "jane.doe@x.com"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "jane.doe", id.DisplayName)
	assert.Empty(t, id.AvatarURL)
}

func TestNormalize_PlainStringLists(t *testing.T) {
	id, err := Normalize(RawProfile{
		"id":     "g1",
		"emails": []string{"a@x.com"},
		"photos": []any{"https://img/a.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", id.Email)
	assert.Equal(t, "https://img/a.png", id.AvatarURL)
}

func TestNormalize_MissingRequiredFields(t *testing.T) {
	cases := map[string]RawProfile{
		"empty emails":     {"id": "g1", "emails": []any{}, "displayName": "A"},
		"no email at all":  {"id": "g1"},
		"blank email":      {"id": "g1", "emails": []any{map[string]any{"value": "  "}}},
		"missing id":       {"emails": []any{map[string]any{"value": "a@x.com"}}},
		"blank id":         {"id": "", "email": "a@x.com"},
		"empty payload":    {},
		"wrong value type": {"id": "g1", "emails": []any{map[string]any{"value": true}}},
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Normalize(raw)
			assert.ErrorIs(t, err, ErrNormalization)
		})
	}
}

func TestNormalize_NumericID(t *testing.T) {
	raw, err := ParseRawProfile([]byte(`{"id": 42, "email": "a@x.com"}`))
	require.NoError(t, err)

	id, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, "42", id.ExternalID)
}

func TestParseRawProfile_InvalidJSON(t *testing.T) {
	_, err := ParseRawProfile([]byte(`{`))
	assert.Error(t, err)
}
