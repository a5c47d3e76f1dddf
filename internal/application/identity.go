package application

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/oksasatya/campus-auth/internal/domain/entity"
)

// RawProfile is the loosely shaped payload returned by the Google handshake.
// Two shapes are seen in practice: the passport-style profile
// (id, displayName, emails[], photos[]) and the OpenID userinfo document
// (sub, name, email, picture).
type RawProfile map[string]any

// ParseRawProfile decodes a JSON profile document.
func ParseRawProfile(b []byte) (RawProfile, error) {
	var raw RawProfile
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return raw, nil
}

// Normalize extracts the canonical identity from raw. It fails with
// ErrNormalization when the email or the provider id cannot be resolved.
func Normalize(raw RawProfile) (entity.ExternalIdentity, error) {
	id := raw.firstString("id", "sub", "googleId")
	if id == "" {
		return entity.ExternalIdentity{}, fmt.Errorf("%w: provider id", ErrNormalization)
	}

	email := raw.firstListValue("emails")
	if email == "" {
		email = raw.firstString("email")
	}
	if email == "" {
		return entity.ExternalIdentity{}, fmt.Errorf("%w: email", ErrNormalization)
	}

	name := raw.firstString("displayName", "fullName", "name")
	if name == "" {
		name = localPart(email)
	}

	avatar := raw.firstListValue("photos")
	if avatar == "" {
		avatar = raw.firstString("picture", "profilePicture")
	}

	return entity.ExternalIdentity{
		ExternalID:  id,
		Email:       email,
		DisplayName: name,
		AvatarURL:   avatar,
	}, nil
}

func localPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// firstString returns the first non-empty scalar among keys. Numeric ids are
// accepted since some decoders surface them as float64.
func (r RawProfile) firstString(keys ...string) string {
	for _, k := range keys {
		if s := scalar(r[k]); s != "" {
			return s
		}
	}
	return ""
}

// firstListValue reads the first entry of a list field, where entries are
// either plain strings or objects carrying a "value" key.
func (r RawProfile) firstListValue(key string) string {
	var first any
	switch list := r[key].(type) {
	case []any:
		if len(list) > 0 {
			first = list[0]
		}
	case []map[string]any:
		if len(list) > 0 {
			first = list[0]
		}
	case []string:
		if len(list) > 0 {
			first = list[0]
		}
	}
	switch v := first.(type) {
	case map[string]any:
		return scalar(v["value"])
	default:
		return scalar(v)
	}
}

func scalar(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return fmt.Sprintf("%.0f", x)
	case json.Number:
		return x.String()
	}
	return ""
}
