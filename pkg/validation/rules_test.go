package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileForm struct {
	Username string `json:"username" validate:"omitempty,alphanum,min=3,max=30"`
	Phone    string `json:"phone" validate:"omitempty,phone,max=20"`
	Website  string `json:"website" validate:"omitempty,flexurl"`
}

type passwordForm struct {
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

type eventForm struct {
	DateTime     time.Time `json:"dateTime" validate:"required,future"`
	MaxAttendees int       `json:"maxAttendees" validate:"required,min=1,max=10000"`
}

func TestIsFlexURL(t *testing.T) {
	assert.True(t, IsFlexURL(""))
	assert.True(t, IsFlexURL("/uploads/a.jpg"))
	assert.True(t, IsFlexURL("https://example.com/a.jpg"))
	assert.False(t, IsFlexURL("ftp://example.com"))
	assert.False(t, IsFlexURL("example.com"))
	assert.False(t, IsFlexURL("https://"))
}

func TestRules_ProfileForm(t *testing.T) {
	v := New()

	require.NoError(t, v.Struct(profileForm{Username: "alice42", Phone: "+1 (555) 010-2000", Website: "https://a.io"}))

	err := v.Struct(profileForm{Username: "al", Phone: "call me", Website: "nope"})
	require.Error(t, err)

	msgs := Messages(err)
	assert.Contains(t, msgs, "username length must be at least 3 characters long")
	assert.Contains(t, msgs, "phone fails to match the required pattern")
	assert.Contains(t, msgs, "website must be a valid uri")
}

func TestRules_PasswordConfirmation(t *testing.T) {
	err := New().Struct(passwordForm{NewPassword: "secret1", ConfirmPassword: "secret2"})
	require.Error(t, err)
	assert.Equal(t, []string{"confirmPassword must match newPassword"}, Messages(err))
}

func TestRules_FutureAndNumericBounds(t *testing.T) {
	err := New().Struct(eventForm{DateTime: time.Now().Add(-time.Hour), MaxAttendees: 20000})
	require.Error(t, err)

	msgs := Messages(err)
	assert.Contains(t, msgs, "dateTime must be greater than or equal to now")
	assert.Contains(t, msgs, "maxAttendees must be less than or equal to 10000")
}
