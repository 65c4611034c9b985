package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sportscom/internal/core/domain"
)

func newTestValidator() *ResponseValidator {
	return NewResponseValidator(domain.DefaultAppSettings().Response, newTestDetector())
}

func TestResponseValidator_Accepts(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.Validate("agility cup kab hai?", "Agility Cup November first week mein hai bro."))
	assert.NoError(t, v.Validate("hostel timings?", "Ask this on sports update group."))
}

func TestResponseValidator_LengthWindow(t *testing.T) {
	v := newTestValidator()

	err := v.Validate("q", strings.Repeat("a", 801))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "800")
	assert.ErrorIs(t, err, domain.ErrValidationRejected)

	assert.NoError(t, v.Validate("q", strings.Repeat("a", 800)))
	assert.NoError(t, v.Validate("give me detail", strings.Repeat("a", 1200)))

	err = v.Validate("give me DETAILS", strings.Repeat("a", 1201))
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "1200")

	assert.Error(t, v.Validate("q", "a"))
	assert.Error(t, v.Validate("q", "   "))
}

func TestResponseValidator_CountsCharactersNotBytes(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.Validate("q", strings.Repeat("ō", 800)))
}

func TestResponseValidator_Profanity(t *testing.T) {
	v := newTestValidator()

	assert.True(t, v.ContainsProfanity("what the FUCK"))
	assert.True(t, v.ContainsProfanity("bc kab hai"))
	assert.False(t, v.ContainsProfanity("abc trials"), "blocklist matches whole words only")
	assert.False(t, v.ContainsProfanity("basketball trials"))

	err := v.Validate("q", "shit happens at trials")
	assert.ErrorIs(t, err, domain.ErrValidationRejected)
}

func TestResponseValidator_EmptyBlocklist(t *testing.T) {
	v := NewResponseValidator(domain.ResponseSettings{}, nil)

	assert.False(t, v.ContainsProfanity("fuck"))
	assert.NoError(t, v.Validate("q", strings.Repeat("a", 5000)))
}

func TestResponseValidator_EventIsolation(t *testing.T) {
	v := newTestValidator()

	err := v.Validate("when is agility cup", "Agility Cup is in November, Spoorthi is in Feb.")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "Spoorthi")
	assert.Contains(t, verr.Reason, "Agility Cup")

	assert.NoError(t, v.Validate("agility and spoorthi dates?", "Agility Cup in Nov, Spoorthi in Feb."))
	assert.NoError(t, v.Validate("what events are there", "Agility Cup, Spoorthi and the Marathon."))
}
