package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "plain", in: "Vaccination campaign", max: 100, want: "Vaccination campaign"},
		{name: "trims", in: "  spaced \n", max: 100, want: "spaced"},
		{name: "strips tags", in: `<script>alert(1)</script>Hello <b>there</b>`, max: 100, want: "alert(1)Hello there"},
		{name: "only markup", in: "<br/><hr>", max: 100, want: ""},
		{name: "composes accents", in: "Reunia\u0303o", max: 100, want: "Reuni\u00e3o"},
		{name: "caps runes", in: strings.Repeat("ç", 10), max: 4, want: "çççç"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeText(tt.in, tt.max))
		})
	}
}

func TestOptionalText(t *testing.T) {
	assert.Nil(t, optionalText("   "))
	got := optionalText(" note ")
	if assert.NotNil(t, got) {
		assert.Equal(t, "note", *got)
	}
}
