package locale

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromHeader(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", "en"},
		{"   ", "en"},
		{"*", "en"},
		{"ru", "ru"},
		{"RU", "ru"},
		{"ru-RU,ru;q=0.9,en;q=0.8", "ru"},
		{"de;q=0.5, en", "de"},
		{"es-419", "es"},
		{"en-US", "en"},
		{"not a tag!", "not a tag!"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, FromHeader(tt.header))
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, Default, FromContext(ctx))

	ctx = WithLanguage(ctx, "ru")
	assert.Equal(t, "ru", FromContext(ctx))

	assert.Equal(t, Default, FromContext(WithLanguage(ctx, "")))
}
