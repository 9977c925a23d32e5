package http

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropkit/storefront/internal/catalog/domain"
)

func TestWhatsAppLink(t *testing.T) {
	link := WhatsAppLink("+49 170 123-4567", domain.Product{
		Name:   "Vintage Tee",
		DropID: "summer-24",
		Level:  2,
		Price:  49.9,
	})

	assert.True(t, strings.HasPrefix(link, "https://wa.me/491701234567?text="))

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	text := parsed.Query().Get("text")
	assert.Contains(t, text, "Vintage Tee")
	assert.Contains(t, text, "summer-24")
	assert.Contains(t, text, "level 2")
	assert.Contains(t, text, "49.90")
}

func TestWhatsAppLinkStripsNonDigits(t *testing.T) {
	link := WhatsAppLink("(0049) 170/1234567", domain.Product{Name: "Tee"})
	assert.True(t, strings.HasPrefix(link, "https://wa.me/00491701234567?"))
}
