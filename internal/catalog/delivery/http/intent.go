package http

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dropkit/storefront/internal/catalog/domain"
)

// WhatsAppLink builds the deep link a buyer follows to open a chat with the
// shop about a product. Purchase intent is routed to messaging; there is no
// checkout here.
func WhatsAppLink(phone string, product domain.Product) string {
	message := fmt.Sprintf(
		"Hi! I'm interested in %s (%s, level %d) for %.2f.",
		product.Name, product.DropID, product.Level, product.Price,
	)
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(message)
}
