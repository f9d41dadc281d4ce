package api

import (
	_ "embed"

	"github.com/gofiber/fiber/v2"
)

//go:embed docs/openapi.json
var openAPIDocument []byte

//go:embed docs/index.html
var docsHTML []byte

// docsPage handles GET /docs/.
func (m *APIModule) docsPage(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(docsHTML)
}

// openAPISpec handles GET /openapi.json.
func (m *APIModule) openAPISpec(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(openAPIDocument)
}
