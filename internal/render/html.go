package render

import (
	"embed"
	htmlpkg "html"
	"html/template"
	"net/url"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// Heading returns the gift card greeting for name
func Heading(name string) string {
	return "Merry Christmas, " + name + "!"
}

// GiftCard generates the gift reveal card pushed to the viewer when the gift opens
func GiftCard(name, wish, signature string) string {
	var b strings.Builder
	b.WriteString(`<div class="gift-card"><h1 class="gift-heading">`)
	b.WriteString(htmlpkg.EscapeString(Heading(name)))
	b.WriteString(`</h1><div class="gift-divider"></div><p class="gift-wish">&ldquo;`)
	b.WriteString(htmlpkg.EscapeString(wish))
	b.WriteString(`&rdquo;</p>`)
	if signature != "" {
		b.WriteString(`<div class="gift-signature"><p>- `)
		b.WriteString(htmlpkg.EscapeString(signature))
		b.WriteString(`</p></div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// CelebrationPath returns the hand-off URL for a submitted name. The name is
// carried as typed, URL-encoded.
func CelebrationPath(name string) string {
	return "/celebration?" + url.Values{"name": {name}}.Encode()
}
