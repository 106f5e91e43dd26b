package handlers

import (
	"net/http"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/aaronzipp/holiday-wishes/internal/celebration"
	"github.com/aaronzipp/holiday-wishes/internal/render"
)

const qrSize = 320 // mobile-friendly size

// HandleShareQR returns a PNG QR code linking to the celebration for a name
func (ctx *Context) HandleShareQR(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if !celebration.HasName(name) {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	png, err := qrcode.Encode(ctx.baseURL(r)+render.CelebrationPath(name), qrcode.Medium, qrSize)
	if err != nil {
		ctx.Log.WithError(err).Error("qr generation failed")
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// baseURL is PUBLIC_URL when set, else derived from the request
func (ctx *Context) baseURL(r *http.Request) string {
	if ctx.Settings.PublicURL != "" {
		return strings.TrimSuffix(ctx.Settings.PublicURL, "/")
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}
