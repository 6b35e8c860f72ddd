package web

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"lostfound/internal/core/posts"
)

// Handlers provides HTTP handlers for the web interface.
type Handlers struct {
	templates      *Templates
	publishableKey string
	frontendAPI    string
}

// NewHandlers creates a new Handlers instance.
// publishableKey is the identity provider's browser key; the sign-in script
// is omitted when it is empty or malformed.
func NewHandlers(templates *Templates, publishableKey string) *Handlers {
	return &Handlers{
		templates:      templates,
		publishableKey: publishableKey,
		frontendAPI:    FrontendAPIFromPublishableKey(publishableKey),
	}
}

// PageData holds data shared by every page template.
type PageData struct {
	Title            string
	PublishableKey   string
	ClerkFrontendAPI string
	// MaxDistance is the search radius in meters used by the nearby page
	MaxDistance int
}

func (h *Handlers) pageData(title string) PageData {
	return PageData{
		Title:            title,
		PublishableKey:   h.publishableKey,
		ClerkFrontendAPI: h.frontendAPI,
		MaxDistance:      posts.DefaultMaxDistance,
	}
}

// NearbyHandler handles GET / and renders the nearby posts page.
func (h *Handlers) NearbyHandler(w http.ResponseWriter, r *http.Request) {
	h.render(w, "nearby.html", h.pageData("Nearby Lost & Found"))
}

// CreatePostHandler handles GET /posts/new and renders the creation form.
func (h *Handlers) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	h.render(w, "create.html", h.pageData("Create Post"))
}

func (h *Handlers) render(w http.ResponseWriter, name string, data PageData) {
	if err := h.templates.Render(w, name, data); err != nil {
		slog.Error("failed to render page", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// FrontendAPIFromPublishableKey decodes the frontend API host embedded in a
// publishable key ("pk_test_" or "pk_live_" + base64("<host>$")).
// Returns "" when the key is not in that form.
func FrontendAPIFromPublishableKey(key string) string {
	var encoded string
	switch {
	case strings.HasPrefix(key, "pk_test_"):
		encoded = strings.TrimPrefix(key, "pk_test_")
	case strings.HasPrefix(key, "pk_live_"):
		encoded = strings.TrimPrefix(key, "pk_live_")
	default:
		return ""
	}

	decoded, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(encoded, "="))
	if err != nil {
		return ""
	}
	host, ok := strings.CutSuffix(string(decoded), "$")
	if !ok || host == "" || strings.ContainsAny(host, "/ ") {
		return ""
	}
	return host
}
