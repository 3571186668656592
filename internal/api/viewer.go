package api

import (
	"net/http"

	"github.com/google/uuid"
)

const (
	viewerHeader = "X-Viewer-ID"
	viewerCookie = "viewer_id"
	maxViewerLen = 64
)

// viewerID identifies whose slideshow a request drives: the X-Viewer-ID
// header, else the viewer cookie, else a new id handed back as a cookie.
func viewerID(w http.ResponseWriter, r *http.Request) string {
	if id := r.Header.Get(viewerHeader); id != "" && len(id) <= maxViewerLen {
		return id
	}
	if c, err := r.Cookie(viewerCookie); err == nil && c.Value != "" && len(c.Value) <= maxViewerLen {
		return c.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     viewerCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
