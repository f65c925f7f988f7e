package httpx

import "net/http"

// HomeUI renders the public landing page.
type HomeUI struct {
	UIBase
}

// Page handles GET /.
func (h *HomeUI) Page(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.Renderer.RenderErrorPage(w, http.StatusNotFound, "Page not found.")
		return
	}
	h.render(w, r, "home", PageData{Title: "Home"}, 0)
}
