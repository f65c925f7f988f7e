package httpx

import (
	"log/slog"
	"net/http"
)

// UIBase carries the pieces every page handler shares.
type UIBase struct {
	Renderer *TemplateRenderer
	Logger   *slog.Logger
}

func (b *UIBase) logger() *slog.Logger {
	if b != nil && b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

// render writes a full page, filling the session from the request context.
// Code 0 means 200.
func (b *UIBase) render(w http.ResponseWriter, r *http.Request, page string, data PageData, code int) {
	data.Session = GetSessionFromContext(r.Context())
	if data.Active == "" {
		data.Active = page
	}
	if code != 0 && code != http.StatusOK {
		w.WriteHeader(code)
	}
	if err := b.Renderer.RenderPage(w, page, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// serverError logs the error and renders the shared error page.
func (b *UIBase) serverError(w http.ResponseWriter, r *http.Request, err error) {
	b.logger().ErrorContext(r.Context(), "page handler failed",
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	b.Renderer.RenderErrorPage(w, http.StatusInternalServerError, "Something went wrong.")
}
