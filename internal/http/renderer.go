package httpx

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
)

//go:embed templates
var templateFS embed.FS

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	t      *template.Template
	logger *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS        // Filesystem containing templates; defaults to the embedded set
	Logger     *slog.Logger // Logger for template errors (optional)
}

// NewTemplateRenderer constructs a renderer by parsing templates from the provided config.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	tfs := cfg.TemplateFS
	if tfs == nil {
		sub, err := fs.Sub(templateFS, "templates")
		if err != nil {
			return nil, err
		}
		tfs = sub
	}

	t, err := template.New("root").Funcs(templateFuncs()).ParseFS(tfs,
		"*.tmpl",
		"pages/*.tmpl",
	)
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Error("template parsing failed", slog.Any("error", err))
		}
		return nil, err
	}
	return &TemplateRenderer{t: t, logger: cfg.Logger}, nil
}

// PageData is the payload every full-page template receives.
type PageData struct {
	Title   string
	Active  string // nav highlight key
	Session *domainauth.Session
	Error   string
	Notice  string
	Data    any
}

// RenderPage renders a named page inside the shared layout.
func (r *TemplateRenderer) RenderPage(w http.ResponseWriter, page string, data PageData) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, page, data); err != nil {
		if r.logger != nil {
			r.logger.Error("template execution failed",
				slog.String("template", page),
				slog.Any("error", err),
			)
		}
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		return err
	}
	return nil
}

// RenderErrorPage renders the error page with the given HTTP status.
func (r *TemplateRenderer) RenderErrorPage(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)

	var buf bytes.Buffer
	data := PageData{Title: http.StatusText(code), Error: message}
	if err := r.t.ExecuteTemplate(&buf, "error", data); err != nil {
		if r.logger != nil {
			r.logger.Error("template execution failed",
				slog.String("template", "error"),
				slog.Any("error", err),
			)
		}
		return
	}
	buf.WriteTo(w) //nolint:errcheck // headers already sent
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"roleLabel": roleLabel,
		"fmtTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Local().Format("Jan 2, 2006 15:04")
		},
		"fmtDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Local().Format("Jan 2, 2006")
		},
	}
}

// roleLabel formats a role for display.
func roleLabel(role domainauth.Role) string {
	switch role {
	case domainauth.RoleUnassigned:
		return "Unassigned"
	case domainauth.RoleVet:
		return "Veterinarian"
	default:
		s := string(role)
		if s == "" {
			return "Unassigned"
		}
		return strings.ToUpper(s[:1]) + s[1:]
	}
}
