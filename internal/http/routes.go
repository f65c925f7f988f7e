package httpx

import (
	"log/slog"
	"net/http"

	"github.com/zoohub/zookeeper-hub/internal/core"
	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
	"github.com/zoohub/zookeeper-hub/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth     AuthServiceInterface
	Animals  *service.AnimalService
	Feeding  *service.FeedingService
	Medical  *service.MedicalService
	Users    *service.UserService
	Research *service.ResearchService

	// NewWatcher creates a per-connection auth state store for /auth/watch,
	// scoped to the requesting browser's session.
	NewWatcher func(sessionID string) (AuthStateWatcher, error)

	Cache        core.CacheRepository // optional, health checks
	Metrics      GuardMetrics         // optional
	CookieDomain string
	SSOEnabled   bool
	Logger       *slog.Logger
}

// NewRouter creates and configures the HTTP handler tree.
func NewRouter(services RouterServices) (http.Handler, error) {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	renderer, err := NewTemplateRenderer(TemplateRendererConfig{Logger: logger})
	if err != nil {
		return nil, err
	}

	base := UIBase{Renderer: renderer, Logger: logger}
	guard := &Guard{Sessions: services.Auth, Metrics: services.Metrics, FallbackPath: "/"}

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		Renderer:     renderer,
		CookieDomain: services.CookieDomain,
		SSOEnabled:   services.SSOEnabled,
		Logger:       logger,
	}

	home := &HomeUI{UIBase: base}
	dashboard := &DashboardUI{UIBase: base, Animals: services.Animals, Feeding: services.Feeding, Medical: services.Medical}
	animals := &AnimalsUI{UIBase: base, Svc: services.Animals}
	feeding := &FeedingUI{UIBase: base, Svc: services.Feeding}
	medical := &MedicalUI{UIBase: base, Svc: services.Medical, Animals: services.Animals}
	users := &UsersUI{UIBase: base, Svc: services.Users}
	research := &ResearchUI{UIBase: base, Svc: services.Research}
	researchAPI := &ResearchAPIHandlers{Svc: services.Research}
	health := &HealthHandlers{Cache: services.Cache}

	mux := http.NewServeMux()

	// public
	mux.Handle("GET /", guard.OptionalSession()(http.HandlerFunc(home.Page)))
	mux.Handle("GET /login", http.HandlerFunc(authHandlers.LoginPage))
	mux.Handle("POST /login", http.HandlerFunc(authHandlers.LoginSubmit))
	mux.Handle("GET /auth/sso", http.HandlerFunc(authHandlers.SSOBegin))
	mux.Handle("GET /auth/callback", http.HandlerFunc(authHandlers.Callback))
	mux.Handle("POST /logout", http.HandlerFunc(authHandlers.Logout))
	mux.Handle("GET /auth/status", http.HandlerFunc(authHandlers.Status))
	mux.Handle("GET /healthz", http.HandlerFunc(health.Healthz))
	mux.Handle("HEAD /healthz", http.HandlerFunc(health.Healthz))

	if services.NewWatcher != nil {
		watch := &WatchHandlers{NewWatcher: services.NewWatcher, Logger: logger}
		mux.Handle("GET /auth/watch", http.HandlerFunc(watch.Watch))
	}

	// role-gated pages
	adminOnly := guard.RequirePage(domainauth.RoleAdmin)
	overview := guard.RequirePage(domainauth.RoleAdmin, domainauth.RoleResearcher)
	keepers := guard.RequirePage(domainauth.RoleZookeeper)
	vets := guard.RequirePage(domainauth.RoleVet)

	mux.Handle("GET /dashboard", overview(http.HandlerFunc(dashboard.Page)))

	mux.Handle("GET /feeding", keepers(http.HandlerFunc(feeding.Page)))
	mux.Handle("POST /feeding", keepers(http.HandlerFunc(feeding.Create)))

	mux.Handle("GET /medical", vets(http.HandlerFunc(medical.Page)))
	mux.Handle("POST /medical", vets(http.HandlerFunc(medical.Create)))

	mux.Handle("GET /animals", adminOnly(http.HandlerFunc(animals.Page)))
	mux.Handle("POST /animals", adminOnly(http.HandlerFunc(animals.Create)))
	mux.Handle("POST /animals/update", adminOnly(http.HandlerFunc(animals.Update)))
	mux.Handle("POST /animals/delete", adminOnly(http.HandlerFunc(animals.Delete)))

	mux.Handle("GET /users", adminOnly(http.HandlerFunc(users.Page)))
	mux.Handle("POST /users", adminOnly(http.HandlerFunc(users.Create)))
	mux.Handle("POST /users/role", adminOnly(http.HandlerFunc(users.SetRole)))
	mux.Handle("POST /users/delete", adminOnly(http.HandlerFunc(users.Delete)))

	mux.Handle("GET /research", overview(http.HandlerFunc(research.Page)))
	mux.Handle("POST /api/research/query",
		guard.RequireAPI(domainauth.RoleAdmin, domainauth.RoleResearcher)(http.HandlerFunc(researchAPI.Query)))

	return mux, nil
}
