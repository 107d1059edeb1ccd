package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ihuusa2/ihu-usa-sub002/internal/domain"
	"github.com/ihuusa2/ihu-usa-sub002/internal/http/handlers"
	"github.com/ihuusa2/ihu-usa-sub002/internal/infra"
	"github.com/ihuusa2/ihu-usa-sub002/internal/middleware"
)

// Options configures the router middleware stack.
type Options struct {
	Logger          infra.Logger
	CORSOrigins     []string
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
	RateLimitPerMin int
	// StaticDir is served under /static when set.
	StaticDir string
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.CORSOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	if opts.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	}

	limited := middleware.RateLimit(opts.RateLimitPerMin, time.Minute)
	auth := middleware.AuthJWT(app.JWTSecret)

	carousels := app.CarouselHandlers()
	flyers := app.FlyerHandlers()
	videos := app.VideoHandlers()
	teamTypes := app.TeamTypeHandlers()

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)

		r.Route("/donations", func(r chi.Router) {
			r.With(limited).Post("/", app.DonationsCreate)
			r.With(limited).Post("/update-status", app.DonationsUpdateStatus)
			r.With(limited).Post("/{id}/paypal/order", app.DonationsCreateOrder)
			r.With(limited).Post("/{id}/paypal/capture", app.DonationsCapture)
		})

		r.Route("/volunteers", func(r chi.Router) {
			r.With(limited).Post("/", app.VolunteersSubmit)
			r.Post("/steps/{step}/validate", app.VolunteersValidateStep)
		})

		r.Get("/carousels", carousels.PublicList)
		r.Get("/flyers", flyers.PublicList)
		r.Get("/videos", videos.PublicList)
		r.Get("/team", app.TeamDirectory)
		r.Get("/popup", app.PopupGet)

		r.Route("/auth", func(r chi.Router) {
			r.With(limited).Post("/login", app.AuthLogin)
			r.With(limited).Post("/google", app.AuthGoogleVerify)
			r.With(auth).Get("/me", app.Me)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth, middleware.RequireRole(domain.UserRoleAdmin, domain.UserRoleStaff))

			r.Get("/stats", app.StatsSummary)

			r.Route("/donations", func(r chi.Router) {
				r.Get("/", app.AdminDonationsList)
				r.Get("/export", app.AdminDonationsExport)
				r.Get("/{id}", app.AdminDonationsGet)
				r.Delete("/{id}", app.AdminDonationsDelete)
				r.Post("/{id}/complete", app.AdminDonationsComplete)
				r.Post("/{id}/refund", app.AdminDonationsRefund)
			})

			r.Route("/volunteers", func(r chi.Router) {
				r.Get("/", app.AdminVolunteersList)
				r.Get("/export", app.AdminVolunteersExport)
				r.Get("/{id}", app.AdminVolunteersGet)
			})

			mountContent(r, "/carousels", carousels)
			mountContent(r, "/flyers", flyers)
			mountContent(r, "/videos", videos)
			mountContent(r, "/team-types", teamTypes)

			r.Get("/popup", app.PopupGet)
			r.Put("/popup", app.AdminPopupPut)

			r.Post("/uploads", app.AdminUpload)

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.UserRoleAdmin))
				r.Get("/", app.AdminUsersList)
				r.Post("/", app.AdminUsersCreate)
				r.Get("/{id}", app.AdminUsersGet)
				r.Put("/{id}", app.AdminUsersUpdate)
				r.Delete("/{id}", app.AdminUsersDelete)
			})
		})
	})

	return r
}

func mountContent(r chi.Router, pattern string, h handlers.ContentHandlers) {
	r.Route(pattern, func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}
