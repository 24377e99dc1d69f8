package router

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shadowbane/home-flood-report/cmd/api/controllers"
	"github.com/shadowbane/home-flood-report/cmd/api/controllers/report"
	"github.com/shadowbane/home-flood-report/pkg/application"
	"github.com/shadowbane/home-flood-report/pkg/middleware"
)

func Api(app *application.Application) *httprouter.Router {
	mux := httprouter.New()

	var limiter *middleware.RateLimiter
	if app.Cfg.IsSubmitRateLimited() {
		limiter = middleware.NewRateLimiter(app.Cfg.SubmitRatePerMinute, app.Cfg.SubmitBurst, 10*time.Minute)
	}

	// Report page
	mux.GET("/", report.Index(app))
	mux.POST("/reports", middleware.Limit(limiter, report.Create(app)))

	// Flood Reports
	mux.GET("/api/v1/reports", report.List(app))
	mux.POST("/api/v1/reports", middleware.Limit(limiter, report.Store(app)))
	mux.GET("/api/v1/reports/map", report.Map(app))

	// Uploaded photos
	mux.ServeFiles("/images/*filepath", http.Dir(app.Images.Dir()))

	mux.GET("/healthz", controllers.Health(app))
	mux.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{}))

	return mux
}
