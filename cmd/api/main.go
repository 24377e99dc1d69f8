package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/shadowbane/home-flood-report/cmd/api/router"
	"github.com/shadowbane/home-flood-report/pkg/application"
	"github.com/shadowbane/weather-alert/pkg/exithandler"
	"github.com/shadowbane/weather-alert/pkg/server"
	"go.uber.org/zap"
)

func main() {
	if cpuCount := runtime.NumCPU(); cpuCount > 1 {
		runtime.GOMAXPROCS(cpuCount)
	}

	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil {
		fmt.Printf("No .env file loaded (%v), using the process environment\n", err)
	}

	app, err := application.Start()
	if err != nil {
		// the global logger may not exist yet
		fmt.Fprintf(os.Stderr, "flood report: %v\n", err)
		os.Exit(1)
	}

	zap.S().Infof("Reports in %s store, photos in %s, geocoder %s",
		app.Cfg.StoreDriver, app.Images.Dir(), app.Cfg.Geocoder)

	srv := server.
		Get().
		WithAddr(app.Cfg.GetAPIPort()).
		WithRouter(router.Api(app)).
		WithErrLogger(zap.S())

	app.StartBackgroundJobs()

	go func() {
		zap.S().Infof("Serving flood report page at %s", app.Cfg.GetAPIPort())
		if err := srv.Start(); err != nil {
			zap.S().Warn(err.Error())
		}
	}()

	exithandler.Init(func() {
		zap.S().Info("Shutting down flood report service")

		// stop accepting submissions before the stats job and the store go away
		if err := srv.Close(); err != nil {
			zap.S().Errorf("Error closing server: %v", err)
		}
		app.StopBackgroundJobs()
		app.Close()
	})
}
