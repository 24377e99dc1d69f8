package controllers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/shadowbane/home-flood-report/pkg/application"
	traits "github.com/shadowbane/weather-alert/pkg/traits/controller-traits"
)

// Health reports whether the record store can be read.
func Health(app *application.Application) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		reports, err := app.Store.Load(r.Context())
		if err != nil {
			traits.WriteErrorResponse(w, http.StatusServiceUnavailable, err.Error())
			return
		}

		traits.WriteResponse(w, map[string]interface{}{
			"status":  "ok",
			"store":   app.Cfg.StoreDriver,
			"reports": len(reports),
		})
	}
}
