package report

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/shadowbane/home-flood-report/pkg/application"
	"github.com/shadowbane/home-flood-report/pkg/render"
	floodreport "github.com/shadowbane/home-flood-report/pkg/report"
	traits "github.com/shadowbane/home-flood-report/pkg/traits/controller-traits"
	"go.uber.org/zap"
)

// Index renders the form, the map and the report list.
func Index(app *application.Application) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		renderPage(w, r, app, http.StatusOK, nil, render.FormValues{})
	}
}

// Create handles the HTML form submission and answers with the refreshed page.
func Create(app *application.Application) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		sub, cleanup, err := parseForm(w, r, app.Cfg.GetMaxUploadBytes())
		defer cleanup()

		form := render.FormValues{
			Address:     sub.Address,
			Cause:       string(sub.Cause),
			CustomCause: sub.CustomCause,
			Severity:    sub.Severity,
		}

		if err != nil {
			renderSubmitError(w, r, app, err, form)
			return
		}

		created, err := app.Reports.Submit(r.Context(), sub)
		if err != nil {
			renderSubmitError(w, r, app, err, form)
			return
		}

		notice := &render.Notice{
			Kind:     render.NoticeSuccess,
			Message:  fmt.Sprintf("Flood report added at %s. See it on the map below.", created.Address),
			ImageURL: traits.ImageURL(created.ImagePath),
		}
		renderPage(w, r, app, http.StatusOK, notice, render.FormValues{})
	}
}

func renderSubmitError(w http.ResponseWriter, r *http.Request, app *application.Application, err error, form render.FormValues) {
	// nothing was entered; show the page again without complaint
	if errors.Is(err, floodreport.ErrMissingAddress) {
		notice := &render.Notice{Kind: render.NoticeInfo, Message: "Enter a street address to report a flood."}
		renderPage(w, r, app, http.StatusOK, notice, form)
		return
	}

	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		zap.S().Errorf("Error saving flood report: %v", err)
		message = "The flood report could not be saved. Please try again."
	}
	renderPage(w, r, app, status, &render.Notice{Kind: render.NoticeError, Message: message}, form)
}

func renderPage(w http.ResponseWriter, r *http.Request, app *application.Application, status int, notice *render.Notice, form render.FormValues) {
	reports, err := app.Reports.List(r.Context())
	if err != nil {
		zap.S().Errorf("Error loading flood reports: %v", err)
		http.Error(w, "flood reports could not be loaded", http.StatusInternalServerError)
		return
	}

	var page strings.Builder
	if err := app.Renderer.Render(&page, app.Renderer.NewPage(reports, notice, form)); err != nil {
		zap.S().Errorf("Error rendering page: %v", err)
		http.Error(w, "page could not be rendered", http.StatusInternalServerError)
		return
	}

	if status == http.StatusOK {
		traits.WriteHTMLResponse(w, page.String())
		return
	}
	traits.WriteHTMLResponseWithStatus(w, status, page.String())
}
