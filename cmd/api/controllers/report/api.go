package report

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/shadowbane/home-flood-report/pkg/application"
	"github.com/shadowbane/home-flood-report/pkg/models"
	"github.com/shadowbane/home-flood-report/pkg/render"
	floodreport "github.com/shadowbane/home-flood-report/pkg/report"
	traits "github.com/shadowbane/home-flood-report/pkg/traits/controller-traits"
	basetraits "github.com/shadowbane/weather-alert/pkg/traits/controller-traits"
	"go.uber.org/zap"
)

// ReportResponse is the response DTO for a flood report
type ReportResponse struct {
	ID        string    `json:"id,omitempty"`
	Latitude  string    `json:"lat"`
	Longitude string    `json:"lon"`
	Address   string    `json:"address"`
	Type      string    `json:"type"`
	Severity  int       `json:"severity"`
	ImagePath string    `json:"image_path"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// toResponse converts a FloodReport to its response DTO with optional timezone formatting
func toResponse(report models.FloodReport, timezone string) ReportResponse {
	resp := ReportResponse{
		ID:        report.ID,
		Latitude:  report.Latitude,
		Longitude: report.Longitude,
		Address:   report.Address,
		Type:      report.Type,
		Severity:  report.Severity,
		ImagePath: report.ImagePath,
		ImageURL:  traits.ImageURL(report.ImagePath),
	}
	// CSV rows carry no timestamps
	if !report.CreatedAt.IsZero() {
		createdAt := basetraits.FormatTimeWithTimezone(report.CreatedAt, timezone)
		resp.CreatedAt = &createdAt
	}
	return resp
}

// storeRequest is the JSON body accepted by Store.
type storeRequest struct {
	Address     string `json:"address"`
	Cause       string `json:"cause"`
	CustomCause string `json:"custom_cause"`
	// nil when the client left severity out
	Severity *int `json:"severity"`
}

// List returns stored reports in insertion order, paginated.
func List(app *application.Application) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		timezone := r.URL.Query().Get("timezone")
		cause := r.URL.Query().Get("type")

		// Set defaults
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > 100 {
			limit = 20
		}

		reports, err := app.Reports.List(r.Context())
		if err != nil {
			zap.S().Errorf("Error loading flood reports: %v", err)
			basetraits.WriteErrorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}

		if cause != "" {
			filtered := reports[:0]
			for _, report := range reports {
				if strings.EqualFold(report.Type, cause) {
					filtered = append(filtered, report)
				}
			}
			reports = filtered
		}

		total := len(reports)
		start := min((page-1)*limit, total)
		end := min(start+limit, total)

		responses := make([]ReportResponse, 0, end-start)
		for _, report := range reports[start:end] {
			responses = append(responses, toResponse(report, timezone))
		}

		totalPages := total / limit
		if total%limit > 0 {
			totalPages++
		}

		pagination := basetraits.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      int64(total),
			TotalPages: totalPages,
		}

		basetraits.WritePaginatedResponse(w, responses, pagination)
	}
}

// Store accepts a submission as JSON or as a form and returns the stored report.
func Store(app *application.Application) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		var (
			sub     floodreport.Submission
			cleanup = func() {}
			err     error
		)

		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			sub, err = decodeJSON(w, r, app.Cfg.GetMaxUploadBytes())
		} else {
			sub, cleanup, err = parseForm(w, r, app.Cfg.GetMaxUploadBytes())
		}
		defer cleanup()

		if err == nil {
			var created models.FloodReport
			created, err = app.Reports.Submit(r.Context(), sub)
			if err == nil {
				basetraits.WriteResponse(w, toResponse(created, r.URL.Query().Get("timezone")))
				return
			}
		}

		status := statusFor(err)
		message := err.Error()
		if status == http.StatusInternalServerError {
			zap.S().Errorf("Error saving flood report: %v", err)
			message = "flood report could not be saved"
		}
		basetraits.WriteErrorResponse(w, status, message)
	}
}

// Map returns the map center and markers for every stored report.
func Map(app *application.Application) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		reports, err := app.Reports.List(r.Context())
		if err != nil {
			zap.S().Errorf("Error loading flood reports: %v", err)
			basetraits.WriteErrorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}

		basetraits.WriteResponse(w, render.BuildMapView(reports))
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64) (floodreport.Submission, error) {
	var req storeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBytes)).Decode(&req); err != nil {
		return floodreport.Submission{}, formError(err, maxBytes)
	}
	severity := models.MinSeverity
	if req.Severity != nil {
		severity = *req.Severity
	}
	return floodreport.Submission{
		Address:     req.Address,
		Cause:       models.CauseType(req.Cause),
		CustomCause: req.CustomCause,
		Severity:    severity,
	}, nil
}
