package report

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/shadowbane/home-flood-report/pkg/models"
	floodreport "github.com/shadowbane/home-flood-report/pkg/report"
)

// errUploadTooLarge is returned when the request body exceeds the upload cap.
var errUploadTooLarge = errors.New("upload is too large")

// parseForm reads a report form from a multipart or urlencoded request.
// The returned func closes the uploaded image and must always be called.
func parseForm(w http.ResponseWriter, r *http.Request, maxBytes int64) (floodreport.Submission, func(), error) {
	cleanup := func() {}

	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			return floodreport.Submission{}, cleanup, formError(err, maxBytes)
		}
		if err := r.ParseForm(); err != nil {
			return floodreport.Submission{}, cleanup, formError(err, maxBytes)
		}
	}

	sub := floodreport.Submission{
		Address:     r.FormValue("address"),
		Cause:       models.CauseType(r.FormValue("cause")),
		CustomCause: r.FormValue("custom_cause"),
	}

	severity, err := parseSeverity(r.FormValue("severity"))
	if err != nil {
		return sub, cleanup, err
	}
	sub.Severity = severity

	if r.MultipartForm == nil {
		return sub, cleanup, nil
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return sub, cleanup, nil
	}
	if err != nil {
		return floodreport.Submission{}, cleanup, formError(err, maxBytes)
	}

	sub.Image = file
	sub.ImageFilename = header.Filename
	return sub, func() { closeFile(file) }, nil
}

// parseSeverity defaults a missing value to the slider's starting position.
func parseSeverity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.MinSeverity, nil
	}
	severity, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: severity must be a whole number", floodreport.ErrInvalidSubmission)
	}
	return severity, nil
}

func formError(err error, maxBytes int64) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || errors.Is(err, multipart.ErrMessageTooLarge) {
		return fmt.Errorf("%w: limit is %d MB", errUploadTooLarge, maxBytes>>20)
	}
	return fmt.Errorf("%w: %v", floodreport.ErrInvalidSubmission, err)
}

func closeFile(f multipart.File) {
	_ = f.Close()
}

// statusFor maps a submission error to the HTTP status it is reported with.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errUploadTooLarge):
		return http.StatusRequestEntityTooLarge
	case floodreport.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
