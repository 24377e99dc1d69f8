package controllertraits

import (
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
)

// SeverityBadge holds the colors used to render a severity rating
type SeverityBadge struct {
	Label       string
	Background  string
	BorderColor string
	TextColor   string
}

// GetCauseIcon returns an appropriate icon/emoji for the flood cause
func GetCauseIcon(cause string) string {
	causeLower := strings.ToLower(cause)

	switch {
	case strings.Contains(causeLower, "drain"):
		return "🕳️"
	case strings.Contains(causeLower, "well") || strings.Contains(causeLower, "reservoir"):
		return "💧"
	case strings.Contains(causeLower, "pipe"):
		return "🚰"
	case strings.Contains(causeLower, "debris"):
		return "🪵"
	case strings.Contains(causeLower, "rain") || strings.Contains(causeLower, "storm"):
		return "🌧️"
	case strings.Contains(causeLower, "tide") || strings.Contains(causeLower, "surge"):
		return "🌊"
	default:
		return "⚠️"
	}
}

// GetSeverityBadge returns the badge colors for a 1-5 severity (light mode)
func GetSeverityBadge(severity int) SeverityBadge {
	badge := SeverityBadge{Label: FormatSeverity(severity)}

	switch {
	case severity >= 5:
		badge.Background = "#fef2f2"
		badge.BorderColor = "#fca5a5"
		badge.TextColor = "#dc2626"
	case severity >= 3:
		badge.Background = "#fffbeb"
		badge.BorderColor = "#fcd34d"
		badge.TextColor = "#d97706"
	default:
		badge.Background = "#f0fdf4"
		badge.BorderColor = "#86efac"
		badge.TextColor = "#16a34a"
	}

	return badge
}

// FormatSeverity renders a severity as "n/5"
func FormatSeverity(severity int) string {
	return fmt.Sprintf("%d/5", severity)
}

// ImageURL maps a stored image path to the URL it is served under.
// Empty paths stay empty.
func ImageURL(imagePath string) string {
	if imagePath == "" {
		return ""
	}
	return "/images/" + url.PathEscape(filepath.Base(imagePath))
}

// WriteHTMLResponse writes an HTML response
func WriteHTMLResponse(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(content))
}

// WriteHTMLResponseWithStatus writes an HTML response with a non-200 status
func WriteHTMLResponseWithStatus(w http.ResponseWriter, status int, content string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(content))
}
