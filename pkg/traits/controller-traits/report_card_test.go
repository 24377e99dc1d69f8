package controllertraits

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCauseIcon(t *testing.T) {
	assert.Equal(t, "🚰", GetCauseIcon("Pipe Burst"))
	assert.Equal(t, "🕳️", GetCauseIcon("Storm Drain Blockage"))
	assert.Equal(t, "💧", GetCauseIcon("Well/Reservoir Overflow"))
	assert.Equal(t, "🪵", GetCauseIcon("Debris"))
	assert.Equal(t, "⚠️", GetCauseIcon("Other"))
}

func TestGetSeverityBadge(t *testing.T) {
	assert.Equal(t, "5/5", GetSeverityBadge(5).Label)
	assert.Equal(t, "#dc2626", GetSeverityBadge(5).TextColor)
	assert.Equal(t, "#d97706", GetSeverityBadge(3).TextColor)
	assert.Equal(t, "#16a34a", GetSeverityBadge(1).TextColor)
}

func TestImageURL(t *testing.T) {
	assert.Equal(t, "", ImageURL(""))
	assert.Equal(t, "/images/123_Main_St_Pipe%20Burst.jpg", ImageURL("flood_images/123_Main_St_Pipe Burst.jpg"))
}

func TestWriteHTMLResponseWithStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteHTMLResponseWithStatus(rec, http.StatusBadRequest, "<p>bad</p>")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<p>bad</p>", rec.Body.String())
}
