package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_BurstPerIP(t *testing.T) {
	l := NewRateLimiter(1, 2, time.Minute)

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))

	assert.True(t, l.Allow("10.0.0.2"))
}

func TestLimit_RejectsWithTooManyRequests(t *testing.T) {
	calls := 0
	h := Limit(NewRateLimiter(1, 1, time.Minute), func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		calls++
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/reports", nil)
	req.RemoteAddr = "192.0.2.10:5000"

	rec := httptest.NewRecorder()
	h(rec, req, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h(rec, req, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, 1, calls)
}

func TestLimit_NilLimiterPassesThrough(t *testing.T) {
	calls := 0
	h := Limit(nil, func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		calls++
	})

	for i := 0; i < 5; i++ {
		h(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/reports", nil), nil)
	}
	assert.Equal(t, 5, calls)
}
