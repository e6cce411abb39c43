package profiling

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfilerRoutes(t *testing.T) {
	s := NewServer("0", nil)

	tests := []struct {
		path string
		want int
	}{
		{"/debug/pprof/", http.StatusOK},
		{"/debug/vars", http.StatusOK},
		{"/debug/pprof/cmdline", http.StatusOK},
		{"/metrics", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestShutdownBeforeStart(t *testing.T) {
	assert.NoError(t, NewServer("0", nil).Shutdown(context.Background()))
}
