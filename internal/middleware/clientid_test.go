package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "remote addr", remote: "10.0.0.7:51234", want: "10.0.0.7"},
		{name: "ipv6 remote addr", remote: "[::1]:8080", want: "::1"},
		{name: "forwarded for first hop", headers: map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, remote: "10.0.0.1:1", want: "203.0.113.9"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "198.51.100.4"}, remote: "10.0.0.1:1", want: "198.51.100.4"},
		{name: "cloudflare", headers: map[string]string{"CF-Connecting-IP": "192.0.2.1"}, remote: "10.0.0.1:1", want: "192.0.2.1"},
		{name: "no port", remote: "unix", want: "unix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			var got string
			ClientIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = RequestClientIP(r)
			})).ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetClientIP_Missing(t *testing.T) {
	assert.Equal(t, "unknown", GetClientIP(context.Background()))
}
