package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolveClientIP(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "fly header wins", headers: map[string]string{"Fly-Client-IP": "10.0.0.1", "X-Forwarded-For": "10.0.0.2"}, remote: "10.0.0.3:1234", want: "10.0.0.1"},
		{name: "first forwarded hop", headers: map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2"}, remote: "10.0.0.3:1234", want: "203.0.113.7"},
		{name: "remote addr fallback", remote: "192.0.2.4:5555", want: "192.0.2.4"},
		{name: "garbage ignored", headers: map[string]string{"X-Real-IP": "not-an-ip"}, remote: "bogus", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			req.RemoteAddr = tc.remote
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			if got := resolveClientIP(req); got != tc.want {
				t.Fatalf("resolveClientIP() = %q, want %q", got, tc.want)
			}
		})
	}
}
