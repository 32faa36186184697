// Package paypaltest provides an in-process stand-in for the PayPal REST API.
package paypaltest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

const (
	ClientID    = "test-client-id"
	Secret      = "test-secret"
	AccessToken = "A21AA-test-access-token"
	ClientToken = "eyJ-test-client-token"
	OrderID     = "5O190127TN364715T"
)

// Call is one request received by the fake.
type Call struct {
	Method        string
	Path          string
	Authorization string
	TraceParent   string
	Body          []byte
}

// Server answers token, generate-token, order and capture calls. Handler
// fields may be replaced before the first request to script failures.
type Server struct {
	*httptest.Server

	Token         http.HandlerFunc
	GenerateToken http.HandlerFunc
	CreateOrder   http.HandlerFunc
	CaptureOrder  http.HandlerFunc

	mu    sync.Mutex
	calls []Call
}

func NewServer(t testing.TB) *Server {
	s := &Server{}
	s.Token = s.defaultToken
	s.GenerateToken = s.defaultGenerateToken
	s.CreateOrder = s.defaultCreateOrder
	s.CaptureOrder = s.defaultCaptureOrder

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) { s.Token(w, r) })
	mux.HandleFunc("/v1/identity/generate-token", func(w http.ResponseWriter, r *http.Request) { s.GenerateToken(w, r) })
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) { s.CreateOrder(w, r) })
	mux.HandleFunc("/v2/checkout/orders/", func(w http.ResponseWriter, r *http.Request) { s.CaptureOrder(w, r) })

	s.Server = httptest.NewServer(s.record(mux))
	t.Cleanup(s.Close)
	return s
}

// Calls returns every request received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsTo returns the requests received for path.
func (s *Server) CallsTo(path string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.calls = append(s.calls, Call{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			TraceParent:   r.Header.Get("traceparent"),
			Body:          body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

// WriteJSON writes body with status and a JSON content type.
func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) defaultToken(w http.ResponseWriter, r *http.Request) {
	id, secret, ok := r.BasicAuth()
	if !ok || id != ClientID || secret != Secret {
		WriteJSON(w, http.StatusUnauthorized, map[string]string{
			"error":             "invalid_client",
			"error_description": "Client Authentication failed",
		})
		return
	}
	if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
		WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported_grant_type"})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": AccessToken,
		"token_type":   "Bearer",
		"expires_in":   32400,
	})
}

func (s *Server) authorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Authorization") != "Bearer "+AccessToken {
		WriteJSON(w, http.StatusUnauthorized, map[string]string{"name": "AUTHENTICATION_FAILURE"})
		return false
	}
	return true
}

func (s *Server) defaultGenerateToken(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"client_token": ClientToken,
		"expires_in":   3600,
	})
}

func (s *Server) defaultCreateOrder(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"id":     OrderID,
		"status": "CREATED",
	})
}

func (s *Server) defaultCaptureOrder(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}
	id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v2/checkout/orders/"), "/capture")
	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"id":     id,
		"status": "COMPLETED",
	})
}
