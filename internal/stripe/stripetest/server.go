// Package stripetest provides an in-process stand-in for the Stripe payment
// intent endpoints.
package stripetest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
)

const (
	SecretKey = "sk_test_relay"
	IntentID  = "pi_3MtwBwLkdIwHu7ix28a3tqPa"
)

// ClientSecret is the secret the fake hands out for IntentID.
const ClientSecret = IntentID + "_secret_YrKJUKribcBjcG8HVhfZluoGH"

// Call is one request received by the fake.
type Call struct {
	Method string
	Path   string
	Form   url.Values
}

type Server struct {
	*httptest.Server

	// Handler replaces the default behaviour when set.
	Handler http.HandlerFunc

	mu    sync.Mutex
	calls []Call
}

func NewServer(t testing.TB) *Server {
	s := &Server{}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	s.mu.Lock()
	s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path, Form: r.Form})
	s.mu.Unlock()

	if s.Handler != nil {
		s.Handler(w, r)
		return
	}

	if r.Header.Get("Authorization") != "Bearer "+SecretKey {
		WriteError(w, http.StatusUnauthorized, "invalid_request_error", "", "Invalid API Key provided")
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/v1/payment_intents":
		amount, _ := strconv.ParseInt(r.PostForm.Get("amount"), 10, 64)
		writeJSON(w, http.StatusOK, intent(IntentID, amount, r.PostForm.Get("currency"), "requires_payment_method"))
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v1/payment_intents/"):
		id := strings.TrimPrefix(r.URL.Path, "/v1/payment_intents/")
		if id != IntentID {
			WriteError(w, http.StatusNotFound, "invalid_request_error", "resource_missing", "No such payment_intent: '"+id+"'")
			return
		}
		writeJSON(w, http.StatusOK, intent(id, 1999, "usd", "succeeded"))
	default:
		WriteError(w, http.StatusNotFound, "invalid_request_error", "", "Unrecognized request URL")
	}
}

func intent(id string, amount int64, currency, status string) map[string]interface{} {
	return map[string]interface{}{
		"id":            id,
		"object":        "payment_intent",
		"amount":        amount,
		"currency":      currency,
		"status":        status,
		"client_secret": id + "_secret_YrKJUKribcBjcG8HVhfZluoGH",
	}
}

// WriteError writes a Stripe-shaped error envelope.
func WriteError(w http.ResponseWriter, status int, errType, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"type":    errType,
			"code":    code,
			"message": message,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Request-Id", "req_test")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
