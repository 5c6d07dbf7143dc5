package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/buyone/internal/api/shared"
	"github.com/phrazzld/buyone/internal/domain"
	"github.com/stretchr/testify/require"
)

var (
	seller1 = domain.Caller{ID: "seller-1", Role: domain.RoleSeller, Email: "s1@x.com"}
	seller2 = domain.Caller{ID: "seller-2", Role: domain.RoleSeller, Email: "s2@x.com"}
	client1 = domain.Caller{ID: "client-1", Role: domain.RoleClient, Email: "c1@x.com"}
	admin1  = domain.Caller{ID: "admin-1", Role: domain.RoleAdmin, Email: "admin@x.com"}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// envelope decodes either response envelope; unused fields stay zero.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Status  int             `json:"status"`
	Error   string          `json:"error"`
	Path    string          `json:"path"`
}

func newRequest(t *testing.T, method, target string, body any, caller *domain.Caller) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	r := httptest.NewRequest(method, target, reader)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if caller != nil {
		r.Header.Set(shared.HeaderUserID, caller.ID)
		r.Header.Set(shared.HeaderUserRole, string(caller.Role))
		r.Header.Set(shared.HeaderUserEmail, caller.Email)
	}
	return r
}

func serve(t *testing.T, h http.Handler, r *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}
