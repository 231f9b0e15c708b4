package client

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifyFailureBlocksSubmit(t *testing.T) {
	api, c := newFakeAPI(t)
	api.handle(http.MethodGet, "/api/auth/verify-reset-token", func(w http.ResponseWriter, r *http.Request) {
		writeFail(w, http.StatusBadRequest, "invalid_token", "reset link is invalid or expired")
	})
	flow := NewResetFlow(c, "stale")

	require.False(t, flow.Verify(t.Context()))
	require.False(t, flow.TokenValid)
	calls := api.count()

	require.ErrorIs(t, flow.Submit(t.Context(), "long-enough", "long-enough"), ErrInvalidLink)
	require.Equal(t, calls, api.count())
}

func TestVerifyWithoutTokenSkipsNetwork(t *testing.T) {
	api, c := newFakeAPI(t)
	require.False(t, NewResetFlow(c, "").Verify(t.Context()))
	require.Zero(t, api.count())
}

func TestSubmitValidatesLocally(t *testing.T) {
	api, c := newFakeAPI(t)
	api.handle(http.MethodGet, "/api/auth/verify-reset-token", func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, map[string]bool{"valid": true})
	})
	flow := NewResetFlow(c, "tok")
	require.True(t, flow.Verify(t.Context()))
	calls := api.count()

	var verr *ValidationError
	require.ErrorAs(t, flow.Submit(t.Context(), "long-enough", "different"), &verr)
	require.Equal(t, "confirm_password", verr.Field)

	require.ErrorAs(t, flow.Submit(t.Context(), "short", "short"), &verr)
	require.Equal(t, "new_password", verr.Field)
	require.Equal(t, calls, api.count())
}

func TestSubmitSendsTokenAndPassword(t *testing.T) {
	api, c := newFakeAPI(t)
	api.handle(http.MethodGet, "/api/auth/verify-reset-token", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "tok", r.URL.Query().Get("token"))
		writeOK(w, map[string]bool{"valid": true})
	})
	api.handle(http.MethodPost, "/api/auth/reset-password", func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, map[string]string{"status": "password_reset"})
	})
	flow := NewResetFlow(c, "tok")
	require.True(t, flow.Verify(t.Context()))

	require.NoError(t, flow.Submit(t.Context(), "new-password", "new-password"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(api.last().Body, &body))
	require.Equal(t, map[string]string{"token": "tok", "new_password": "new-password"}, body)
}

func TestRequestResetRequiresEmail(t *testing.T) {
	api, c := newFakeAPI(t)
	var verr *ValidationError
	require.ErrorAs(t, c.RequestReset(t.Context(), ""), &verr)
	require.Zero(t, api.count())
}
