package shared

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"display_name" validate:"required,max=5"`
	Role  string `json:"role" validate:"omitempty,oneof=secretary employee"`
}

func TestValidatorStructUsesJSONNames(t *testing.T) {
	v := NewValidator()
	v.Struct(sample{Email: "nope", Name: "too long", Role: "admin"})

	require.Equal(t, []ValidationIssue{
		{Field: "display_name", Reason: "must be at most 5 characters"},
		{Field: "email", Reason: "must be a valid email"},
		{Field: "role", Reason: "must be one of: secretary employee"},
	}, v.Issues())
}

func TestValidatorRejectWritesEnvelope(t *testing.T) {
	v := NewValidator()
	v.Required("token", "  ", "is required")

	rec := httptest.NewRecorder()
	require.True(t, v.Reject(rec, "req-9"))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Fields []ValidationIssue `json:"fields"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "validation_error", body.Error.Code)
	require.Equal(t, []ValidationIssue{{Field: "token", Reason: "is required"}}, body.Error.Details.Fields)
}

func TestValidatorWithoutIssues(t *testing.T) {
	v := NewValidator()
	v.Struct(sample{Email: "a@example.com", Name: "Ann"})
	require.False(t, v.HasIssues())
	require.Nil(t, v.Issues())
	require.False(t, v.Reject(httptest.NewRecorder(), ""))
}

func TestParsePagination(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=900&offset=-3", nil)
	page := ParsePagination(req, 50, 200)
	require.Equal(t, Pagination{Limit: 200, Offset: 0}, page)

	req = httptest.NewRequest(http.MethodGet, "/?limit=abc&offset=20", nil)
	page = ParsePagination(req, 50, 200)
	require.Equal(t, Pagination{Limit: 50, Offset: 20}, page)
}
