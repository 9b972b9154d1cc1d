package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/auth"
	"github.com/ddhealthcare/hrms-backend-go/internal/domain/employee"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		err      error
		status   int
		wantCode string
	}{
		{validator.ValidationErrors{{Field: "email", Message: "email is required"}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{auth.ErrAccountInactive, http.StatusUnauthorized, "UNAUTHORIZED"},
		{auth.ErrOTPExpired, http.StatusBadRequest, "BAD_REQUEST"},
		{auth.ErrOTPAttemptsExceeded, http.StatusBadRequest, "BAD_REQUEST"},
		{auth.ErrOTPNotVerified, http.StatusBadRequest, "BAD_REQUEST"},
		{auth.ErrEmailDelivery, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{fmt.Errorf("lookup: %w", employee.ErrEmployeeNotFound), http.StatusNotFound, "NOT_FOUND"},
		{employee.ErrEmailExists, http.StatusConflict, "CONFLICT"},
		{employee.ErrUnauthorized, http.StatusForbidden, "FORBIDDEN"},
		{employee.ErrCannotDeleteSelf, http.StatusBadRequest, "BAD_REQUEST"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			resp := decode(t, rec)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestHandleError_ValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, validator.ValidationErrors{{Field: "otp", Message: "otp must be 6 digits"}})

	resp := decode(t, rec)
	assert.Equal(t, map[string]string{"otp": "otp must be 6 digits"}, resp.Error.Details)
}

func TestSuccessWithMeta_SendsZeroCounts(t *testing.T) {
	rec := httptest.NewRecorder()
	SuccessWithMeta(rec, []string{}, &Meta{Page: 1, Limit: 10})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_items":0`)
	assert.Contains(t, rec.Body.String(), `"total_pages":0`)
}
