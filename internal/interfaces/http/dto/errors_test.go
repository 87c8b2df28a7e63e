package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeTokenRevoked, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusBadRequest},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeTooManyRequests, http.StatusTooManyRequests},
		{ErrCodeUnavailable, http.StatusServiceUnavailable},
		{"NOT_VERIFIED", http.StatusBadRequest},
		{"DATE_UNAVAILABLE", http.StatusBadRequest},
		{"PAST_DATE", http.StatusBadRequest},
		{"ORDER_LIMIT", http.StatusBadRequest},
		{"SMS_SEND_FAILED", http.StatusBadGateway},
		// prefix rules
		{"INVALID_PHONE", http.StatusBadRequest},
		{"INVALID_FILE_TYPE", http.StatusBadRequest},
		{"TOO_MANY_PHOTOS", http.StatusBadRequest},
		{"TOO_MANY_ATTEMPTS", http.StatusTooManyRequests},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists},
		{"UNAUTHORIZED", ErrCodeUnauthorized},
		{"TOO_MANY_REQUESTS", ErrCodeTooManyRequests},
		{"TOKEN_EXPIRED", ErrCodeTokenExpired},
		// domain specific codes pass through
		{"INVALID_PHONE", "INVALID_PHONE"},
		{"ORDER_LIMIT", "ORDER_LIMIT"},
		{ErrCodeNotFound, ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse(shared.NewPaginated([]int{1, 2}, 41, 2, 20))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, Meta{Total: 41, Page: 2, PageSize: 20, TotalPages: 3}, *resp.Meta)

	raw, err := json.Marshal(NewPageResponse(shared.NewPaginated[int](nil, 0, 1, 20)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":[],"meta":{"total":0,"page":1,"page_size":20,"total_pages":0}}`, string(raw))
}

func TestNewValidationErrorResponse_JSON(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "phone", Message: "Invalid phone number format"},
	})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": false,
		"error": {
			"code": "ERR_VALIDATION",
			"message": "Request validation failed",
			"request_id": "req-1",
			"details": [{"field": "phone", "message": "Invalid phone number format"}]
		}
	}`, string(raw))
}

func TestNewErrorResponse_OmitsEmptyFields(t *testing.T) {
	raw, err := json.Marshal(NewErrorResponse(ErrCodeNotFound, "Order not found"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":{"code":"ERR_NOT_FOUND","message":"Order not found"}}`, string(raw))
}
