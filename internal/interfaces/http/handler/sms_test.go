package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/application/verification"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/booking"
	domain "github.com/PLAYZONE-UA/zlota-raczka/internal/domain/verification"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockVerificationService struct {
	mock.Mock
}

func (m *MockVerificationService) SendCode(ctx context.Context, phone string) (*verification.SendCodeResult, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*verification.SendCodeResult), args.Error(1)
}

func (m *MockVerificationService) VerifyCode(ctx context.Context, phone, code string) (*verification.VerifyCodeResult, error) {
	args := m.Called(ctx, phone, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*verification.VerifyCodeResult), args.Error(1)
}

func (m *MockVerificationService) Status(ctx context.Context, phone string) (*verification.StatusResult, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*verification.StatusResult), args.Error(1)
}

func setupSMSHandler() (*gin.Engine, *MockVerificationService) {
	svc := new(MockVerificationService)
	h := NewSMSHandler(svc)
	r := newTestRouter()
	r.POST("/api/sms/send-code", h.SendCode)
	r.POST("/api/sms/verify-code", h.VerifyCode)
	r.GET("/api/sms/status", h.Status)
	return r, svc
}

func TestSMSHandler_SendCode(t *testing.T) {
	r, svc := setupSMSHandler()
	svc.On("SendCode", mock.Anything, "+48123456789").Return(&verification.SendCodeResult{
		Message:   "Verification code sent",
		Stage:     booking.FormStageVerification,
		ExpiresIn: 600,
	}, nil)

	w := doJSON(r, http.MethodPost, "/api/sms/send-code", SendCodeRequest{Phone: "+48123456789"})

	assert.Equal(t, http.StatusOK, w.Code)
	var data SendCodeResponse
	decodeData(t, w, &data)
	assert.Equal(t, SendCodeResponse{Message: "Verification code sent", Stage: "verification", ExpiresIn: 600}, data)
	svc.AssertExpectations(t)
}

func TestSMSHandler_SendCode_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   any
		err    error
		status int
		code   string
	}{
		{"invalid phone", `{"phone":"12"}`, nil, http.StatusBadRequest, dto.ErrCodeValidation},
		{"cooldown", SendCodeRequest{Phone: "+48123456789"}, domain.ErrResendTooSoon, http.StatusTooManyRequests, dto.ErrCodeTooManyRequests},
		{"gateway down", SendCodeRequest{Phone: "+48123456789"}, verification.ErrSMSFailed, http.StatusBadGateway, "SMS_SEND_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, svc := setupSMSHandler()
			if tt.err != nil {
				svc.On("SendCode", mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			w := doJSON(r, http.MethodPost, "/api/sms/send-code", tt.body)
			assertError(t, w, tt.status, tt.code)
			svc.AssertExpectations(t)
		})
	}
}

func TestSMSHandler_VerifyCode(t *testing.T) {
	r, svc := setupSMSHandler()
	svc.On("VerifyCode", mock.Anything, "+48123456789", "123456").Return(&verification.VerifyCodeResult{
		Message:  "Phone number verified",
		Stage:    booking.FormStageForm,
		Verified: true,
	}, nil)
	svc.On("VerifyCode", mock.Anything, "+48123456789", "000000").Return(nil, domain.ErrInvalidCode)

	w := doJSON(r, http.MethodPost, "/api/sms/verify-code", VerifyCodeRequest{Phone: "+48123456789", Code: "123456"})
	var data VerifyCodeResponse
	decodeData(t, w, &data)
	assert.True(t, data.Verified)
	assert.Equal(t, booking.FormStageForm, data.Stage)

	w = doJSON(r, http.MethodPost, "/api/sms/verify-code", VerifyCodeRequest{Phone: "+48123456789", Code: "000000"})
	resp := assertError(t, w, http.StatusBadRequest, "INVALID_CODE")
	assert.Equal(t, "Invalid code or code has expired", resp.Error.Message)

	w = doJSON(r, http.MethodPost, "/api/sms/verify-code", `{"phone":"+48123456789","code":"12ab"}`)
	assertError(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
}

func TestSMSHandler_Status(t *testing.T) {
	r, svc := setupSMSHandler()
	svc.On("Status", mock.Anything, "+48123456789").Return(&verification.StatusResult{Phone: "+48123456789", Verified: true}, nil)

	w := doJSON(r, http.MethodGet, "/api/sms/status?phone=%2B48123456789", nil)
	var data VerificationStatusResponse
	decodeData(t, w, &data)
	assert.Equal(t, VerificationStatusResponse{Phone: "+48123456789", Verified: true}, data)

	w = doJSON(r, http.MethodGet, "/api/sms/status", nil)
	assertError(t, w, http.StatusBadRequest, dto.ErrCodeBadRequest)
}
