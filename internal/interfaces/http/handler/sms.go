package handler

import (
	"context"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/application/verification"
	"github.com/gin-gonic/gin"
)

// PhoneVerificationService is the part of the verification service used over HTTP
type PhoneVerificationService interface {
	SendCode(ctx context.Context, phone string) (*verification.SendCodeResult, error)
	VerifyCode(ctx context.Context, phone, code string) (*verification.VerifyCodeResult, error)
	Status(ctx context.Context, phone string) (*verification.StatusResult, error)
}

// SMSHandler handles the phone verification endpoints of the booking form
type SMSHandler struct {
	BaseHandler
	service PhoneVerificationService
}

// NewSMSHandler creates a new SMS handler
func NewSMSHandler(service PhoneVerificationService) *SMSHandler {
	return &SMSHandler{service: service}
}

// SendCode godoc
// @ID           sendSmsCode
// @Summary      Send verification code
// @Description  Sends a one-time code to the phone number. Repeated requests inside the cooldown are rejected.
// @Tags         sms
// @Accept       json
// @Produce      json
// @Param        request body SendCodeRequest true "Phone number"
// @Success      200 {object} APIResponse[SendCodeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /sms/send-code [post]
func (h *SMSHandler) SendCode(c *gin.Context) {
	var req SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.service.SendCode(c.Request.Context(), req.Phone)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, SendCodeResponse{
		Message:   result.Message,
		Stage:     result.Stage,
		ExpiresIn: result.ExpiresIn,
	})
}

// VerifyCode godoc
// @ID           verifySmsCode
// @Summary      Verify code
// @Description  Checks the code received by SMS and marks the phone number as verified
// @Tags         sms
// @Accept       json
// @Produce      json
// @Param        request body VerifyCodeRequest true "Phone number and code"
// @Success      200 {object} APIResponse[VerifyCodeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /sms/verify-code [post]
func (h *SMSHandler) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.service.VerifyCode(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, VerifyCodeResponse{
		Message:  result.Message,
		Stage:    result.Stage,
		Verified: result.Verified,
	})
}

// Status godoc
// @ID           getSmsStatus
// @Summary      Verification status
// @Description  Reports whether the phone number has a usable verification
// @Tags         sms
// @Produce      json
// @Param        phone query string true "Phone number"
// @Success      200 {object} APIResponse[VerificationStatusResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /sms/status [get]
func (h *SMSHandler) Status(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		h.BadRequest(c, "phone query parameter is required")
		return
	}

	result, err := h.service.Status(c.Request.Context(), phone)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, VerificationStatusResponse{Phone: result.Phone, Verified: result.Verified})
}
