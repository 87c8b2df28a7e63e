package handler

import "github.com/PLAYZONE-UA/zlota-raczka/internal/domain/booking"

// SendCodeRequest asks for a verification code
// @Description Phone number to verify
type SendCodeRequest struct {
	Phone string `json:"phone" binding:"required,phone" example:"+48123456789"`
}

// VerifyCodeRequest submits the code received by SMS
// @Description Phone number and the received code
type VerifyCodeRequest struct {
	Phone string `json:"phone" binding:"required,phone" example:"+48123456789"`
	Code  string `json:"code" binding:"required,numeric,min=4,max=10" example:"123456"`
}

// SendCodeResponse tells the form to show the code input
// @Description Outcome of sending a verification code
type SendCodeResponse struct {
	Message   string            `json:"message" example:"Verification code sent"`
	Stage     booking.FormStage `json:"stage" example:"verification"`
	ExpiresIn int               `json:"expires_in" example:"600"`
}

// VerifyCodeResponse tells the form the phone is verified
// @Description Outcome of a code check
type VerifyCodeResponse struct {
	Message  string            `json:"message" example:"Phone number verified"`
	Stage    booking.FormStage `json:"stage" example:"form"`
	Verified bool              `json:"verified" example:"true"`
}

// VerificationStatusResponse reports whether a phone may place an order
// @Description Verification status of a phone number
type VerificationStatusResponse struct {
	Phone    string `json:"phone" example:"+48123456789"`
	Verified bool   `json:"verified" example:"false"`
}
