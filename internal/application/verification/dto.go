package verification

import "github.com/PLAYZONE-UA/zlota-raczka/internal/domain/booking"

// SendCodeResult is returned after a code was issued
type SendCodeResult struct {
	Message   string
	Stage     booking.FormStage
	ExpiresIn int // seconds
	DevMode   bool
}

// VerifyCodeResult is returned after a code was accepted
type VerifyCodeResult struct {
	Message  string
	Stage    booking.FormStage
	Verified bool
}

// StatusResult reports whether a phone number may place an order
type StatusResult struct {
	Phone    string
	Verified bool
}
