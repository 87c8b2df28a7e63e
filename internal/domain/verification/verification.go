package verification

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"math/big"
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
)

// Code length bounds accepted from clients
const (
	MinCodeLength     = 4
	MaxCodeLength     = 10
	DefaultCodeLength = 6
)

// PhoneVerification tracks a one-time code issued to a phone number.
// Only the SHA-256 digest of the code is kept.
type PhoneVerification struct {
	Phone      string
	CodeHash   string
	ExpiresAt  time.Time
	Verified   bool
	VerifiedAt *time.Time
	Attempts   int
	CreatedAt  time.Time
}

// NewPhoneVerification issues a verification for phone valid for ttl
func NewPhoneVerification(phone, code string, ttl time.Duration, now time.Time) *PhoneVerification {
	return &PhoneVerification{
		Phone:     phone,
		CodeHash:  HashCode(code),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// Check compares code against the stored digest.
// A mismatch counts as an attempt; a match marks the verification as used.
func (v *PhoneVerification) Check(code string, now time.Time, maxAttempts int) error {
	if v.IsExpired(now) {
		return ErrCodeExpired
	}
	if v.Verified {
		return ErrCodeAlreadyUsed
	}
	if maxAttempts > 0 && v.Attempts >= maxAttempts {
		return ErrTooManyAttempts
	}
	if subtle.ConstantTimeCompare([]byte(HashCode(code)), []byte(v.CodeHash)) != 1 {
		v.Attempts++
		return ErrInvalidCode
	}
	v.Verified = true
	verifiedAt := now
	v.VerifiedAt = &verifiedAt
	return nil
}

// IsExpired reports whether the verification window has passed
func (v *PhoneVerification) IsExpired(now time.Time) bool {
	return !now.Before(v.ExpiresAt)
}

// IsUsable reports whether the phone counts as verified at now
func (v *PhoneVerification) IsUsable(now time.Time) bool {
	return v.Verified && !v.IsExpired(now)
}

// TTL returns the remaining lifetime at now, never negative
func (v *PhoneVerification) TTL(now time.Time) time.Duration {
	d := v.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// HashCode returns the hex SHA-256 digest of a code
func HashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// ValidateCode checks the shape of a code submitted by a client
func ValidateCode(code string) error {
	if len(code) < MinCodeLength || len(code) > MaxCodeLength {
		return ErrInvalidCodeFormat
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return ErrInvalidCodeFormat
		}
	}
	return nil
}

// CodeGenerator produces numeric one-time codes
type CodeGenerator interface {
	Generate(length int) (string, error)
}

// RandomCodeGenerator draws digits from crypto/rand
type RandomCodeGenerator struct{}

// Generate returns length random decimal digits
func (RandomCodeGenerator) Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultCodeLength
	}
	buf := make([]byte, length)
	ten := big.NewInt(10)
	for i := range buf {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		buf[i] = byte('0' + n.Int64())
	}
	return string(buf), nil
}

// Domain errors specific to verification
var (
	ErrInvalidCode       = shared.NewDomainError("INVALID_CODE", "Invalid code or code has expired")
	ErrCodeExpired       = shared.NewDomainError("CODE_EXPIRED", "Code has expired. Request a new one.")
	ErrCodeAlreadyUsed   = shared.NewDomainError("CODE_ALREADY_USED", "Code has already been used")
	ErrTooManyAttempts   = shared.NewDomainError("TOO_MANY_ATTEMPTS", "Too many failed attempts. Request a new code.")
	ErrInvalidCodeFormat = shared.NewDomainError("INVALID_CODE_FORMAT", "Code must be 4 to 10 digits")
	ErrResendTooSoon     = shared.NewDomainError("TOO_MANY_REQUESTS", "Please wait before requesting another code")
)
