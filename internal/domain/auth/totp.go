package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"strings"
	"time"
)

// TOTP per RFC 6238: 30-second step, 6 digits, HMAC-SHA1. This is what
// standard authenticator apps produce.
const (
	totpStep   = 30 * time.Second
	totpDigits = 1000000
)

// GenerateTOTPSecret generates a new base32-encoded shared secret.
func GenerateTOTPSecret() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating totp secret: %w", err)
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf), nil
}

// VerifyTOTP checks a 6-digit code against the shared secret, accepting the
// current time step and one step either side to tolerate clock drift.
func VerifyTOTP(base32Secret, code string, now time.Time) bool {
	if len(code) != 6 {
		return false
	}
	for _, offset := range []time.Duration{0, -totpStep, totpStep} {
		expected := totpCode(base32Secret, now.Add(offset))
		if subtle.ConstantTimeCompare([]byte(expected), []byte(code)) == 1 {
			return true
		}
	}
	return false
}

func totpCode(base32Secret string, t time.Time) string {
	secret, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(strings.ToUpper(base32Secret))
	if err != nil {
		return ""
	}

	counter := uint64(t.Unix() / int64(totpStep.Seconds()))
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], counter)

	mac := hmac.New(sha1.New, secret)
	mac.Write(buf[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0F
	bin := (uint32(sum[offset])&0x7F)<<24 |
		(uint32(sum[offset+1])&0xFF)<<16 |
		(uint32(sum[offset+2])&0xFF)<<8 |
		(uint32(sum[offset+3]) & 0xFF)

	return fmt.Sprintf("%06d", bin%totpDigits)
}
