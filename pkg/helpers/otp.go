package helpers

import (
	"crypto/rand"
	"fmt"
)

// GenOTPCode generates a secure random 4-digit OTP code (1000-9999).
func GenOTPCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	n := int(b[0])<<24 | int(b[1])<<16 | int(b[2])<<8 | int(b[3])
	if n < 0 {
		n = -n
	}
	return fmt.Sprintf("%d", 1000+n%9000), nil
}
