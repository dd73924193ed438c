package helpers

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword reports whether plain matches the bcrypt hash.
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// GenOTPCode returns a uniformly random zero-padded 6-digit code.
func GenOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Redis keys

func KeyPendingRegistration(role, email string) string {
	return "register:pending:" + role + ":" + strings.ToLower(email)
}

func KeyOTPResend(role, email string) string {
	return "register:resend:" + role + ":" + strings.ToLower(email)
}

func KeySession(sessionID string) string {
	return "session:" + sessionID
}
