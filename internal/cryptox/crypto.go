// Package cryptox wraps the password hashing used for server-side accounts.
package cryptox

import (
	"fmt"

	"github.com/dmitrijs2005/sumdays/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// PlaceholderSecretSize is the number of random bytes behind the password of
// an automatically provisioned account. Nobody knows it, so such an account
// can only be reached with a token.
const PlaceholderSecretSize = 32

func HashPassword(password []byte) (string, error) {
	h, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func CheckPassword(hash string, password []byte) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), password) == nil
}

// PlaceholderPasswordHash hashes fresh random bytes and wipes them afterwards.
func PlaceholderPasswordHash() (string, error) {
	secret := common.GenerateRandByteArray(PlaceholderSecretSize)
	defer common.WipeByteArray(secret)
	return HashPassword(secret)
}
