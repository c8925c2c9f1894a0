package util

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for admin password hashes. Raising it
// slows every brute-force guess; existing hashes keep their cost.
const BcryptCost = 12

// HashPassword hashes a plaintext password with bcrypt. Used at
// provisioning time only; the server never hashes during login.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether password matches the bcrypt hash.
// bcrypt compares the full digest, so timing does not depend on which
// character of the password is wrong.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// IsBcryptHash reports whether s looks like a bcrypt hash. Used to
// reject misconfigured seeds before they reach the store.
func IsBcryptHash(s string) bool {
	return len(s) > 4 && (s[:4] == "$2a$" || s[:4] == "$2b$" || s[:4] == "$2y$")
}
