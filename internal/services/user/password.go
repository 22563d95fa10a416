package user

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the work factor used when the accounts were first
// provisioned; changing it only affects newly written hashes.
const bcryptCost = 12

// HashPassword returns a salted bcrypt hash of the plaintext.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}

	return string(hashed), nil
}

// VerifyPassword reports whether plaintext matches the stored hash. It
// returns false for every failure mode, including a malformed stored hash,
// so callers cannot distinguish them.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
