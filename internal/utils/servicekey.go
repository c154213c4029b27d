package utils

import "golang.org/x/crypto/bcrypt"

// HashServiceKey returns the bcrypt hash of a service key using the given
// cost.  Used by operators to produce the SERVICE_KEY_HASH value.
func HashServiceKey(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyServiceKey safely compares a bcrypt hash with a plaintext key.
func VerifyServiceKey(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
