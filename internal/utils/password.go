package utils

import "golang.org/x/crypto/bcrypt"

// adminPasswordCost is the bcrypt work factor for admin credentials. Logins
// are low-volume, so a factor above the library default is affordable.
const adminPasswordCost = 12

// HashPassword derives a bcrypt hash for storage in admins.password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), adminPasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether password matches the stored hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
