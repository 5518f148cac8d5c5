package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the hashing cost for role passcodes
const BcryptCost = 12

// HashPasscode hashes a role passcode for storage in config
func HashPasscode(passcode string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(passcode), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPasscode compares a plain passcode with its hash
func CheckPasscode(hashed, passcode string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(passcode)) == nil
}
