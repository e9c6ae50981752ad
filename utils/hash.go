package utils

import "golang.org/x/crypto/bcrypt"

// HashCost is lowered by tests; production keeps bcrypt's default.
var HashCost = bcrypt.DefaultCost

func HashPassword(p string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(p), HashCost)
	return string(bytes), err
}

func CheckPassword(hash, pass string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pass))
	return err == nil
}
