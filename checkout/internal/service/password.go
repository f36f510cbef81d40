package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Ambiguous characters (I, O, l, 0, 1) are left out of the alphabet. The
// fixed suffix keeps the result valid under common symbol-and-digit password
// rules.
const (
	tempPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789"
	tempPasswordLength   = 10
	tempPasswordSuffix   = "!1"
)

func generateTempPassword() (string, error) {
	password := make([]byte, tempPasswordLength)
	alphabetSize := big.NewInt(int64(len(tempPasswordAlphabet)))
	for i := range password {
		index, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed generating temp password with error=%w", err)
		}
		password[i] = tempPasswordAlphabet[index.Int64()]
	}
	return string(password) + tempPasswordSuffix, nil
}
