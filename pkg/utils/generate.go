package utils

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return uuid.New().String()
}

// GenerateOTP returns length uniformly random decimal digits. Leading zeros are kept.
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		length = 6
	}

	var otp strings.Builder
	otp.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		otp.WriteByte(byte('0' + n.Int64()))
	}

	return otp.String(), nil
}
