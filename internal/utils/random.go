package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// randomDigits 生成 n 位数字字符串，首位不为 0
func randomDigits(n int) string {
	low := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n-1)), nil)
	span := new(big.Int).Mul(low, big.NewInt(9))

	v, err := rand.Int(rand.Reader, span)
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		panic(fmt.Sprintf("random source unavailable: %v", err))
	}
	return new(big.Int).Add(v, low).String()
}

// GenerateOTP 生成 6 位数字一次性验证码
func GenerateOTP() string {
	return randomDigits(6)
}

// GenerateArtistID 生成 8 位数字账号 ID
func GenerateArtistID() string {
	return randomDigits(8)
}
