package utils

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// totpOpts pins the code parameters so that generation and verification
// agree regardless of library defaults: 6 digits, 30 second step, and one
// adjacent window of clock-drift tolerance.
var totpOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// GenerateTwoFactorSecret creates a fresh base32 secret for a user.
func GenerateTwoFactorSecret(accountName string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "invoicer",
		AccountName: accountName,
		SecretSize:  32,
	})
	if err != nil {
		return "", err
	}
	return key.Secret(), nil
}

// GenerateTwoFactorCode derives the code for the current time window.
func GenerateTwoFactorCode(secret string) (string, error) {
	return totp.GenerateCodeCustom(secret, time.Now(), totpOpts)
}

// VerifyTwoFactorCode accepts codes from the current and one adjacent
// time window and rejects everything else.
func VerifyTwoFactorCode(secret, code string) bool {
	ok, err := totp.ValidateCustom(code, secret, time.Now(), totpOpts)
	return err == nil && ok
}
