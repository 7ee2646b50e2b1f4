package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"

	"github.com/spf13/viper"
	"github.com/tansaku/tansaku/key"
	"github.com/zalando/go-keyring"
)

const (
	service = "tansaku"
	user    = "token-secret"
)

// ErrNoSecret is returned when neither the config nor the keyring hold a signing secret.
var ErrNoSecret = errors.New("no token secret configured, run \"tansaku auth secret\" or set auth.secret")

// SetSecret persists the signing secret to the system keyring.
func SetSecret(secret string) error {
	return keyring.Set(service, user, secret)
}

// GetSecret retrieves the signing secret from the system keyring.
func GetSecret() (string, error) {
	return keyring.Get(service, user)
}

// DeleteSecret removes the signing secret from the system keyring.
func DeleteSecret() error {
	return keyring.Delete(service, user)
}

// GenerateSecret returns a random 32 byte secret, hex encoded.
func GenerateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Secret returns the configured signing secret, falling back to the keyring.
func Secret() (string, error) {
	if secret := viper.GetString(key.AuthSecret); secret != "" {
		return secret, nil
	}

	secret, err := GetSecret()
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoSecret
	}
	if err != nil {
		return "", err
	}

	return secret, nil
}
