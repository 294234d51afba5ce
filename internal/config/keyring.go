package config

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const keyringService = "perruls"

// StorePassword saves a profile password in the OS keyring.
func StorePassword(profile, password string) error {
	return keyring.Set(keyringService, profile, password)
}

// LookupPassword returns the stored password for a profile, or "" when none
// was stored.
func LookupPassword(profile string) (string, error) {
	pw, err := keyring.Get(keyringService, profile)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return pw, err
}
