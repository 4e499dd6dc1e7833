package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/console"
)

// Credentials stores secrets in the system keyring, namespaced by service.
type Credentials struct {
	service string
}

// NewCredentials creates a Credentials store for the given service name.
func NewCredentials(service string) (*Credentials, error) {
	if service == "" {
		return nil, errors.New("service name cannot be empty")
	}
	return &Credentials{service: service}, nil
}

// HostKey is the keyring key of the password for user on host.
func HostKey(user, host string) string {
	return user + "@" + host
}

// ParseHostKey splits "user@host".
func ParseHostKey(key string) (user, host string, err error) {
	user, host, ok := strings.Cut(key, "@")
	if !ok || user == "" || host == "" {
		return "", "", fmt.Errorf("expected user@host, got %q", key)
	}
	return user, host, nil
}

// Set stores a value in the keyring under the given key.
func (c *Credentials) Set(key, value string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	return keyring.Set(c.service, key, value)
}

// Get retrieves a value, or "" when the key doesn't exist.
func (c *Credentials) Get(key string) string {
	if key == "" {
		return ""
	}
	value, err := keyring.Get(c.service, key)
	if err != nil {
		return ""
	}
	return value
}

// Exists checks if a key exists in the keyring.
func (c *Credentials) Exists(key string) bool {
	if key == "" {
		return false
	}
	_, err := keyring.Get(c.service, key)
	return err == nil
}

// Delete removes a value from the keyring by its key.
func (c *Credentials) Delete(key string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	return keyring.Delete(c.service, key)
}

// DeleteAll removes all values stored under the service name.
func (c *Credentials) DeleteAll() error {
	return keyring.DeleteAll(c.service)
}

// Lookup returns the stored password for user on host. It matches the
// signature of path.RemoteOptions.Credentials.
func (c *Credentials) Lookup(user, host string) (string, error) {
	value, err := keyring.Get(c.service, HostKey(user, host))
	if err != nil {
		return "", fmt.Errorf("keyring %s: %w", HostKey(user, host), err)
	}
	return value, nil
}

// SetFromInput prompts the user for input and stores the value in the keyring.
func (c *Credentials) SetFromInput(key string, options console.InputOptions) (string, error) {
	value, err := console.Input(options)
	if err != nil {
		return "", err
	}
	if err := c.Set(key, value); err != nil {
		return "", err
	}
	return value, nil
}
