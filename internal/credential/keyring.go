package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/99designs/keyring"

	"github.com/nhle/tasko/internal/model"
)

const serviceName = "tasko"

// ErrNoSession is returned when no session is stored for a site.
var ErrNoSession = errors.New("no stored session")

// open is swapped in tests for an in-memory keyring.
var open = openKeyring

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  filepath.Join(model.DefaultConfigDir(), "credentials"),
		FilePasswordFunc:         keyring.FixedStringPrompt("tasko-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// storedCookie is the persisted subset of an http.Cookie.
type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Path  string `json:"path,omitempty"`
}

func sessionKey(baseURL string) string {
	return "session:" + baseURL
}

// SaveSession stores the session cookies for baseURL in the system keyring.
func SaveSession(baseURL string, cookies []*http.Cookie) error {
	stored := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		if c.Value == "" {
			continue
		}
		stored = append(stored, storedCookie{Name: c.Name, Value: c.Value, Path: c.Path})
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return set(sessionKey(baseURL), data)
}

// LoadSession returns the cookies stored for baseURL, or ErrNoSession.
func LoadSession(baseURL string) ([]*http.Cookie, error) {
	data, err := get(sessionKey(baseURL))
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	if len(stored) == 0 {
		return nil, ErrNoSession
	}

	cookies := make([]*http.Cookie, 0, len(stored))
	for _, s := range stored {
		path := s.Path
		if path == "" {
			path = "/"
		}
		cookies = append(cookies, &http.Cookie{Name: s.Name, Value: s.Value, Path: path})
	}
	return cookies, nil
}

// ClearSession removes the session stored for baseURL. A missing session
// is not an error.
func ClearSession(baseURL string) error {
	err := remove(sessionKey(baseURL))
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	return err
}

// get retrieves a credential value by key from the system keyring.
func get(key string) ([]byte, error) {
	ring, err := open()
	if err != nil {
		return nil, err
	}

	item, err := ring.Get(key)
	if err != nil {
		return nil, fmt.Errorf("getting credential %q: %w", key, err)
	}

	return item.Data, nil
}

// set stores a credential value by key in the system keyring.
func set(key string, value []byte) error {
	ring, err := open()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:   key,
		Data:  value,
		Label: "Tasko session",
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// remove deletes a credential by key from the system keyring.
func remove(key string) error {
	ring, err := open()
	if err != nil {
		return err
	}

	err = ring.Remove(key)
	if err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}
