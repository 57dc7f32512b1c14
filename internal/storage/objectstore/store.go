// Package objectstore is the media file collaborator: disk-backed object
// storage plus time-limited signed download URLs.
package objectstore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DownloadPath is the route the signed URLs resolve against.
const DownloadPath = "/api/files/download"

var (
	ErrInvalidKey   = errors.New("invalid object key")
	ErrInvalidToken = errors.New("invalid or expired download token")
	ErrNotFound     = errors.New("object not found")
)

type Store struct {
	root   string
	secret []byte
}

func New(root string, secret []byte) (*Store, error) {
	if len(secret) == 0 {
		return nil, errors.New("objectstore: signing secret required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("objectstore: %w", err)
	}
	return &Store{root: root, secret: secret}, nil
}

// Save stores the object under prefix with a generated name, keeping only
// the original extension, and returns the storage key.
func (s *Store) Save(prefix, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	key := filepath.ToSlash(filepath.Join(prefix, uuid.New().String()+ext))
	if !validKey(key) {
		return "", ErrInvalidKey
	}

	full := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("objectstore: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("objectstore: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("objectstore: %w", err)
	}
	return key, nil
}

func (s *Store) Open(key string) (io.ReadCloser, error) {
	if !validKey(key) {
		return nil, ErrInvalidKey
	}
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(key)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

type urlClaims struct {
	Key string `json:"key"`
	jwt.RegisteredClaims
}

// SignedURL issues a download URL valid for ttl.
func (s *Store) SignedURL(key string, ttl time.Duration) (string, error) {
	if !validKey(key) {
		return "", ErrInvalidKey
	}
	claims := urlClaims{
		Key: key,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return DownloadPath + "?token=" + signed, nil
}

// Verify checks a download token and returns the storage key it grants.
func (s *Store) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &urlClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*urlClaims)
	if !ok || !parsed.Valid || !validKey(claims.Key) {
		return "", ErrInvalidToken
	}
	return claims.Key, nil
}

// validKey rejects anything that could escape the storage root.
func validKey(key string) bool {
	if key == "" || strings.Contains(key, "\\") || strings.HasPrefix(key, "/") {
		return false
	}
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(key)))
	return clean == key && !strings.HasPrefix(clean, "..")
}
