package storage

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const fileKeyInfo = "storefront-storage-v1"

// File is a Storage persisted as a single JSON document.
// When a key is configured the document is sealed with XChaCha20-Poly1305.
type File struct {
	mu   sync.Mutex
	path string
	aead cipher.AEAD
	data map[string]string
}

// NewFile opens or creates the store at path. An empty secret leaves the file in plain JSON.
func NewFile(path, secret string) (*File, error) {
	f := &File{path: path, data: make(map[string]string)}

	if secret != "" {
		key := make([]byte, chacha20poly1305.KeySize)
		if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(fileKeyInfo)), key); err != nil {
			return nil, fmt.Errorf("failed to derive storage key: %w", err)
		}
		aead, err := chacha20poly1305.NewX(key)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage cipher: %w", err)
		}
		f.aead = aead
	}

	if err := f.load(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) load() error {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read storage file: %w", err)
	}
	if len(raw) == 0 {
		return nil
	}

	if f.aead != nil {
		ns := f.aead.NonceSize()
		if len(raw) < ns {
			return errors.New("storage file is truncated")
		}
		raw, err = f.aead.Open(nil, raw[:ns], raw[ns:], nil)
		if err != nil {
			return fmt.Errorf("failed to open sealed storage file: %w", err)
		}
	}

	if err := json.Unmarshal(raw, &f.data); err != nil {
		return fmt.Errorf("failed to decode storage file: %w", err)
	}
	// a literal null decodes to a nil map
	if f.data == nil {
		f.data = make(map[string]string)
	}
	return nil
}

// flush writes the document through a temp file and rename. Caller holds mu.
func (f *File) flush() error {
	raw, err := json.Marshal(f.data)
	if err != nil {
		return fmt.Errorf("failed to encode storage file: %w", err)
	}

	if f.aead != nil {
		nonce := make([]byte, f.aead.NonceSize(), f.aead.NonceSize()+len(raw)+f.aead.Overhead())
		if _, err := rand.Read(nonce); err != nil {
			return fmt.Errorf("failed to generate nonce: %w", err)
		}
		raw = f.aead.Seal(nonce, nonce, raw, nil)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".storage-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, had := f.data[key]
	f.data[key] = value
	if err := f.flush(); err != nil {
		if had {
			f.data[key] = prev
		} else {
			delete(f.data, key)
		}
		return err
	}
	return nil
}

func (f *File) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	removed := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := f.data[k]; ok {
			removed[k] = v
			delete(f.data, k)
		}
	}
	if len(removed) == 0 {
		return nil
	}
	if err := f.flush(); err != nil {
		for k, v := range removed {
			f.data[k] = v
		}
		return err
	}
	return nil
}
