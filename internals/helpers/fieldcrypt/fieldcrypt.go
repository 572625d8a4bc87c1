// Package fieldcrypt mengenkripsi kolom identitas kandidat (nama, email, no HP).
//
// Nilai disimpan sebagai ciphertext XChaCha20-Poly1305 (base64). Kolom yang perlu dicari
// (email, no HP) punya kolom pendamping berisi blind index HMAC-SHA256 sehingga hanya
// pencarian exact-match yang mungkin. Nama tidak punya index dan tidak bisa dicari.
package fieldcrypt

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"database/sql/driver"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	ErrNotConfigured = errors.New("fieldcrypt: key belum dikonfigurasi")
	ErrMalformed     = errors.New("fieldcrypt: ciphertext rusak")
)

type keyring struct {
	encKey   []byte
	indexKey []byte
}

var (
	mu   sync.RWMutex
	ring *keyring
)

// Configure memasang key global. encHex harus 32 byte (64 hex), indexHex minimal 32 byte.
func Configure(encHex, indexHex string) error {
	enc, err := hex.DecodeString(strings.TrimSpace(encHex))
	if err != nil || len(enc) != chacha20poly1305.KeySize {
		return fmt.Errorf("FIELD_ENCRYPTION_KEY harus %d byte hex", chacha20poly1305.KeySize)
	}
	idx, err := hex.DecodeString(strings.TrimSpace(indexHex))
	if err != nil || len(idx) < 32 {
		return errors.New("FIELD_INDEX_KEY minimal 32 byte hex")
	}
	mu.Lock()
	ring = &keyring{encKey: enc, indexKey: idx}
	mu.Unlock()
	return nil
}

func current() (*keyring, error) {
	mu.RLock()
	defer mu.RUnlock()
	if ring == nil {
		return nil, ErrNotConfigured
	}
	return ring, nil
}

// Encrypt menghasilkan base64(nonce || ciphertext).
func Encrypt(plain string) (string, error) {
	k, err := current()
	if err != nil {
		return "", err
	}
	aead, err := chacha20poly1305.NewX(k.encKey)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plain)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func Decrypt(encoded string) (string, error) {
	k, err := current()
	if err != nil {
		return "", err
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrMalformed
	}
	aead, err := chacha20poly1305.NewX(k.encKey)
	if err != nil {
		return "", err
	}
	if len(raw) < aead.NonceSize()+aead.Overhead() {
		return "", ErrMalformed
	}
	nonce, ct := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", ErrMalformed
	}
	return string(plain), nil
}

// BlindIndex menghasilkan hex HMAC-SHA256 dari nilai yang sudah dinormalisasi.
// Kosong → kosong (kolom disimpan NULL oleh pemanggil).
func BlindIndex(normalized string) (string, error) {
	if normalized == "" {
		return "", nil
	}
	k, err := current()
	if err != nil {
		return "", err
	}
	m := hmac.New(sha256.New, k.indexKey)
	_, _ = m.Write([]byte(normalized))
	return hex.EncodeToString(m.Sum(nil)), nil
}

/* =========================================================
   Sealed: string terenkripsi transparan untuk GORM
========================================================= */

// Sealed disimpan terenkripsi di DB dan plaintext di memori.
type Sealed string

func (s Sealed) String() string { return string(s) }

func (s Sealed) Value() (driver.Value, error) {
	if s == "" {
		return nil, nil
	}
	return Encrypt(string(s))
}

func (s *Sealed) Scan(src any) error {
	var enc string
	switch v := src.(type) {
	case nil:
		*s = ""
		return nil
	case string:
		enc = v
	case []byte:
		enc = string(v)
	default:
		return fmt.Errorf("fieldcrypt: tipe %T tidak didukung", src)
	}
	if enc == "" {
		*s = ""
		return nil
	}
	plain, err := Decrypt(enc)
	if err != nil {
		return err
	}
	*s = Sealed(plain)
	return nil
}

// GormDataType agar AutoMigrate membuat kolom text.
func (Sealed) GormDataType() string { return "text" }
