// Package crypto seals short secrets, such as database passwords kept in
// config files, with a symmetric key held outside the file.
package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keySize   = 32
	nonceSize = 24
)

var ErrDecrypt = errors.New("cannot decrypt value: wrong key or corrupted token")

// GenerateKey returns a new random key, base64 encoded.
func GenerateKey() (string, error) {
	var key [keySize]byte
	if _, err := io.ReadFull(rand.Reader, key[:]); err != nil {
		return "", errors.Wrap(err, "generate key")
	}
	return base64.StdEncoding.EncodeToString(key[:]), nil
}

func Encrypt(key, plain string) (string, error) {
	k, err := decodeKey(key)
	if err != nil {
		return "", err
	}

	var nonce [nonceSize]byte
	if _, err = io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", errors.Wrap(err, "encrypt")
	}
	sealed := secretbox.Seal(nonce[:], []byte(plain), &nonce, k)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

func Decrypt(key, token string) (string, error) {
	k, err := decodeKey(key)
	if err != nil {
		return "", err
	}

	sealed, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", errors.Wrap(err, "decrypt")
	}
	if len(sealed) < nonceSize+secretbox.Overhead {
		return "", ErrDecrypt
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, k)
	if !ok {
		return "", ErrDecrypt
	}
	return string(plain), nil
}

func decodeKey(key string) (*[keySize]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return nil, errors.Wrap(err, "decode key")
	}
	if len(raw) != keySize {
		return nil, errors.Errorf("key must be %d bytes, got %d", keySize, len(raw))
	}
	var k [keySize]byte
	copy(k[:], raw)
	return &k, nil
}
