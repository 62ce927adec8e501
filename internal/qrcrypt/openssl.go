// ABOUTME: OpenSSL "Salted__" passphrase encryption compatible with CryptoJS.AES
// ABOUTME: One layer of AES-256-CBC keyed with EVP_BytesToKey MD5, via go-openssl

package qrcrypt

import (
	"fmt"

	openssl "github.com/Luzifer/go-openssl/v4"
)

// CryptoJS.AES derives its key and IV with a single MD5 round
var kdf = openssl.BytesToKeyMD5

// seal encrypts plaintext under passphrase with a fresh random salt.
// Output format: base64("Salted__" + 8-byte salt + AES-256-CBC ciphertext)
func seal(plaintext, passphrase string) (string, error) {
	out, err := openssl.New().EncryptBytes(passphrase, []byte(plaintext), kdf)
	if err != nil {
		return "", fmt.Errorf("encrypt: %w", err)
	}
	return string(out), nil
}

// open reverses seal. Truncated or foreign input is an error, never a panic.
func open(encoded, passphrase string) (plaintext []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			plaintext, err = nil, fmt.Errorf("decrypt: %v", r)
		}
	}()

	plaintext, err = openssl.New().DecryptBytes(passphrase, []byte(encoded), kdf)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return plaintext, nil
}
