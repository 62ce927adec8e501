// ABOUTME: Double-layer passphrase encryption for QR code payloads
// ABOUTME: Encode applies the OpenSSL-compatible cipher twice, Decode peels both layers

package qrcrypt

import (
	"log/slog"
	"unicode/utf8"
)

// DefaultSecret is used when no QR secret is configured. Anyone holding the
// source can decode payloads sealed with it.
const DefaultSecret = "default_secret"

// Secret returns configured, or DefaultSecret when configured is empty.
func Secret(configured string) string {
	if configured == "" {
		return DefaultSecret
	}
	return configured
}

// Encode encrypts plaintext twice with the same secret. The output is
// base64 text and differs on every call because each layer is salted.
func Encode(plaintext, secret string) string {
	inner, err := seal(plaintext, secret)
	if err != nil {
		slog.Error("QR payload encryption failed", "error", err)
		return ""
	}
	outer, err := seal(inner, secret)
	if err != nil {
		slog.Error("QR payload encryption failed", "error", err)
		return ""
	}
	return outer
}

// Decode reverses Encode. It returns "" for anything it cannot decode:
// malformed base64, a wrong secret, bad padding or non UTF-8 output.
func Decode(ciphertext, secret string) string {
	inner, err := open(ciphertext, secret)
	if err != nil || !utf8.Valid(inner) {
		return ""
	}
	plaintext, err := open(string(inner), secret)
	if err != nil || !utf8.Valid(plaintext) {
		return ""
	}
	return string(plaintext)
}

// Obfuscator binds a secret for repeated Encode and Decode calls.
type Obfuscator struct {
	secret string
}

// New returns an Obfuscator for secret, falling back to DefaultSecret.
func New(secret string) Obfuscator {
	return Obfuscator{secret: Secret(secret)}
}

// Encode encrypts plaintext with the bound secret.
func (o Obfuscator) Encode(plaintext string) string {
	return Encode(plaintext, o.secret)
}

// Decode decrypts ciphertext with the bound secret, or returns "".
func (o Obfuscator) Decode(ciphertext string) string {
	return Decode(ciphertext, o.secret)
}

// UsesDefaultSecret reports whether no secret was configured.
func (o Obfuscator) UsesDefaultSecret() bool {
	return o.secret == DefaultSecret
}
