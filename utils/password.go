package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/pbkdf2"
)

// Format hash: base64( versionByte(0x00) + salt(16) + subkey(32) ),
// PBKDF2-HMAC-SHA256 dengan 100000 iterasi.
const (
	pbkdf2Iterations = 100000
	saltLength       = 16
	keyLength        = 32
)

// HashPassword menghasilkan salted hash dari password plaintext
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	subkey := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, keyLength, sha256.New)

	out := make([]byte, 1+saltLength+keyLength)
	out[0] = 0x00
	copy(out[1:], salt)
	copy(out[1+saltLength:], subkey)

	return base64.StdEncoding.EncodeToString(out), nil
}

// VerifyPassword membandingkan password dengan hash tersimpan secara
// constant time. Hash dengan format tak dikenal dianggap tidak cocok.
func VerifyPassword(hashed, password string) bool {
	raw, err := base64.StdEncoding.DecodeString(hashed)
	if err != nil || len(raw) != 1+saltLength+keyLength || raw[0] != 0x00 {
		return false
	}

	salt := raw[1 : 1+saltLength]
	stored := raw[1+saltLength:]

	derived := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, keyLength, sha256.New)
	return subtle.ConstantTimeCompare(stored, derived) == 1
}

// ErrWeakPassword dipakai controller saat validasi input user baru
var ErrWeakPassword = errors.New("password must be at least 6 characters")

// ValidatePassword aturan minimal panjang password
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return ErrWeakPassword
	}
	return nil
}
