package realtime

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

// Vote payloads travel AES-256-CBC encrypted under a per-connection key
// issued at connect time. The key and IV are base64; the IV is fresh per
// payload and supplied by the client alongside the ciphertext. This is a
// transport compatibility shim, not an authentication mechanism.

var errMalformedPayload = errors.New("malformed payload")

// GenerateKey returns a fresh random 256-bit key, base64 encoded.
func GenerateKey() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("failed to generate session key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// Decrypt decodes and decrypts a base64 ciphertext with the session key
// and the client-supplied base64 IV. All failure modes collapse into one
// generic error so nothing about the cipher state leaks.
func Decrypt(ciphertextB64, keyB64, ivB64 string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(keyB64)
	if err != nil || len(key) != 32 {
		return nil, errMalformedPayload
	}
	iv, err := base64.StdEncoding.DecodeString(ivB64)
	if err != nil || len(iv) != aes.BlockSize {
		return nil, errMalformedPayload
	}
	ciphertext, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, errMalformedPayload
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errMalformedPayload
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	return unpadPKCS7(plaintext)
}

// Encrypt encrypts plaintext under the key with a fresh random IV,
// returning base64 iv and ciphertext. Clients use the same construction;
// the server needs it for tests and tooling.
func Encrypt(plaintext []byte, keyB64 string) (ivB64, ciphertextB64 string, err error) {
	key, err := base64.StdEncoding.DecodeString(keyB64)
	if err != nil || len(key) != 32 {
		return "", "", errMalformedPayload
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", "", errMalformedPayload
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", "", fmt.Errorf("failed to generate iv: %w", err)
	}

	padded := padPKCS7(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return base64.StdEncoding.EncodeToString(iv), base64.StdEncoding.EncodeToString(ciphertext), nil
}

func padPKCS7(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padding)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padding)
	}
	return padded
}

func unpadPKCS7(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errMalformedPayload
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > aes.BlockSize || padding > len(data) {
		return nil, errMalformedPayload
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, errMalformedPayload
		}
	}
	return data[:len(data)-padding], nil
}
