package solix

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// ServerPublicKey is the cloud's P-256 key used to derive the password key.
const ServerPublicKey = "04c5c00c4f8d1197cc7c3167c52bf7acb054d722f0ef08dcd7e0883236e0d72a3868d9750cb47fa4619248f3d83f0f662671dadc6e2d31c2f41db0161651c7c076"

// encryptPassword derives a shared secret with the server key and encrypts
// the password with AES-256-CBC, IV being the first 16 bytes of the secret.
// It returns the client public key (hex) and the base64 cipher text.
func encryptPassword(serverKeyHex, password string) (string, string, error) {
	curve := ecdh.P256()
	raw, err := hex.DecodeString(serverKeyHex)
	if err != nil {
		return "", "", fmt.Errorf("decode server key: %w", err)
	}

	serverKey, err := curve.NewPublicKey(raw)
	if err != nil {
		return "", "", fmt.Errorf("parse server key: %w", err)
	}

	privateKey, err := curve.GenerateKey(rand.Reader)
	if err != nil {
		return "", "", err
	}

	secret, err := privateKey.ECDH(serverKey)
	if err != nil {
		return "", "", err
	}

	block, err := aes.NewCipher(secret)
	if err != nil {
		return "", "", err
	}

	padded := pkcs7Pad([]byte(password), aes.BlockSize)
	encrypted := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, secret[:aes.BlockSize]).CryptBlocks(encrypted, padded)

	return hex.EncodeToString(privateKey.PublicKey().Bytes()), base64.StdEncoding.EncodeToString(encrypted), nil
}

func pkcs7Pad(data []byte, size int) []byte {
	n := size - len(data)%size
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}
