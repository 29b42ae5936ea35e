package secgate

import (
	"encoding/base64"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Cipher reversibly encodes sensitive values before they leave the
// process. Implementations decide how strong that encoding is.
type Cipher interface {
	Encrypt(plain []byte) (string, error)
	Decrypt(encoded string) ([]byte, error)
}

// ObfuscationCipher is zstd compression wrapped in base64. It is an
// encoding, not encryption: anyone holding the output can reverse it.
// Deployments that need confidentiality must inject an AEAD-backed Cipher
// in its place.
type ObfuscationCipher struct{}

func (ObfuscationCipher) Encrypt(plain []byte) (string, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return "", fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	defer encoder.Close()

	compressed := encoder.EncodeAll(plain, make([]byte, 0, len(plain)))
	return base64.StdEncoding.EncodeToString(compressed), nil
}

func (ObfuscationCipher) Decrypt(encoded string) ([]byte, error) {
	compressed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer decoder.Close()

	plain, err := decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	return plain, nil
}
