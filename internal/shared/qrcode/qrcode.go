// Package qrcode renders access tokens as QR images for gate scanners.
package qrcode

import (
	"encoding/base64"
	"fmt"

	goqr "github.com/skip2/go-qrcode"
)

// Size is the edge length in pixels of rendered codes.
const Size = 256

// PNG encodes content as a QR code with medium error correction.
func PNG(content string) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("qr content is empty")
	}
	png, err := goqr.Encode(content, goqr.Medium, Size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}

// Base64PNG is PNG in standard base64, ready for JSON.
func Base64PNG(content string) (string, error) {
	png, err := PNG(content)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
