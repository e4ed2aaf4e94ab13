// Package qr turns opaque payload strings into scannable PNG images.
package qr

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"

	"github.com/AleGonz2812/eventos-api/internal/apperrors"
)

// DefaultSize is the pixel size used for ticket QR codes.
const DefaultSize = 250

// Encode renders payload as a PNG QR code of sizePx x sizePx pixels.
// Encoding is deterministic for a given payload and size.
func Encode(payload string, sizePx int) ([]byte, error) {
	if payload == "" {
		return nil, apperrors.NewEncoding(fmt.Errorf("empty payload"))
	}
	if sizePx <= 0 {
		return nil, apperrors.NewEncoding(fmt.Errorf("invalid size %d", sizePx))
	}

	png, err := qrcode.Encode(payload, qrcode.Medium, sizePx)
	if err != nil {
		return nil, apperrors.NewEncoding(err)
	}
	return png, nil
}

// EncodeBase64 renders payload as a PNG QR code and returns it as
// standard base64 text, the form persisted on tickets.
func EncodeBase64(payload string, sizePx int) (string, error) {
	png, err := Encode(payload, sizePx)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
