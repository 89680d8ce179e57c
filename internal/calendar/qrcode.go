package calendar

import (
	"errors"

	"github.com/skip2/go-qrcode"
)

const (
	DefaultQRSize = 256
	minQRSize     = 128
	maxQRSize     = 1024
)

var ErrInvalidQRSize = errors.New("qr size must be between 128 and 1024")

// QRCode encodes the calendar subscription URL as a PNG.
func QRCode(url string, size int) ([]byte, error) {
	if size == 0 {
		size = DefaultQRSize
	}
	if size < minQRSize || size > maxQRSize {
		return nil, ErrInvalidQRSize
	}
	return qrcode.Encode(url, qrcode.Medium, size)
}
