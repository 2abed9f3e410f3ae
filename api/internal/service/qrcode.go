package service

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(bookingID int) ([]byte, error)
}

// DefaultQRGenerator encodes a link to the booking page as a PNG.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Generate(bookingID int) ([]byte, error) {
	data := fmt.Sprintf("%s/bookings/%d", g.BaseURL, bookingID)
	return qrcode.Encode(data, qrcode.Medium, 256)
}
