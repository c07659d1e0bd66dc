package render

import (
	"image"

	"github.com/rook-computer/anchorlines/internal/scheme"
	"github.com/skip2/go-qrcode"
)

const defaultQRCodeSizePx = 256

// ProfileQRCode returns a QR code carrying the share string of s.
func ProfileQRCode(s scheme.Scheme, sizePx int) (image.Image, error) {
	if sizePx <= 0 {
		sizePx = defaultQRCodeSizePx
	}

	qrCode, err := qrcode.New(scheme.ShareString(s), qrcode.Medium)
	if err != nil {
		return nil, err
	}

	return qrCode.Image(sizePx), nil
}
