package label

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	gozxingqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/skip2/go-qrcode"
)

var ErrNoQRCode = errors.New("no qr code found in image")

// QRCodePNG renders payload as a size×size PNG.
func QRCodePNG(payload string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(payload, qrcode.Medium, size)
}

// DecodeQRCode reads the first QR code in a PNG or JPEG image.
func DecodeQRCode(img []byte) (string, error) {
	decoded, _, err := image.Decode(bytes.NewReader(img))

	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(decoded)

	if err != nil {
		return "", fmt.Errorf("binarize image: %w", err)
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}

	result, err := gozxingqr.NewQRCodeReader().Decode(bmp, hints)

	if err != nil {
		return "", errors.Join(ErrNoQRCode, err)
	}

	return result.GetText(), nil
}
