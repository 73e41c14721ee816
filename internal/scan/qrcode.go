package scan

import (
	qrcode "github.com/skip2/go-qrcode"
)

// qrSize is the edge length in pixels of generated label images.
const qrSize = 512

// EncodeQR renders the item_id as a QR PNG at error-correction level High.
// The payload is exactly the item_id string, case preserved, so scanning the
// label round-trips to the same key the resolver looks up.
func EncodeQR(itemID string) ([]byte, error) {
	if itemID == "" {
		return nil, ErrEmptyCode
	}
	return qrcode.Encode(itemID, qrcode.High, qrSize)
}
