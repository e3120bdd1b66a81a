package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidBarcode is returned when a scanned code is not purely numeric.
var ErrInvalidBarcode = errors.New("barcode must be numeric")

// BarcodeType is the symbology inferred from a barcode's length.
type BarcodeType string

const (
	BarcodeUPCA  BarcodeType = "UPC-A"
	BarcodeEAN13 BarcodeType = "EAN-13"
	BarcodeUPCE  BarcodeType = "UPC-E"
)

// Barcode is a validated UPC/EAN code.
type Barcode struct {
	Code string      `json:"code"`
	Type BarcodeType `json:"type"`
}

// Unusual reports whether the code length matches none of the known
// symbologies. Such codes are still accepted.
func (b Barcode) Unusual() bool {
	switch b.Type {
	case BarcodeUPCA, BarcodeEAN13, BarcodeUPCE:
		return false
	}
	return true
}

// ValidateBarcode trims and checks a scanned code.
func ValidateBarcode(raw string) (Barcode, error) {
	code := strings.TrimSpace(raw)
	if code == "" {
		return Barcode{}, fmt.Errorf("%w: empty", ErrInvalidBarcode)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return Barcode{}, fmt.Errorf("%w: %q", ErrInvalidBarcode, code)
		}
	}
	return Barcode{Code: code, Type: classifyBarcode(code)}, nil
}

func classifyBarcode(code string) BarcodeType {
	switch n := len(code); n {
	case 12:
		return BarcodeUPCA
	case 13:
		return BarcodeEAN13
	case 6, 8:
		return BarcodeUPCE
	default:
		return BarcodeType(fmt.Sprintf("UNKNOWN_%d", n))
	}
}
