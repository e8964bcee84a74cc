package enum

// VATRate is a Belgian VAT percentage bucket
type VATRate int

const (
	VAT6  VATRate = 6
	VAT12 VATRate = 12
	VAT21 VATRate = 21
)

// Valid reports whether the value is one of the supported VAT buckets
func (r VATRate) Valid() bool {
	return r == VAT6 || r == VAT12 || r == VAT21
}

// ExtractFromGross returns the VAT portion contained in a VAT-inclusive
// gross amount (in cents), rounded to the nearest cent.
// For rate r: vat = gross * r / (100 + r).
func (r VATRate) ExtractFromGross(grossCents int64) int64 {
	num := grossCents * int64(r)
	den := int64(100 + r)
	// round half up
	return (num + den/2) / den
}
