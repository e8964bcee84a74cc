package enum

// PaymentMethod is how a sale was settled at the register
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// Valid reports whether the value is a known payment method
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCard
}
