package enums

// PaymentMethod is the channel the member picked at confirmation.
type PaymentMethod string

const (
	PaymentMethodBankTransfer   PaymentMethod = "BANK_TRANSFER"
	PaymentMethodVirtualAccount PaymentMethod = "VIRTUAL_ACCOUNT"
	PaymentMethodEWallet        PaymentMethod = "E_WALLET"
	PaymentMethodQRIS           PaymentMethod = "QRIS"
	PaymentMethodCreditCard     PaymentMethod = "CREDIT_CARD"
)

var paymentMethods = set[PaymentMethod]{
	PaymentMethodBankTransfer,
	PaymentMethodVirtualAccount,
	PaymentMethodEWallet,
	PaymentMethodQRIS,
	PaymentMethodCreditCard,
}

func (p PaymentMethod) String() string { return string(p) }

func (p PaymentMethod) IsValid() bool { return paymentMethods.has(p) }

func ParsePaymentMethod(value string) (PaymentMethod, error) {
	return paymentMethods.parse("payment method", value)
}
