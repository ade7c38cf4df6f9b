package enums

// Currency is an ISO 4217 code for order totals.
type Currency string

const (
	CurrencyIDR Currency = "IDR"
	CurrencyUSD Currency = "USD"
	CurrencySGD Currency = "SGD"
)

var currencies = set[Currency]{CurrencyIDR, CurrencyUSD, CurrencySGD}

func (c Currency) String() string { return string(c) }

func (c Currency) IsValid() bool { return currencies.has(c) }

// ParseCurrency is case-insensitive; "idr" is accepted.
func ParseCurrency(value string) (Currency, error) {
	return currencies.parseFold("currency", value)
}
