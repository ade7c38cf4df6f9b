package models

// All lists every persisted model. sqlite setups migrate from it because the
// goose migrations are postgres-only.
func All() []any {
	return []any{
		&Brand{},
		&Product{},
		&ProductVariant{},
		&InstallationPackage{},
		&PipeGrade{},
		&InstallationService{},
		&CleaningCategory{},
		&CleaningType{},
		&UnitCondition{},
		&ProductOrder{},
		&InstallationOrder{},
		&CleaningOrder{},
		&Cart{},
		&Checkout{},
		&Voucher{},
		&CheckoutQuote{},
		&OutboxEvent{},
	}
}
