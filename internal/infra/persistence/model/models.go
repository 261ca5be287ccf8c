// Package model holds the GORM table definitions.
package model

// All lists every table in migration order.
func All() []any {
	return []any{
		&PlayerModel{},
		&PlotModel{},
		&BusinessModel{},
		&BusinessConnectionModel{},
		&TransactionModel{},
		&TreasuryModel{},
		&ContractModel{},
		&PlayerDeviceModel{},
	}
}
