package repository

import "context"

// TransactionManager defines the interface for managing database transactions.
// This allows the use case layer to handle transactions without depending on a specific DB driver like GORM.
type TransactionManager interface {
	// Execute runs a function within a database transaction.
	// If the function returns an error, the transaction is rolled back. Otherwise, it's committed.
	// All repository operations within the function will use the same database transaction.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides a way to get repository instances that are bound to a specific transaction.
// This ensures all repository operations within a transaction use the same database connection.
type RepositoryFactory interface {
	// NewPlayerRepository returns a PlayerRepository instance bound to the current transaction.
	NewPlayerRepository() PlayerRepository

	// NewPlotRepository returns a PlotRepository instance bound to the current transaction.
	NewPlotRepository() PlotRepository

	// NewBusinessRepository returns a BusinessRepository instance bound to the current transaction.
	NewBusinessRepository() BusinessRepository

	// NewLedgerRepository returns a LedgerRepository instance bound to the current transaction.
	NewLedgerRepository() LedgerRepository

	// NewTreasuryRepository returns a TreasuryRepository instance bound to the current transaction.
	NewTreasuryRepository() TreasuryRepository

	// NewContractRepository returns a ContractRepository instance bound to the current transaction.
	NewContractRepository() ContractRepository

	// NewDeviceRepository returns a DeviceRepository instance bound to the current transaction.
	NewDeviceRepository() DeviceRepository
}
