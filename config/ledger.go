package config

type LedgerConfig struct {
	// Plaintext reserve every new account holds, it is paid out to the
	// destination when the account is closed.
	AccountReserve uint64 `yaml:"accountReserve"`
}
