package domain

// Credentials holds wallet identity loaded from the wallet file.
// The mnemonic is the seed phrase the signing key derives from;
// Address must match the key derived from Mnemonic.
type Credentials struct {
	Address  string
	Mnemonic string
}

// Redacted returns the address shortened for logging.
// Full addresses and mnemonics never appear in logs.
func (c Credentials) Redacted() string {
	if len(c.Address) < 20 {
		return "<invalid>"
	}
	return c.Address[:10] + "..." + c.Address[len(c.Address)-10:]
}
