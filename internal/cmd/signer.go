package cmd

import (
	"fmt"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/crypto"
	"github.com/fatih/color"

	txsubmitter "github.com/switchboard-xyz/aptos-txsubmitter"
)

// loadAccount returns the account for privateKeyHex, or a fresh funded one when it is empty.
func loadAccount(a *app, privateKeyHex string, initialFund uint64) (*aptos.Account, error) {
	if privateKeyHex != "" {
		key := &crypto.Ed25519PrivateKey{}
		if err := key.FromHex(privateKeyHex); err != nil {
			return nil, fmt.Errorf("invalid private key: %w", err)
		}
		account, err := aptos.NewAccountFromSigner(key)
		if err != nil {
			return nil, fmt.Errorf("couldn't load account: %w", err)
		}
		return account, nil
	}

	account, err := aptos.NewEd25519Account()
	if err != nil {
		return nil, fmt.Errorf("couldn't create account: %w", err)
	}
	color.Cyan("Created account %s", account.Address.String())

	if initialFund > 0 {
		if err := a.submitter.FundAccount(a.network, account.Address, initialFund); err != nil {
			return nil, err
		}
		fmt.Printf("Funded with %d octas\n", initialFund)
	}
	return account, nil
}

var _ txsubmitter.Signer = (*aptos.Account)(nil)
