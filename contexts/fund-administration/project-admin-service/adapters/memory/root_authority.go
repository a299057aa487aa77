package memory

import "context"

// RootAuthority authorizes a fixed set of accounts for the privileged
// surface (initial setup and the sudo administrator pair).
type RootAuthority struct {
	accounts map[string]struct{}
}

func NewRootAuthority(accounts []string) *RootAuthority {
	set := make(map[string]struct{}, len(accounts))
	for _, account := range accounts {
		if account != "" {
			set[account] = struct{}{}
		}
	}
	return &RootAuthority{accounts: set}
}

func (r *RootAuthority) IsRootOrigin(ctx context.Context, account string) (bool, error) {
	_, ok := r.accounts[account]
	return ok, nil
}
