package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/procurecontract/session-service/internal/core/domain"
)

// Account is a built-in identity known to the BuiltinProvider.
type Account struct {
	Session  domain.Session
	Password string
}

// DefaultAccounts are the two demo identities the login page advertises.
var DefaultAccounts = []Account{
	{
		Session: domain.Session{
			UserID:      "1",
			Username:    "admin",
			DisplayName: "Admin User",
			Email:       "admin@example.com",
			Role:        domain.RoleAdmin,
		},
		Password: "admin123",
	},
	{
		Session: domain.Session{
			UserID:      "2",
			Username:    "user",
			DisplayName: "Regular User",
			Email:       "user@example.com",
			Role:        domain.RoleUser,
		},
		Password: "user123",
	},
}

type builtinAccount struct {
	session      domain.Session
	passwordHash []byte
}

// BuiltinProvider validates credentials against a fixed in-process account table.
type BuiltinProvider struct {
	accounts map[string]builtinAccount
}

// NewBuiltinProvider hashes the passwords of accounts with bcrypt at the given
// cost; cost <= 0 selects bcrypt.DefaultCost.
func NewBuiltinProvider(accounts []Account, cost int) (*BuiltinProvider, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}

	p := &BuiltinProvider{accounts: make(map[string]builtinAccount, len(accounts))}
	for _, acc := range accounts {
		if !acc.Session.Valid() {
			return nil, fmt.Errorf("builtin account %q: incomplete identity", acc.Session.Username)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("builtin account %q: %w", acc.Session.Username, err)
		}
		p.accounts[acc.Session.Username] = builtinAccount{session: acc.Session, passwordHash: hash}
	}
	return p, nil
}

// Validate returns a fresh copy of the matching account's session.
func (p *BuiltinProvider) Validate(_ context.Context, username, password string) (*domain.Session, error) {
	acc, ok := p.accounts[username]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	session := acc.session
	return &session, nil
}
