package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/easyshoppingzone/orderdesk/internal/enum"
)

// ErrInvalidCredentials never says which half of the pair was wrong.
var ErrInvalidCredentials = errors.New("Invalid username or password")

// User is a staff member allowed into the dashboard.
type User struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Authenticator verifies a username and secret against an identity store.
type Authenticator interface {
	Authenticate(ctx context.Context, username, secret string) (User, error)
}

// Account is a stored credential.
type Account struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	Name         string `json:"name"`
	Role         string `json:"role"`
}

// StaticAuthenticator checks credentials against a fixed list of bcrypt hashes.
type StaticAuthenticator struct {
	accounts map[string]Account
	dummy    []byte
}

// NewStaticAuthenticator builds an authenticator over accounts.
func NewStaticAuthenticator(accounts []Account) *StaticAuthenticator {
	m := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		m[a.Username] = a
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.MinCost)
	return &StaticAuthenticator{accounts: m, dummy: dummy}
}

// Authenticate returns the user whose username and password match exactly.
func (a *StaticAuthenticator) Authenticate(_ context.Context, username, secret string) (User, error) {
	acct, ok := a.accounts[username]
	if !ok {
		// Same bcrypt cost as a real miss.
		_ = bcrypt.CompareHashAndPassword(a.dummy, []byte(secret))
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(secret)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return User{Username: acct.Username, Name: acct.Name, Role: acct.Role}, nil
}

// DefaultAccounts hashes the built-in staff list at the given bcrypt cost.
func DefaultAccounts(cost int) ([]Account, error) {
	seed := []struct {
		username, password, name, role string
	}{
		{"admin", "admin123", "Liaqat Ali", enum.UserRoleAdmin},
		{"user", "user123", "Staff User", enum.UserRoleStaff},
	}

	accounts := make([]Account, 0, len(seed))
	for _, s := range seed {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.password), cost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", s.username, err)
		}
		accounts = append(accounts, Account{
			Username:     s.username,
			PasswordHash: string(hash),
			Name:         s.name,
			Role:         s.role,
		})
	}
	return accounts, nil
}

// LoadAccounts reads a JSON array of accounts from path.
func LoadAccounts(path string) ([]Account, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	var accounts []Account
	if err := json.Unmarshal(b, &accounts); err != nil {
		return nil, fmt.Errorf("parse users file: %w", err)
	}
	for i, a := range accounts {
		if a.Username == "" || a.PasswordHash == "" {
			return nil, fmt.Errorf("users file entry %d: username and password_hash are required", i)
		}
	}
	return accounts, nil
}
