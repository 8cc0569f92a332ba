package sheets

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
)

// SpreadsheetsScope grants read/write access to spreadsheets.
const SpreadsheetsScope = "https://www.googleapis.com/auth/spreadsheets"

// ServiceAccount holds the fields of a Google service-account key that the
// JWT flow needs.
type ServiceAccount struct {
	ClientEmail  string `json:"client_email"`
	PrivateKey   string `json:"private_key"`
	PrivateKeyID string `json:"private_key_id"`
	TokenURI     string `json:"token_uri"`
}

// ParseServiceAccount decodes a key JSON document. Keys pasted into
// environment variables often carry literal "\n" sequences instead of line
// breaks; those are restored before the PEM block is used.
func ParseServiceAccount(raw string) (*ServiceAccount, error) {
	var acct ServiceAccount
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &acct); err != nil {
		return nil, fmt.Errorf("decode service account key: %w", err)
	}
	acct.PrivateKey = strings.ReplaceAll(acct.PrivateKey, `\n`, "\n")
	if acct.ClientEmail == "" {
		return nil, errors.New("service account key has no client_email")
	}
	if acct.PrivateKey == "" {
		return nil, errors.New("service account key has no private_key")
	}
	return &acct, nil
}

// JWTConfig builds the two-legged OAuth config for the account.
func (a *ServiceAccount) JWTConfig(scopes ...string) *jwt.Config {
	tokenURL := a.TokenURI
	if tokenURL == "" {
		tokenURL = google.JWTTokenURL
	}
	return &jwt.Config{
		Email:        a.ClientEmail,
		PrivateKey:   []byte(a.PrivateKey),
		PrivateKeyID: a.PrivateKeyID,
		Scopes:       scopes,
		TokenURL:     tokenURL,
	}
}
