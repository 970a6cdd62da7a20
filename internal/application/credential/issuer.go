// Package credential issues and checks the two check-in factors of a permit:
// a short numeric one-time code and an opaque scannable token.
package credential

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/orris-inc/permitgate/internal/domain/permit"
	"github.com/orris-inc/permitgate/internal/shared/biztime"
	"github.com/orris-inc/permitgate/internal/shared/config"
	"github.com/orris-inc/permitgate/internal/shared/id"
)

const (
	TokenPrefix = "PERMIT-"

	// CombinedScanSeparator joins token and code in a single scanned string.
	CombinedScanSeparator = "#"

	defaultCodeLength = 6
	defaultCodeTTL    = 5 * time.Minute
)

// Credential is what the visitor receives on approval.
type Credential struct {
	Code      string
	Token     string
	ExpiresAt time.Time
}

type Issuer struct {
	codeLength int
	codeTTL    time.Duration
	clock      biztime.Clock
}

func NewIssuer(cfg config.CredentialConfig, clock biztime.Clock) *Issuer {
	if cfg.CodeLength <= 0 {
		cfg.CodeLength = defaultCodeLength
	}
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = defaultCodeTTL
	}
	if clock == nil {
		clock = biztime.SystemClock{}
	}
	return &Issuer{
		codeLength: cfg.CodeLength,
		codeTTL:    cfg.CodeTTL,
		clock:      clock,
	}
}

// Issue generates a fresh code and token and attaches them to p. The caller
// persists p together with its transition to APPROVED.
func (i *Issuer) Issue(p *permit.Permit) (*Credential, error) {
	code, err := id.GenerateDigits(i.codeLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access code: %w", err)
	}
	now := i.clock.Now()
	cred := &Credential{
		Code:      code,
		Token:     NewToken(),
		ExpiresAt: now.Add(i.codeTTL),
	}
	if err := p.AttachCredentials(cred.Code, cred.Token, cred.ExpiresAt, now); err != nil {
		return nil, err
	}
	return cred, nil
}

// Verify reports whether code currently unlocks p.
func (i *Issuer) Verify(p *permit.Permit, code string) bool {
	return p.VerifyCode(strings.TrimSpace(code), i.clock.Now())
}

// Regenerate replaces the code of an approved permit and restarts its expiry.
// The token is kept.
func (i *Issuer) Regenerate(p *permit.Permit) (*Credential, error) {
	code, err := id.GenerateDigits(i.codeLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access code: %w", err)
	}
	now := i.clock.Now()
	expiresAt := now.Add(i.codeTTL)
	if err := p.ReplaceCode(code, expiresAt, now); err != nil {
		return nil, err
	}
	return &Credential{Code: code, Token: p.AccessToken(), ExpiresAt: expiresAt}, nil
}

func NewToken() string {
	return TokenPrefix + uuid.NewString()
}

func IsToken(s string) bool {
	if !strings.HasPrefix(s, TokenPrefix) {
		return false
	}
	_, err := uuid.Parse(strings.TrimPrefix(s, TokenPrefix))
	return err == nil
}

// SplitCombinedScan separates a "<token>#<code>" scan into its two factors.
func SplitCombinedScan(scan string) (token, code string, ok bool) {
	token, code, found := strings.Cut(strings.TrimSpace(scan), CombinedScanSeparator)
	if !found || token == "" || code == "" {
		return "", "", false
	}
	return token, code, true
}
