package secgate

import (
	"log/slog"
	"time"
)

// Gateway bundles the request-level security concerns: permission checks,
// fixed-window rate limiting, the audit trail and reversible encoding of
// sensitive values. All mutable state lives behind the injected stores so
// several instances can share one counter and one audit log.
type Gateway struct {
	counter CounterStore
	audit   AuditRepo
	cipher  Cipher

	limit  int
	window time.Duration

	logger *slog.Logger
}

func NewGateway(counter CounterStore, audit AuditRepo, cipher Cipher) *Gateway {
	if cipher == nil {
		cipher = ObfuscationCipher{}
	}
	return &Gateway{
		counter: counter,
		audit:   audit,
		cipher:  cipher,
		limit:   DefaultRateLimit,
		window:  DefaultRateWindow,
		logger:  slog.Default().With("module", "secgate"),
	}
}

// WithRateLimit overrides the default fixed-window budget.
func (g *Gateway) WithRateLimit(limit int, window time.Duration) *Gateway {
	g.limit = limit
	g.window = window
	return g
}

// EncryptSensitive encodes plain through the configured cipher. With the
// default ObfuscationCipher this is obfuscation, not confidentiality.
func (g *Gateway) EncryptSensitive(plain []byte) (string, error) {
	return g.cipher.Encrypt(plain)
}

// DecryptSensitive reverses EncryptSensitive.
func (g *Gateway) DecryptSensitive(encoded string) ([]byte, error) {
	return g.cipher.Decrypt(encoded)
}
