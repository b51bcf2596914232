// Package obs wires structured logging for operational events inside the
// authority core: key bootstrap and creation, rotation and revocation
// cascades. The vault does not log; lock timeouts and tamper detection
// surface only as returned errors. User output stays on the CLI's stdout;
// operational events go through go.uber.org/zap.
package obs

import "go.uber.org/zap"

// New returns a production zap.Logger, or a no-op logger if construction
// fails (logging must never be the reason a core operation aborts).
func New() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// NewDevelopment returns a human-readable development logger, used by the
// CLI front door when --verbose is set.
func NewDevelopment() *zap.Logger {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
