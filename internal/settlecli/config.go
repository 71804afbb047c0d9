package settlecli

import (
	"time"

	"github.com/okian/splitpool/internal/domain/settlement"
)

// Default configuration values.
const (
	DefaultTimeout = 10 * time.Second
	DefaultPolicy  = settlement.PolicyReject
)

// Config holds configuration for one settle run.
type Config struct {
	File    string            // snapshot file (YAML or JSON)
	BaseURL string            // settle remotely when set
	JSON    bool              // print the summary as JSON
	Lang    string            // label language, overrides the file
	Policy  settlement.Policy // invalid-amount handling for local runs
	Timeout time.Duration     // HTTP request timeout
	Verbose bool              // debug logging on stderr
}
