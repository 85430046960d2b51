package config

import (
	"fmt"
	"strings"
	"time"
)

// BidsMode selects who writes bid state during a hire.
type BidsMode string

const (
	// BidsModeDirect updates the bids collection inside the hire transaction.
	BidsModeDirect BidsMode = "direct"
	// BidsModeRemote asks the bid owner with DECLINE_BIDS and HIRE_BID.
	BidsModeRemote BidsMode = "remote"
)

// UnmarshalText implements encoding.TextUnmarshaler for BidsMode.
func (m *BidsMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "", string(BidsModeDirect):
		*m = BidsModeDirect
	case string(BidsModeRemote):
		*m = BidsModeRemote
	default:
		return fmt.Errorf("invalid BidsMode: %q (valid options: direct, remote)", v)
	}
	return nil
}

// RemoteConfig controls commands sent to other marketplace services.
type RemoteConfig struct {
	// Timeout caps every outbound command.
	Timeout time.Duration `env:"REMOTE_TIMEOUT" envDefault:"10s"`

	BidsMode BidsMode `env:"BIDS_MODE" envDefault:"direct"`
}

// Sanitize applies guardrails to remote configuration values.
func (r *RemoteConfig) Sanitize() {
	if r.Timeout < 100*time.Millisecond {
		r.Timeout = 100 * time.Millisecond
	}
	if r.BidsMode == "" {
		r.BidsMode = BidsModeDirect
	}
}
