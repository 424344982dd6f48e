package security

import (
	"errors"
	"time"

	"github.com/kejiahp/QRcode-event-manager/pkg/util"
)

const resetKeySize = 32

type ResetKey struct {
	Key       string
	ExpiresAt time.Time
}

// MakeResetKey returns a new single use password reset key valid for ttl
func MakeResetKey(ttl time.Duration) (*ResetKey, error) {
	if ttl <= 0 {
		return nil, errors.New("no expiry provided")
	}

	key, err := util.GenerateToken(resetKeySize)
	if err != nil {
		return nil, err
	}

	return &ResetKey{
		Key:       key,
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}
