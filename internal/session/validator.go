package session

import (
	"context"
	"errors"
)

// StaticValidator is the standalone-mode ticket validator: any non-empty
// ticket passes and the claimed id is trusted. Deployments with a platform
// SDK plug their own TicketValidator in instead.
type StaticValidator struct{}

// Validate implements TicketValidator.
func (StaticValidator) Validate(_ context.Context, ticket []byte, claimedSteamID uint64) (uint64, error) {
	if len(ticket) == 0 {
		return 0, errors.New("empty ticket")
	}
	if claimedSteamID == 0 {
		return 0, errors.New("missing steam id")
	}
	return claimedSteamID, nil
}
