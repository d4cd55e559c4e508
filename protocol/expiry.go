package protocol

import "time"

// FallbackTTL applies to message types without their own TTL.
const FallbackTTL = 10 * time.Minute

// TTL returns how long an event of msgType is worth delivering. Command
// outcomes are kept for audit consumers; failure signals go stale quickly.
func TTL(msgType string) time.Duration {
	switch msgType {
	case TypeEngineCommand:
		return 30 * time.Minute
	case TypeUpstreamFailure:
		return 5 * time.Minute
	default:
		return FallbackTTL
	}
}

// Expired reports whether e is past its expiry at now. An envelope with no
// expiry never expires.
func (e *Envelope) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}
