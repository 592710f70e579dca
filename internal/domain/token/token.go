package token

import "time"

// activeBuffer is subtracted from a token's remaining lifetime when deciding
// whether it is still worth using for a new request.
const activeBuffer = 5 * time.Minute

// SessionToken is a short-lived credential issued by the SmartPay gateway.
// Tokens are never deleted; superseded tokens are deactivated and kept for
// audit.
type SessionToken struct {
	ID        int64
	Token     string
	Seed      string
	StartTime time.Time
	EndTime   time.Time
	IsActive  bool
	CreatedAt time.Time
}

// IsExpired reports whether the token has reached its end time. No buffer is
// applied; proactive refresh decisions go through Usable instead.
func (t *SessionToken) IsExpired(now time.Time) bool {
	return !t.EndTime.After(now)
}

// Usable reports whether the token will still be valid five minutes from now,
// leaving room for the outbound call to complete before expiry.
func (t *SessionToken) Usable(now time.Time) bool {
	return t.EndTime.After(now.Add(activeBuffer))
}
