package client

import (
	"sync"
	"time"
)

// DefaultNoticeTTL is how long a notice stays visible before it
// auto-dismisses.
const DefaultNoticeTTL = 3 * time.Second

// NoticeKind distinguishes success banners from error banners.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is one transient banner message.
type Notice struct {
	Kind    NoticeKind
	Message string
	at      time.Time
}

// Notices collects transient banner messages for the display layer.
// Network and validation failures are pushed here instead of being raised
// as crashes; each message expires after the TTL.
type Notices struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries []Notice
}

// NewNotices creates a collector with the default 3-second TTL.
func NewNotices() *Notices {
	return &Notices{ttl: DefaultNoticeTTL, now: time.Now}
}

// NewNoticesWithClock injects a clock (tests).
func NewNoticesWithClock(ttl time.Duration, now func() time.Time) *Notices {
	return &Notices{ttl: ttl, now: now}
}

// Push adds a banner message.
func (n *Notices) Push(kind NoticeKind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.entries = append(n.entries, Notice{Kind: kind, Message: message, at: n.now()})
}

// Active returns the messages that have not yet expired and drops the rest.
func (n *Notices) Active() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()

	cutoff := n.now().Add(-n.ttl)
	keep := n.entries[:0]
	for _, e := range n.entries {
		if e.at.After(cutoff) {
			keep = append(keep, e)
		}
	}
	n.entries = keep

	out := make([]Notice, len(keep))
	copy(out, keep)
	return out
}
