// Package flood implements per-connection rate and flood control: a token
// bucket per opcode class, global invalid-packet counters, and a
// violation-triggered soft ban list.
package flood

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Class groups opcodes that should share one rate budget (movement spam and
// chat spam, for instance, warrant very different limits).
type Class int

const (
	ClassDefault Class = iota
	ClassMovement
	ClassChat
	ClassCombat
)

// Limits configures the token bucket per opcode class. Rate is
// sustained packets/sec; Burst is the bucket capacity.
type Limits struct {
	Rate  rate.Limit
	Burst int
}

// DefaultLimits are conservative per-class budgets; callers can override
// per class via WithLimits.
var DefaultLimits = map[Class]Limits{
	ClassDefault:  {Rate: 20, Burst: 40},
	ClassMovement: {Rate: 15, Burst: 30},
	ClassChat:     {Rate: 5, Burst: 10},
	ClassCombat:   {Rate: 10, Burst: 20},
}

// violationWindow is the sliding window used to count throttle violations
// toward the flood-detected threshold.
const violationWindow = 30 * time.Second

// violationThreshold is how many throttle violations within violationWindow
// trigger FloodDetected and a soft ban.
const violationThreshold = 10

// banTTL is how long a soft-banned remote address is rejected at accept
// time.
const banTTL = 5 * time.Minute

type perSession struct {
	mu       sync.Mutex
	buckets  map[Class]*rate.Limiter
	violations []time.Time
}

// Guard tracks rate limiting and flood detection for every active session,
// plus a process-wide soft ban list keyed by remote IP.
type Guard struct {
	limits map[Class]Limits

	mu       sync.Mutex
	sessions map[uint16]*perSession

	bansMu sync.Mutex
	bans   map[string]banEntry

	// Global counters, read via Stats.
	invalidPackets atomic.Int64
	checksumErrors atomic.Int64
	throttled      atomic.Int64
}

type banEntry struct {
	id      uuid.UUID
	expires time.Time
}

// NewGuard creates a flood guard using DefaultLimits.
func NewGuard() *Guard {
	return NewGuardWithLimits(DefaultLimits)
}

// NewGuardWithLimits creates a flood guard with caller-supplied per-class
// token bucket settings.
func NewGuardWithLimits(limits map[Class]Limits) *Guard {
	return &Guard{
		limits:   limits,
		sessions: make(map[uint16]*perSession),
		bans:     make(map[string]banEntry),
	}
}

func (g *Guard) sessionState(sessionID uint16) *perSession {
	g.mu.Lock()
	defer g.mu.Unlock()
	ps, ok := g.sessions[sessionID]
	if !ok {
		ps = &perSession{buckets: make(map[Class]*rate.Limiter)}
		g.sessions[sessionID] = ps
	}
	return ps
}

func (ps *perSession) bucket(g *Guard, class Class) *rate.Limiter {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	lim, ok := ps.buckets[class]
	if !ok {
		l, ok := g.limits[class]
		if !ok {
			l = DefaultLimits[ClassDefault]
		}
		lim = rate.NewLimiter(l.Rate, l.Burst)
		ps.buckets[class] = lim
	}
	return lim
}

// Allow consumes one token from sessionID's bucket for class. It returns
// ok=false (Throttled) if the bucket is empty, and banned=true if this
// throttle pushed the session over the flood-detection threshold
// (FloodDetected — closes the connection, not merely recoverable).
func (g *Guard) Allow(sessionID uint16, class Class) (ok bool, banned bool) {
	ps := g.sessionState(sessionID)
	if ps.bucket(g, class).Allow() {
		return true, false
	}

	g.throttled.Add(1)

	ps.mu.Lock()
	now := time.Now()
	cutoff := now.Add(-violationWindow)
	kept := ps.violations[:0]
	for _, t := range ps.violations {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	kept = append(kept, now)
	ps.violations = kept
	violationCount := len(ps.violations)
	ps.mu.Unlock()

	return false, violationCount >= violationThreshold
}

// RecordInvalidPacket increments the global invalid-packet counter
// (malformed framing, unknown opcode, wrong-state opcode — every Protocol
// error that isn't specifically a checksum failure).
func (g *Guard) RecordInvalidPacket() { g.invalidPackets.Add(1) }

// RecordChecksumError increments the global checksum-failure counter.
func (g *Guard) RecordChecksumError() { g.checksumErrors.Add(1) }

// Ban soft-bans a remote address for banTTL, returning the ban's id.
func (g *Guard) Ban(remoteAddr string) uuid.UUID {
	id := uuid.New()
	g.bansMu.Lock()
	g.bans[remoteAddr] = banEntry{id: id, expires: time.Now().Add(banTTL)}
	g.bansMu.Unlock()
	return id
}

// IsBanned reports whether remoteAddr is currently soft-banned, pruning the
// entry if its TTL has elapsed.
func (g *Guard) IsBanned(remoteAddr string) bool {
	g.bansMu.Lock()
	defer g.bansMu.Unlock()
	entry, ok := g.bans[remoteAddr]
	if !ok {
		return false
	}
	if time.Now().After(entry.expires) {
		delete(g.bans, remoteAddr)
		return false
	}
	return true
}

// Forget drops sessionID's rate-limiting state. Call when a session closes.
func (g *Guard) Forget(sessionID uint16) {
	g.mu.Lock()
	delete(g.sessions, sessionID)
	g.mu.Unlock()
}

// Stats is a snapshot of the guard's global counters.
type Stats struct {
	InvalidPackets int64
	ChecksumErrors int64
	Throttled      int64
}

func (g *Guard) Stats() Stats {
	return Stats{
		InvalidPackets: g.invalidPackets.Load(),
		ChecksumErrors: g.checksumErrors.Load(),
		Throttled:      g.throttled.Load(),
	}
}
