package model

import (
	"sync"
	"sync/atomic"
	"time"
)

// ThreatExpiry is the default window after which a threat-table entry with
// no further hits is garbage-collected, releasing aggression once combat
// has genuinely ended.
const ThreatExpiry = 3 * time.Second

// AggroInfo tracks hate and damage from a single attacker.
// Phase 5.7: NPC Aggro & Basic AI.
// Java reference: AggroInfo.java
type AggroInfo struct {
	hate   atomic.Int64
	damage atomic.Int64

	mu          sync.Mutex
	enteredAt   time.Time // first hit from this attacker; used for tie-breaks
	lastHitAt   time.Time // most recent hit; used for expiry
}

// Hate returns current hate value (atomic read).
func (a *AggroInfo) Hate() int64 {
	return a.hate.Load()
}

// AddHate adds hate value and touches the entry's timestamps.
func (a *AggroInfo) AddHate(amount int64) {
	a.hate.Add(amount)
	a.touch()
}

// Damage returns total damage dealt (atomic read).
func (a *AggroInfo) Damage() int64 {
	return a.damage.Load()
}

// AddDamage adds damage value and touches the entry's timestamps.
func (a *AggroInfo) AddDamage(amount int64) {
	a.damage.Add(amount)
	a.touch()
}

// touch records the current hit, setting enteredAt on the first hit only.
func (a *AggroInfo) touch() {
	a.mu.Lock()
	defer a.mu.Unlock()
	now := time.Now()
	if a.enteredAt.IsZero() {
		a.enteredAt = now
	}
	a.lastHitAt = now
}

// EnteredAt returns when this attacker first entered the threat table.
func (a *AggroInfo) EnteredAt() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enteredAt
}

// Expired reports whether this entry's threat window has elapsed with no
// further hits as of now.
func (a *AggroInfo) Expired(now time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.lastHitAt.IsZero() {
		return false
	}
	return now.Sub(a.lastHitAt) > ThreatExpiry
}

// AggroList manages hate for an NPC against multiple attackers.
// Thread-safe via sync.Map.
// Phase 5.7: NPC Aggro & Basic AI.
// Java reference: Attackable.addDamageHate(), AggroInfo
type AggroList struct {
	entries sync.Map // map[uint32]*AggroInfo â€” objectID -> AggroInfo
}

// NewAggroList creates a new empty AggroList.
func NewAggroList() *AggroList {
	return &AggroList{}
}

// AddHate adds hate for an attacker. Creates entry if not exists.
// Hate formula from Java: hateValue = (damage * 100) / (npcLevel + 7)
// Caller should compute hate value before calling this.
func (l *AggroList) AddHate(objectID uint32, hate int64) {
	info := l.getOrCreate(objectID)
	info.AddHate(hate)
}

// AddDamage records damage from an attacker. Creates entry if not exists.
func (l *AggroList) AddDamage(objectID uint32, damage int64) {
	info := l.getOrCreate(objectID)
	info.AddDamage(damage)
}

// GetMostHated returns the objectID with the highest current threat. Ties
// are broken by whichever attacker entered the threat table earliest.
// Expired entries (no hit within ThreatExpiry) are removed first and never
// considered. Returns 0 if the list is empty after expiry.
func (l *AggroList) GetMostHated() uint32 {
	now := time.Now()
	l.ExpireStale(now)

	var maxHate int64
	var mostHatedID uint32
	var mostHatedEntered time.Time
	found := false

	l.entries.Range(func(key, value any) bool {
		objectID := key.(uint32)
		info := value.(*AggroInfo)
		hate := info.Hate()
		enteredAt := info.EnteredAt()

		switch {
		case !found:
			found = true
		case hate > maxHate:
		case hate == maxHate && enteredAt.Before(mostHatedEntered):
		default:
			return true
		}
		maxHate = hate
		mostHatedID = objectID
		mostHatedEntered = enteredAt
		return true
	})

	return mostHatedID
}

// ExpireStale removes every entry whose threat window has elapsed as of now,
// releasing aggression once combat has genuinely ended.
func (l *AggroList) ExpireStale(now time.Time) {
	l.entries.Range(func(key, value any) bool {
		info := value.(*AggroInfo)
		if info.Expired(now) {
			l.entries.Delete(key)
		}
		return true
	})
}

// Get returns AggroInfo for a specific attacker.
// Returns nil if not found.
func (l *AggroList) Get(objectID uint32) *AggroInfo {
	value, ok := l.entries.Load(objectID)
	if !ok {
		return nil
	}
	return value.(*AggroInfo)
}

// Remove removes an attacker from the hate list.
func (l *AggroList) Remove(objectID uint32) {
	l.entries.Delete(objectID)
}

// Clear removes all entries from the hate list.
func (l *AggroList) Clear() {
	l.entries.Range(func(key, _ any) bool {
		l.entries.Delete(key)
		return true
	})
}

// IsEmpty returns true if hate list has no entries.
func (l *AggroList) IsEmpty() bool {
	empty := true
	l.entries.Range(func(_, _ any) bool {
		empty = false
		return false // stop iteration
	})
	return empty
}

// getOrCreate returns existing AggroInfo or creates a new one.
// Fast path: Load() first to avoid allocating &AggroInfo{} on every call.
func (l *AggroList) getOrCreate(objectID uint32) *AggroInfo {
	if v, ok := l.entries.Load(objectID); ok {
		return v.(*AggroInfo)
	}
	v, _ := l.entries.LoadOrStore(objectID, &AggroInfo{})
	return v.(*AggroInfo)
}

// CalcHateValue calculates hate from damage using Java formula.
// Formula: (damage * 100) / (npcLevel + 7)
func CalcHateValue(damage int32, npcLevel int32) int64 {
	if npcLevel < 1 {
		npcLevel = 1
	}
	return (int64(damage) * 100) / int64(npcLevel+7)
}
