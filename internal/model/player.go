package model

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// StatBonusProvider provides stat bonuses from active effects (buffs/debuffs).
// Interface to avoid an import cycle between model and the skill package.
type StatBonusProvider interface {
	GetStatBonus(stat string) float64
}

// classBaseStats holds the nude (no equipment) combat stats for a class.
// Out-of-scope item/class database loading (see Non-goals) means these are
// fixed defaults rather than data loaded from disk; real deployments are
// expected to swap Player construction for one backed by their own template
// store.
type classBaseStats struct {
	str, int_, con, men, dex, wit uint8
	basePAtk, basePDef            int32
	basePAtkSpd                   float64
	baseAtkRange                  int32
}

var defaultClassStats = classBaseStats{
	str: 40, int_: 21, con: 43, men: 25, dex: 30, wit: 11,
	basePAtk: 4, basePDef: 80, basePAtkSpd: 300, baseAtkRange: 20,
}

// Player is a session-bound game character: the avatar a connected session
// controls once character selection completes. It embeds Character for the
// HP/MP/CP/CC-flag capability set shared with Mob.
type Player struct {
	*Character

	characterID int64
	accountID   int64
	raceID      int32
	classID     int32
	experience  int64
	sp          int64
	createdAt   time.Time
	lastLogin   time.Time

	playerMu sync.RWMutex

	// atomic.Value holds *VisibilityCache (internal/world), lock-free reads.
	visibilityCache atomic.Value

	movement *PlayerMovement
	target   *WorldObject

	inventory *Inventory

	skills map[int32]*SkillInfo

	effectManager StatBonusProvider

	// Atomic so combat can mark stance without an import cycle on model.
	lastAttackTime atomic.Int64

	party              *Party
	pendingPartyInvite *PartyInvite

	guildID            int32
	guildTitle         string
	pendingGuildInvite *GuildInvite

	accessLevel      int32
	lastAdminMessage string
	invisible        bool
	invulnerable     bool

	karma   int32
	pkKills int32

	itemCooldowns map[int32]time.Time
}

// NewPlayer creates a new player character with validation.
// objectID must be unique across all world objects (players, mobs, items).
func NewPlayer(objectID uint32, characterID, accountID int64, name string, level, raceID, classID int32) (*Player, error) {
	if name == "" || len(name) < 2 {
		return nil, fmt.Errorf("name must be at least 2 characters, got %q", name)
	}
	if level < 1 || level > 80 {
		return nil, fmt.Errorf("level must be between 1 and 80, got %d", level)
	}

	loc := NewLocation(0, 0, 0, 0)

	maxHP := int32(1000 + level*50)
	maxMP := int32(500 + level*25)
	maxCP := int32(800 + level*40)

	p := &Player{
		Character:   NewCharacter(objectID, name, loc, level, maxHP, maxMP, maxCP),
		characterID: characterID,
		accountID:   accountID,
		raceID:      raceID,
		classID:     classID,
		createdAt:   time.Now(),
		movement:    NewPlayerMovement(loc.X, loc.Y, loc.Z),
		inventory:   NewInventory(characterID),
	}

	p.visibilityCache.Store((*VisibilityCache)(nil))
	p.WorldObject.Data = p

	return p, nil
}

func (p *Player) CharacterID() int64 { return p.characterID }
func (p *Player) AccountID() int64   { return p.accountID }

func (p *Player) RaceID() int32 {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.raceID
}

func (p *Player) ClassID() int32 {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.classID
}

func (p *Player) SetRaceID(raceID int32) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.raceID = raceID
}

func (p *Player) SetClassID(classID int32) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.classID = classID
}

func (p *Player) Experience() int64 {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.experience
}

// AddExperience adds experience; may be negative for a death penalty.
func (p *Player) AddExperience(exp int64) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.experience += exp
	if p.experience < 0 {
		p.experience = 0
	}
}

func (p *Player) SetExperience(exp int64) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	if exp < 0 {
		exp = 0
	}
	p.experience = exp
}

func (p *Player) SP() int64 {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.sp
}

func (p *Player) AddSP(sp int64) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.sp += sp
	if p.sp < 0 {
		p.sp = 0
	}
}

func (p *Player) SetSP(sp int64) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	if sp < 0 {
		sp = 0
	}
	p.sp = sp
}

func (p *Player) CreatedAt() time.Time {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.createdAt
}

func (p *Player) LastLogin() time.Time {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.lastLogin
}

func (p *Player) UpdateLastLogin() {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.lastLogin = time.Now()
}

func (p *Player) SetLastLogin(t time.Time) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.lastLogin = t
}

func (p *Player) SetCreatedAt(t time.Time) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.createdAt = t
}

// SetCharacterID sets the DB row id after a persistence insert.
func (p *Player) SetCharacterID(id int64) {
	p.characterID = id
}

// GetVisibilityCache returns the current visibility cache snapshot, or nil.
func (p *Player) GetVisibilityCache() *VisibilityCache {
	v := p.visibilityCache.Load()
	if v == nil {
		return nil
	}
	return v.(*VisibilityCache)
}

// SetVisibilityCache stores a fresh snapshot, refreshed periodically by the
// broadcast router's visibility manager.
func (p *Player) SetVisibilityCache(cache *VisibilityCache) {
	p.visibilityCache.Store(cache)
}

// InvalidateVisibilityCache forces a fresh visibility query on next read.
func (p *Player) InvalidateVisibilityCache() {
	p.visibilityCache.Store((*VisibilityCache)(nil))
}

// Movement returns the client/server position tracking state used for
// desync detection on the Move handler.
func (p *Player) Movement() *PlayerMovement {
	return p.movement
}

// CanLogout reports whether the player may disconnect cleanly right now.
func (p *Player) CanLogout() bool {
	return !p.HasAttackStance()
}

// HasAttackStance reports whether the player attacked or was attacked within
// the last 15 seconds (the legacy combat-stance window).
func (p *Player) HasAttackStance() bool {
	ts := p.lastAttackTime.Load()
	if ts == 0 {
		return false
	}
	return time.Since(time.Unix(0, ts)) < 15*time.Second
}

// MarkAttackStance records now as the last attack moment.
func (p *Player) MarkAttackStance() {
	p.lastAttackTime.Store(time.Now().UnixNano())
}

func (p *Player) LastAttackTime() int64 {
	return p.lastAttackTime.Load()
}

func (p *Player) Target() *WorldObject {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.target
}

func (p *Player) SetTarget(target *WorldObject) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.target = target
}

func (p *Player) ClearTarget() {
	p.SetTarget(nil)
}

func (p *Player) HasTarget() bool {
	return p.Target() != nil
}

func (p *Player) Inventory() *Inventory {
	return p.inventory
}

func (p *Player) GetEquippedWeapon() *Item {
	if p.inventory == nil {
		return nil
	}
	return p.inventory.GetPaperdollItem(PaperdollRHand)
}

func (p *Player) GetEquippedArmor(slot int32) *Item {
	if p.inventory == nil {
		return nil
	}
	return p.inventory.GetPaperdollItem(slot)
}

// GetLevelMod returns the level modifier used to scale nude stats:
// (level + 89) / 100.
func (p *Player) GetLevelMod() float64 {
	return float64(p.Level()+89) / 100.0
}

func (p *Player) GetSTR() uint8 { return defaultClassStats.str }
func (p *Player) GetINT() uint8 { return defaultClassStats.int_ }
func (p *Player) GetCON() uint8 { return defaultClassStats.con }
func (p *Player) GetMEN() uint8 { return defaultClassStats.men }
func (p *Player) GetDEX() uint8 { return defaultClassStats.dex }
func (p *Player) GetWIT() uint8 { return defaultClassStats.wit }

// GetBasePAtk returns nude physical attack, without weapon bonus.
func (p *Player) GetBasePAtk() int32 {
	return int32(float64(defaultClassStats.basePAtk) * p.GetLevelMod())
}

// GetPAtk returns physical attack including the equipped weapon's bonus.
func (p *Player) GetPAtk() int32 {
	weaponPAtk := int32(0)
	if weapon := p.GetEquippedWeapon(); weapon != nil {
		weaponPAtk = weapon.Template().PAtk
	}
	return int32((float64(defaultClassStats.basePAtk) + float64(weaponPAtk)) * p.GetLevelMod())
}

// GetPAtkSpd returns the physical attack speed (attacks per 500s of delay units).
func (p *Player) GetPAtkSpd() float64 {
	return defaultClassStats.basePAtkSpd
}

// GetAttackRange returns attack range in game units; weapon range overrides
// the bare-fist default.
func (p *Player) GetAttackRange() int32 {
	if weapon := p.GetEquippedWeapon(); weapon != nil {
		return weapon.Template().AttackRange
	}
	return defaultClassStats.baseAtkRange
}

// GetAttackDelay returns the time between consecutive attacks.
func (p *Player) GetAttackDelay() time.Duration {
	delayMs := int(500000 / p.GetPAtkSpd())
	return time.Duration(delayMs) * time.Millisecond
}

// GetBasePDef returns nude physical defense (no equipment).
func (p *Player) GetBasePDef() int32 {
	return int32(float64(defaultClassStats.basePDef) * p.GetLevelMod())
}

// GetPDef returns physical defense including equipped armor.
func (p *Player) GetPDef() int32 {
	armorPDef := int32(0)
	slots := []int32{
		PaperdollChest, PaperdollLegs, PaperdollHead,
		PaperdollFeet, PaperdollGloves, PaperdollUnder, PaperdollCloak,
	}
	for _, slot := range slots {
		if armor := p.GetEquippedArmor(slot); armor != nil {
			armorPDef += armor.Template().PDef
		}
	}
	return int32((float64(defaultClassStats.basePDef) + float64(armorPDef)) * p.GetLevelMod())
}

// DoAttack is a no-op stub: real combat resolution happens in
// internal/game/combat.CombatManager, invoked by the Attack handler.
func (p *Player) DoAttack(target *WorldObject) {}

// --- Skills ---

func (p *Player) AddSkill(skillID, level int32, passive bool) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	if p.skills == nil {
		p.skills = make(map[int32]*SkillInfo)
	}
	p.skills[skillID] = &SkillInfo{SkillID: skillID, Level: level, Passive: passive}
}

func (p *Player) GetSkill(skillID int32) *SkillInfo {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	if p.skills == nil {
		return nil
	}
	return p.skills[skillID]
}

func (p *Player) HasSkill(skillID int32) bool {
	return p.GetSkill(skillID) != nil
}

func (p *Player) Skills() []*SkillInfo {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	if p.skills == nil {
		return nil
	}
	result := make([]*SkillInfo, 0, len(p.skills))
	for _, s := range p.skills {
		result = append(result, s)
	}
	return result
}

func (p *Player) SkillCount() int {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return len(p.skills)
}

func (p *Player) RemoveSkill(skillID int32) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	delete(p.skills, skillID)
}

func (p *Player) GetSkillLevel(skillID int32) int32 {
	si := p.GetSkill(skillID)
	if si == nil {
		return 0
	}
	return si.Level
}

// --- Effect manager ---

func (p *Player) SetEffectManager(em StatBonusProvider) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.effectManager = em
}

func (p *Player) EffectManager() StatBonusProvider {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.effectManager
}

// --- Party ---

// PartyInvite tracks a pending party invite from another player.
type PartyInvite struct {
	FromObjectID uint32
	FromName     string
	LootRule     int32
}

func (p *Player) GetParty() *Party {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.party
}

func (p *Player) SetParty(party *Party) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.party = party
}

func (p *Player) IsInParty() bool {
	return p.GetParty() != nil
}

func (p *Player) PendingPartyInvite() *PartyInvite {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.pendingPartyInvite
}

func (p *Player) SetPendingPartyInvite(invite *PartyInvite) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.pendingPartyInvite = invite
}

func (p *Player) ClearPendingPartyInvite() {
	p.SetPendingPartyInvite(nil)
}

// --- Guild ---

// GuildInvite tracks a pending guild invite from a guild officer.
type GuildInvite struct {
	GuildID   int32
	GuildName string
	InviterID uint32
}

func (p *Player) GuildID() int32 {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.guildID
}

func (p *Player) SetGuildID(id int32) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.guildID = id
}

func (p *Player) GuildTitle() string {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.guildTitle
}

func (p *Player) SetGuildTitle(title string) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.guildTitle = title
}

func (p *Player) PendingGuildInvite() *GuildInvite {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.pendingGuildInvite
}

func (p *Player) SetPendingGuildInvite(invite *GuildInvite) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.pendingGuildInvite = invite
}

func (p *Player) ClearPendingGuildInvite() {
	p.SetPendingGuildInvite(nil)
}

// --- Ops (GmCommand gating) ---

func (p *Player) AccessLevel() int32 {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.accessLevel
}

func (p *Player) SetAccessLevel(level int32) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.accessLevel = level
}

func (p *Player) IsGM() bool {
	return p.AccessLevel() > 0
}

func (p *Player) LastAdminMessage() string {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.lastAdminMessage
}

func (p *Player) SetLastAdminMessage(msg string) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.lastAdminMessage = msg
}

func (p *Player) ClearLastAdminMessage() string {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	msg := p.lastAdminMessage
	p.lastAdminMessage = ""
	return msg
}

func (p *Player) IsInvisible() bool {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.invisible
}

func (p *Player) SetInvisible(invisible bool) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.invisible = invisible
}

func (p *Player) IsInvulnerable() bool {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.invulnerable
}

func (p *Player) SetInvulnerable(invul bool) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.invulnerable = invul
}

// --- Karma / PvP ---

func (p *Player) Karma() int32 {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.karma
}

func (p *Player) SetKarma(karma int32) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.karma = karma
}

func (p *Player) PKKills() int32 {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.pkKills
}

func (p *Player) SetPKKills(count int32) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.pkKills = count
}

// --- Item cooldowns (driven by the ItemUse handler) ---

func (p *Player) IsItemOnCooldown(itemID int32) bool {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	if p.itemCooldowns == nil {
		return false
	}
	expiry, ok := p.itemCooldowns[itemID]
	if !ok {
		return false
	}
	return time.Now().Before(expiry)
}

func (p *Player) SetItemCooldown(itemID int32, duration time.Duration) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	if p.itemCooldowns == nil {
		p.itemCooldowns = make(map[int32]time.Time)
	}
	p.itemCooldowns[itemID] = time.Now().Add(duration)
}
