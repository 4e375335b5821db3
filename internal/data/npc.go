package data

import "sync"

// npcSkillDef is one entry in an NPC's innate skill list.
type npcSkillDef struct {
	skillID, skillLevel int32
}

func (s npcSkillDef) SkillID() int32    { return s.skillID }
func (s npcSkillDef) SkillLevel() int32 { return s.skillLevel }

// dropItemDef is one item entry inside a drop group.
type dropItemDef struct {
	itemID        int32
	chance        float64
	min, max      int32
}

func (d dropItemDef) ItemID() int32   { return d.itemID }
func (d dropItemDef) Chance() float64 { return d.chance }
func (d dropItemDef) Min() int32      { return d.min }
func (d dropItemDef) Max() int32      { return d.max }

// dropGroupDef groups items that roll together under a single group chance.
type dropGroupDef struct {
	chance float64
	items  []dropItemDef
}

func (g dropGroupDef) Chance() float64       { return g.chance }
func (g dropGroupDef) Items() []dropItemDef { return g.items }

// npcDef is a single NPC template: base stats, combat values, and the drop
// and skill tables attached to it. Populated in-memory by LoadNpcTemplates;
// there is no on-disk NPC database format here.
type npcDef struct {
	id, level             int32
	name, title           string
	npcType               string
	race, sex             string
	hp, mp                int32
	hpRegen, mpRegen      float64
	pAtk, mAtk            int32
	pDef, mDef            int32
	aggroRange            int32
	clanHelpRange         int32
	runSpeed, atkSpeed    int32
	atkRange              int32
	baseExp, baseSP       int64
	collisionRadius       float64
	collisionHeight       float64
	isAggressive          bool
	fleeThreshold         float64 // HP fraction below which this mob flees; 0 disables fleeing
	rhand, lhand, chest   int32
	drops                 []dropGroupDef
	spoils                []dropGroupDef
	skills                []npcSkillDef
	minions               []int32
	clans                 []string
	ignoreClanNpcIDs      []int32
}

func (n *npcDef) ID() int32                 { return n.id }
func (n *npcDef) Name() string              { return n.name }
func (n *npcDef) Title() string             { return n.title }
func (n *npcDef) NpcType() string           { return n.npcType }
func (n *npcDef) Level() int32              { return n.level }
func (n *npcDef) Race() string              { return n.race }
func (n *npcDef) Sex() string               { return n.sex }
func (n *npcDef) HP() int32                 { return n.hp }
func (n *npcDef) MP() int32                 { return n.mp }
func (n *npcDef) HPRegen() float64          { return n.hpRegen }
func (n *npcDef) MPRegen() float64          { return n.mpRegen }
func (n *npcDef) PAtk() int32               { return n.pAtk }
func (n *npcDef) MAtk() int32               { return n.mAtk }
func (n *npcDef) PDef() int32               { return n.pDef }
func (n *npcDef) MDef() int32               { return n.mDef }
func (n *npcDef) AggroRange() int32         { return n.aggroRange }
func (n *npcDef) ClanHelpRange() int32      { return n.clanHelpRange }
func (n *npcDef) RunSpeed() int32           { return n.runSpeed }
func (n *npcDef) AtkSpeed() int32           { return n.atkSpeed }
func (n *npcDef) AtkRange() int32           { return n.atkRange }
func (n *npcDef) BaseExp() int64            { return n.baseExp }
func (n *npcDef) BaseSP() int64             { return n.baseSP }
func (n *npcDef) CollisionRadius() float64  { return n.collisionRadius }
func (n *npcDef) CollisionHeight() float64  { return n.collisionHeight }
func (n *npcDef) IsAggressive() bool        { return n.isAggressive }
func (n *npcDef) FleeThreshold() float64    { return n.fleeThreshold }
func (n *npcDef) Rhand() int32              { return n.rhand }
func (n *npcDef) Lhand() int32              { return n.lhand }
func (n *npcDef) Chest() int32              { return n.chest }
func (n *npcDef) Drops() []dropGroupDef     { return n.drops }
func (n *npcDef) Spoils() []dropGroupDef    { return n.spoils }
func (n *npcDef) Skills() []npcSkillDef     { return n.skills }
func (n *npcDef) Minions() []int32          { return n.minions }
func (n *npcDef) Clans() []string           { return n.clans }

// IsClan reports whether this NPC shares any faction tag with callerClans.
func (n *npcDef) IsClan(callerClans []string) bool {
	for _, c := range n.clans {
		for _, cc := range callerClans {
			if c == cc {
				return true
			}
		}
	}
	return false
}

// IgnoresNpcID reports whether this NPC is configured to ignore faction
// calls originating from the given template ID.
func (n *npcDef) IgnoresNpcID(id int32) bool {
	for _, ignored := range n.ignoreClanNpcIDs {
		if ignored == id {
			return true
		}
	}
	return false
}

var (
	npcTableMu sync.RWMutex
	// NpcTable holds every loaded NPC template, keyed by template ID.
	NpcTable map[int32]*npcDef
)

// GetNpcDef looks up an NPC template by ID. Returns nil if unknown.
func GetNpcDef(templateID int32) *npcDef {
	npcTableMu.RLock()
	defer npcTableMu.RUnlock()
	return NpcTable[templateID]
}

// LoadNpcTemplates seeds the in-memory NPC template table. There is no
// external NPC database to parse; the seed set below covers the mob
// archetypes exercised by AI and spawn integration tests.
func LoadNpcTemplates() error {
	npcTableMu.Lock()
	defer npcTableMu.Unlock()

	NpcTable = map[int32]*npcDef{
		20001: {
			id: 20001, level: 10, name: "Wild Boar", title: "", npcType: "monster",
			race: "animal", sex: "male",
			hp: 340, mp: 0, hpRegen: 0.9, mpRegen: 0,
			pAtk: 25, mAtk: 8, pDef: 30, mDef: 18,
			aggroRange: 300, clanHelpRange: 0,
			runSpeed: 120, atkSpeed: 300, atkRange: 40,
			baseExp: 12, baseSP: 2,
			collisionRadius: 11, collisionHeight: 30,
			isAggressive: false,
			drops: []dropGroupDef{
				{chance: 100, items: []dropItemDef{{itemID: 57, chance: 100, min: 5, max: 20}}},
			},
		},
		20124: {
			id: 20124, level: 20, name: "Ant Soldier", title: "", npcType: "monster",
			race: "insect", sex: "none",
			hp: 1200, mp: 0, hpRegen: 1.5, mpRegen: 0,
			pAtk: 65, mAtk: 15, pDef: 55, mDef: 35,
			aggroRange: 400, clanHelpRange: 500,
			runSpeed: 140, atkSpeed: 330, atkRange: 40,
			baseExp: 55, baseSP: 6,
			collisionRadius: 13, collisionHeight: 32,
			isAggressive: true, fleeThreshold: 0.2,
			clans:            []string{"ant"},
			ignoreClanNpcIDs: nil,
			drops: []dropGroupDef{
				{chance: 100, items: []dropItemDef{{itemID: 57, chance: 100, min: 10, max: 40}}},
				{chance: 40, items: []dropItemDef{{itemID: 1882, chance: 100, min: 1, max: 1}}},
			},
			skills: []npcSkillDef{{skillID: 4051, skillLevel: 1}},
		},
		29001: {
			id: 29001, level: 40, name: "Core", title: "Raid Boss", npcType: "raidboss",
			race: "construct", sex: "none",
			hp: 120000, mp: 2000, hpRegen: 3, mpRegen: 2,
			pAtk: 900, mAtk: 400, pDef: 300, mDef: 200,
			aggroRange: 600, clanHelpRange: 0,
			runSpeed: 110, atkSpeed: 300, atkRange: 60,
			baseExp: 125000, baseSP: 6000,
			collisionRadius: 30, collisionHeight: 60,
			isAggressive: true,
			drops: []dropGroupDef{
				{chance: 100, items: []dropItemDef{{itemID: 57, chance: 100, min: 5000, max: 12000}}},
			},
		},
		29020: {
			id: 29020, level: 60, name: "Queen Ant", title: "Grand Boss", npcType: "grandboss",
			race: "insect", sex: "female",
			hp: 900000, mp: 4000, hpRegen: 5, mpRegen: 3,
			pAtk: 1800, mAtk: 700, pDef: 500, mDef: 350,
			aggroRange: 1000, clanHelpRange: 0,
			runSpeed: 100, atkSpeed: 280, atkRange: 80,
			baseExp: 2500000, baseSP: 120000,
			collisionRadius: 45, collisionHeight: 90,
			isAggressive: true,
		},
	}
	return nil
}

// IsRaidBoss reports whether templateID names a raid boss NPC.
func IsRaidBoss(templateID int32) bool {
	def := GetNpcDef(templateID)
	return def != nil && def.npcType == "raidboss"
}

// IsGrandBoss reports whether templateID names a grand boss NPC.
func IsGrandBoss(templateID int32) bool {
	def := GetNpcDef(templateID)
	return def != nil && def.npcType == "grandboss"
}

// TestNpcSkill is the lightweight skill descriptor used by test setup
// helpers to seed an NPC's innate skill list.
type TestNpcSkill struct {
	SkillID int32
	Level   int32
}

// SetTestNpcDef installs a minimal NPC template for unit tests, bypassing
// LoadNpcTemplates entirely.
func SetTestNpcDef(templateID int32, skills []TestNpcSkill, clans []string) {
	npcTableMu.Lock()
	defer npcTableMu.Unlock()

	if NpcTable == nil {
		NpcTable = make(map[int32]*npcDef)
	}

	defSkills := make([]npcSkillDef, 0, len(skills))
	for _, s := range skills {
		defSkills = append(defSkills, npcSkillDef{skillID: s.SkillID, skillLevel: s.Level})
	}

	NpcTable[templateID] = &npcDef{
		id: templateID, level: 1, name: "TestMob", npcType: "monster",
		hp: 1000, mp: 100, pAtk: 50, mAtk: 20, pDef: 40, mDef: 30,
		aggroRange: 400, clanHelpRange: 500,
		runSpeed: 120, atkSpeed: 300, atkRange: 40,
		baseExp: 10, baseSP: 1,
		skills: defSkills,
		clans:  clans,
	}
}

// DeleteTestNpcDef removes a test NPC template installed by SetTestNpcDef.
func DeleteTestNpcDef(templateID int32) {
	npcTableMu.Lock()
	defer npcTableMu.Unlock()
	delete(NpcTable, templateID)
}

// ClearTestNpcTable wipes the entire NPC template table. Test cleanup only.
func ClearTestNpcTable() {
	npcTableMu.Lock()
	defer npcTableMu.Unlock()
	NpcTable = make(map[int32]*npcDef)
}
