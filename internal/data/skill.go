package data

import "sync"

// TargetType selects who a skill resolves its target against.
type TargetType int32

const (
	TargetNone TargetType = iota
	TargetSelf
	TargetOne
	TargetArea
	TargetParty
	TargetFriendlyParty
)

// OperateType describes how a skill is invoked.
type OperateType int32

const (
	OpActive OperateType = iota
	OpPassive
	OpToggle
)

// EffectDef names one effect a skill applies, with its tunable parameters.
type EffectDef struct {
	Name   string
	Params map[string]string
}

// SkillTemplate is a single skill/level combination: costs, timing, and the
// effect chain it triggers. Exported fields match the read pattern used by
// cast resolution rather than an accessor-method surface, since callers
// build these by literal in tests.
type SkillTemplate struct {
	ID          int32
	Level       int32
	Name        string
	OperateType OperateType
	MagicLevel  int32
	HitTime     int32
	CoolTime    int32
	ReuseDelay  int32
	CastRange   int32
	EffectRange int32
	MpConsume   int32
	HpConsume   int32
	Power       float64
	TargetType  TargetType
	IsMagic     bool

	AbnormalType  int32
	AbnormalLevel int32
	AbnormalTime  int32

	Effects []EffectDef
}

func (t *SkillTemplate) IsPassive() bool { return t.OperateType == OpPassive }
func (t *SkillTemplate) IsToggle() bool  { return t.OperateType == OpToggle }
func (t *SkillTemplate) IsActive() bool  { return t.OperateType == OpActive }

var (
	skillTableMu sync.RWMutex
	// SkillTable holds every loaded skill template, keyed by skill ID then level.
	SkillTable map[int32]map[int32]*SkillTemplate
)

// GetSkillTemplate looks up a skill template by ID and level. Returns nil
// if unknown.
func GetSkillTemplate(skillID, level int32) *SkillTemplate {
	skillTableMu.RLock()
	defer skillTableMu.RUnlock()
	levels := SkillTable[skillID]
	if levels == nil {
		return nil
	}
	return levels[level]
}

// LoadSkills seeds the in-memory skill template table. There is no
// external skill database to parse; the seed set below covers the
// archetypes (melee buff, DoT debuff, heal, passive) exercised by skill
// and item-handler tests.
func LoadSkills() error {
	skillTableMu.Lock()
	defer skillTableMu.Unlock()

	SkillTable = map[int32]map[int32]*SkillTemplate{
		1: {
			1: {
				ID: 1, Level: 1, Name: "Power Strike", OperateType: OpActive,
				HitTime: 1200, ReuseDelay: 6000, CastRange: 40, MpConsume: 12,
				Power: 150, TargetType: TargetOne, IsMagic: false,
			},
		},
		56: {
			1: {
				ID: 56, Level: 1, Name: "Heal", OperateType: OpActive,
				HitTime: 2000, ReuseDelay: 3000, CastRange: 600, MpConsume: 24,
				Power: 200, TargetType: TargetOne, IsMagic: true,
				Effects: []EffectDef{{Name: "Heal", Params: map[string]string{"power": "200"}}},
			},
		},
		1001: {
			1: {
				ID: 1001, Level: 1, Name: "Quick Blow", OperateType: OpActive,
				HitTime: 900, ReuseDelay: 4000, CastRange: 40, MpConsume: 8,
				Power: 90, TargetType: TargetOne,
			},
		},
		4051: {
			1: {
				ID: 4051, Level: 1, Name: "Mass Poison", OperateType: OpActive,
				HitTime: 1500, ReuseDelay: 10000, CastRange: 200, EffectRange: 200,
				MpConsume: 20, TargetType: TargetArea,
				AbnormalType: 1, AbnormalLevel: 1, AbnormalTime: 15,
				Effects: []EffectDef{{Name: "Poison", Params: map[string]string{"power": "20"}}},
			},
		},
		2150: {1: {ID: 2150, Level: 1, Name: "Soulshot: D-grade", OperateType: OpActive, TargetType: TargetSelf}},
		2151: {1: {ID: 2151, Level: 1, Name: "Soulshot: C-grade", OperateType: OpActive, TargetType: TargetSelf}},
		3001: {1: {ID: 3001, Level: 1, Name: "Sprint", OperateType: OpPassive, TargetType: TargetSelf}},
	}
	return nil
}

// SkillLearn names a skill/level grant awarded at a class's minimum level.
type SkillLearn struct {
	SkillID    int32
	SkillLevel int32
	MinLevel   int32
}

var (
	skillTreeMu sync.RWMutex
	skillTrees  map[int32][]SkillLearn
)

// LoadSkillTrees seeds the in-memory per-class auto-get skill tree.
func LoadSkillTrees() error {
	skillTreeMu.Lock()
	defer skillTreeMu.Unlock()

	skillTrees = map[int32][]SkillLearn{
		0: { // Human Fighter
			{SkillID: 1, SkillLevel: 1, MinLevel: 1},
			{SkillID: 3001, SkillLevel: 1, MinLevel: 10},
			{SkillID: 1001, SkillLevel: 1, MinLevel: 20},
		},
	}
	return nil
}

// GetAutoGetSkills returns every skill a class has learned by the given
// level, in ascending MinLevel order.
func GetAutoGetSkills(classID, level int32) []SkillLearn {
	skillTreeMu.RLock()
	defer skillTreeMu.RUnlock()

	var result []SkillLearn
	for _, sl := range skillTrees[classID] {
		if sl.MinLevel <= level {
			result = append(result, sl)
		}
	}
	return result
}

// GetNewAutoGetSkills returns the skills a class gains exactly at the given
// level (used on level-up to grant only what's new).
func GetNewAutoGetSkills(classID, level int32) []SkillLearn {
	skillTreeMu.RLock()
	defer skillTreeMu.RUnlock()

	var result []SkillLearn
	for _, sl := range skillTrees[classID] {
		if sl.MinLevel == level {
			result = append(result, sl)
		}
	}
	return result
}
