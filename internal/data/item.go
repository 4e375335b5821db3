package data

import "sync"

// itemDef is a single item template: combat stats for weapons/armor plus
// the trade and stacking flags every item carries regardless of type.
type itemDef struct {
	id              int32
	name            string
	itemType        string
	weight          int32
	isStackable     bool
	isTradeable     bool
	isQuestItem     bool
	bodyPart        string
	reuseDelay      int32

	// weapon-only fields
	pAtk         int32
	attackRange  int32
	weaponType   string
	soulShots    int32
	spiritShots  int32
	critRate     int32
	randomDamage int32

	// armor-only fields
	pDef int32

	crystalType string
}

func (i *itemDef) ID() int32            { return i.id }
func (i *itemDef) Name() string         { return i.name }
func (i *itemDef) Type() string         { return i.itemType }
func (i *itemDef) PAtk() int32          { return i.pAtk }
func (i *itemDef) AttackRange() int32   { return i.attackRange }
func (i *itemDef) PDef() int32          { return i.pDef }
func (i *itemDef) Weight() int32        { return i.weight }
func (i *itemDef) IsStackable() bool    { return i.isStackable }
func (i *itemDef) IsTradeable() bool    { return i.isTradeable }
func (i *itemDef) SoulShots() int32     { return i.soulShots }
func (i *itemDef) SpiritShots() int32   { return i.spiritShots }
func (i *itemDef) CrystalType() string  { return i.crystalType }
func (i *itemDef) WeaponType() string   { return i.weaponType }
func (i *itemDef) ReuseDelay() int32    { return i.reuseDelay }
func (i *itemDef) BodyPart() string     { return i.bodyPart }
func (i *itemDef) IsQuestItem() bool    { return i.isQuestItem }
func (i *itemDef) CritRate() int32      { return i.critRate }
func (i *itemDef) RandomDamage() int32  { return i.randomDamage }

var (
	itemTableMu sync.RWMutex
	// ItemTable holds every loaded item template, keyed by item ID.
	ItemTable map[int32]*itemDef
)

// GetItemDef looks up an item template by ID. Returns nil if unknown.
func GetItemDef(itemID int32) *itemDef {
	itemTableMu.RLock()
	defer itemTableMu.RUnlock()
	return ItemTable[itemID]
}

// LoadItemTemplates seeds the in-memory item template table. There is no
// external item database to parse; the seed set below covers the
// weapon/consumable archetypes exercised by combat and item-handler tests.
func LoadItemTemplates() error {
	itemTableMu.Lock()
	defer itemTableMu.Unlock()

	ItemTable = map[int32]*itemDef{
		57: {id: 57, name: "Adena", itemType: "etc", weight: 0, isStackable: true, isTradeable: true},
		1882: {id: 1882, name: "Mystery Chest", itemType: "etc", weight: 20, isStackable: true, isTradeable: true},
		2501: {
			id: 2501, name: "Sword of Damascus", itemType: "weapon", weight: 1400,
			isTradeable: true, bodyPart: "rhand", weaponType: "sword",
			pAtk: 42, attackRange: 40, soulShots: 1, spiritShots: 1,
			critRate: 12, randomDamage: 20, crystalType: "D",
		},
		2509: {
			id: 2509, name: "Bow of Peril", itemType: "weapon", weight: 1500,
			isTradeable: true, bodyPart: "rhand", weaponType: "bow",
			pAtk: 68, attackRange: 500, soulShots: 1, spiritShots: 1,
			critRate: 8, randomDamage: 20, crystalType: "C",
		},
		2132: {
			id: 2132, name: "Tunic of Leather", itemType: "armor", weight: 1000,
			isTradeable: true, bodyPart: "chest", pDef: 20, crystalType: "D",
		},
		1463: {id: 1463, name: "Soulshot: No Grade", itemType: "etc", weight: 10, isStackable: true, isTradeable: true, crystalType: "NONE"},
		1835: {id: 1835, name: "Soulshot: D-grade", itemType: "etc", weight: 10, isStackable: true, isTradeable: true, crystalType: "D"},
		5789: {id: 5789, name: "Elixir of Life", itemType: "etc", weight: 50, isStackable: true, isTradeable: true},
		736:  {id: 736, name: "Scroll of Escape", itemType: "etc", weight: 100, isStackable: true, isTradeable: true},
	}
	return nil
}
