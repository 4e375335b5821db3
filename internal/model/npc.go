package model

import "sync/atomic"

// Npc is a server-controlled creature spawned from an NpcTemplate: a vendor,
// a quest giver, a wandering mob. Monster adds aggression on top of this.
type Npc struct {
	*Character

	templateID int32
	template   *NpcTemplate

	intention atomic.Int32
	targetID  atomic.Uint32

	aggro *AggroList
	spawn *Spawn
}

// NewNpc creates an NPC instance at its template's stats, standing at the
// world origin until placed by a spawn point.
func NewNpc(objectID uint32, templateID int32, template *NpcTemplate) *Npc {
	return &Npc{
		Character:  NewCharacter(objectID, template.Name(), Location{}, template.Level(), template.MaxHP(), template.MaxMP(), 0),
		templateID: templateID,
		template:   template,
		aggro:      NewAggroList(),
	}
}

// TemplateID returns the npc_templates row this instance was spawned from.
func (n *Npc) TemplateID() int32 {
	return n.templateID
}

// Template returns the stat/AI template backing this instance.
func (n *Npc) Template() *NpcTemplate {
	return n.template
}

// PAtk returns physical attack power from the backing template.
func (n *Npc) PAtk() int32 {
	return n.template.PAtk()
}

// PDef returns physical defense from the backing template.
func (n *Npc) PDef() int32 {
	return n.template.PDef()
}

// AtkSpeed returns attack speed from the backing template.
func (n *Npc) AtkSpeed() int32 {
	return n.template.AtkSpeed()
}

// Intention returns the current AI behavior state.
func (n *Npc) Intention() Intention {
	return Intention(n.intention.Load())
}

// SetIntention updates the current AI behavior state.
func (n *Npc) SetIntention(intention Intention) {
	n.intention.Store(int32(intention))
}

// SetTarget records the hated/targeted objectID the AI is currently acting on.
func (n *Npc) SetTarget(objectID uint32) {
	n.targetID.Store(objectID)
}

// ClearTarget drops the current AI target.
func (n *Npc) ClearTarget() {
	n.targetID.Store(0)
}

// Target returns the AI's current target objectID, or 0 if none.
func (n *Npc) Target() uint32 {
	return n.targetID.Load()
}

// AggroList returns the hate table tracking damage/aggro against this NPC.
func (n *Npc) AggroList() *AggroList {
	return n.aggro
}

// Spawn returns the spawn point that produced this instance.
func (n *Npc) Spawn() *Spawn {
	return n.spawn
}

// SetSpawn associates this instance with the spawn point that produced it,
// so a despawn can notify the spawner to schedule a respawn.
func (n *Npc) SetSpawn(spawn *Spawn) {
	n.spawn = spawn
}
