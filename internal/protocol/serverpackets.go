package protocol

import "github.com/wydcore/gameserver/internal/model"

// Outbound opcodes. Only the subset actually produced by the combat, skill,
// and experience subsystems — not a mirror of the legacy client's full
// packet catalogue.
const (
	OpcodeAttack            uint16 = 0x0101
	OpcodeStatusUpdate      uint16 = 0x0102
	OpcodeItemOnGround      uint16 = 0x0103
	OpcodeDeleteObject      uint16 = 0x0104
	OpcodeAutoAttackStop    uint16 = 0x0105
	OpcodeSystemMessage     uint16 = 0x0106
	OpcodeSocialAction      uint16 = 0x0107
	OpcodeSkillList         uint16 = 0x0108
	OpcodeUserInfo          uint16 = 0x0109
	OpcodeDie               uint16 = 0x010A
	OpcodeMagicSkillUse     uint16 = 0x010B
	OpcodeMagicSkillLaunched uint16 = 0x010C
	OpcodeMoveToLocation    uint16 = 0x010D
	OpcodeCreatureSay       uint16 = 0x010E
	OpcodeJoinParty         uint16 = 0x010F
	OpcodeLeaveParty        uint16 = 0x0110
	// OpcodeKeyPacket is the first packet ever sent to a newly accepted
	// connection: the per-session obfuscation key. It travels unencrypted
	// (GameCrypt.Encrypt's first call is a deliberate no-op for exactly
	// this packet) and carries client_id 0, since the session has not yet
	// been told its own id.
	OpcodeKeyPacket uint16 = 0x002E
)

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// attackHit is one target entry inside an Attack packet.
type attackHit struct {
	targetID uint32
	damage   int32
	miss     bool
	crit     bool
}

// Attack reports one or more simultaneous hits from a single attacker.
type Attack struct {
	attackerID uint32
	loc        model.Location
	hits       []attackHit
}

// NewAttack builds an Attack packet for a player attacker.
func NewAttack(attacker *model.Player, target *model.WorldObject) *Attack {
	return &Attack{attackerID: attacker.ObjectID(), loc: attacker.Location()}
}

// NewNpcAttack builds an Attack packet for an NPC attacker at npcLoc.
func NewNpcAttack(npcObjID uint32, npcLoc model.Location, target *model.WorldObject) *Attack {
	return &Attack{attackerID: npcObjID, loc: npcLoc}
}

// AddHit appends one target's outcome to the attack.
func (a *Attack) AddHit(targetID uint32, damage int32, miss, crit bool) {
	a.hits = append(a.hits, attackHit{targetID: targetID, damage: damage, miss: miss, crit: crit})
}

func (a *Attack) Write() ([]byte, error) {
	w := NewWriter(16 + len(a.hits)*10)
	w.WriteInt(int32(a.attackerID))
	w.WriteInt(a.loc.X)
	w.WriteInt(a.loc.Y)
	w.WriteInt(a.loc.Z)
	w.WriteByte(byte(len(a.hits)))
	for _, h := range a.hits {
		w.WriteInt(int32(h.targetID))
		w.WriteInt(h.damage)
		w.WriteBool(h.miss)
		w.WriteBool(h.crit)
	}
	return sealPayload(OpcodeAttack, w), nil
}

// StatusUpdate reports a character's current HP/MP/CP after a change.
type StatusUpdate struct {
	objectID         uint32
	curHP, maxHP     int32
	curMP, maxMP     int32
	curCP, maxCP     int32
}

// NewStatusUpdateForTarget snapshots a character's vitals for broadcast.
func NewStatusUpdateForTarget(target *model.Character) *StatusUpdate {
	return &StatusUpdate{
		objectID: target.ObjectID(),
		curHP:    target.CurrentHP(), maxHP: target.MaxHP(),
		curMP: target.CurrentMP(), maxMP: target.MaxMP(),
		curCP: target.CurrentCP(), maxCP: target.MaxCP(),
	}
}

func (p *StatusUpdate) Write() ([]byte, error) {
	w := NewWriter(28)
	w.WriteInt(int32(p.objectID))
	w.WriteInt(p.curHP)
	w.WriteInt(p.maxHP)
	w.WriteInt(p.curMP)
	w.WriteInt(p.maxMP)
	w.WriteInt(p.curCP)
	w.WriteInt(p.maxCP)
	return sealPayload(OpcodeStatusUpdate, w), nil
}

// ItemOnGround announces a dropped item lying in the world.
type ItemOnGround struct {
	objectID uint32
	itemType int32
	count    int32
	loc      model.Location
}

func NewItemOnGround(dropped *model.DroppedItem) *ItemOnGround {
	return &ItemOnGround{
		objectID: dropped.ObjectID(),
		itemType: dropped.Item().ItemType(),
		count:    dropped.Item().Count(),
		loc:      dropped.Location(),
	}
}

func (p *ItemOnGround) Write() ([]byte, error) {
	w := NewWriter(20)
	w.WriteInt(int32(p.objectID))
	w.WriteInt(p.itemType)
	w.WriteInt(p.count)
	w.WriteInt(p.loc.X)
	w.WriteInt(p.loc.Y)
	w.WriteInt(p.loc.Z)
	return sealPayload(OpcodeItemOnGround, w), nil
}

// DeleteObject tells the client an object has left the world.
type DeleteObject struct {
	ObjectID int32
}

func NewDeleteObject(objID int32) *DeleteObject { return &DeleteObject{ObjectID: objID} }

func (p *DeleteObject) Write() ([]byte, error) {
	w := NewWriter(4)
	w.WriteInt(p.ObjectID)
	return sealPayload(OpcodeDeleteObject, w), nil
}

// AutoAttackStop tells the client to drop the attacker's combat stance.
type AutoAttackStop struct {
	ObjectID uint32
}

func NewAutoAttackStop(objID uint32) *AutoAttackStop { return &AutoAttackStop{ObjectID: objID} }

func (p *AutoAttackStop) Write() ([]byte, error) {
	w := NewWriter(4)
	w.WriteInt(int32(p.ObjectID))
	return sealPayload(OpcodeAutoAttackStop, w), nil
}

// System message ids used by the experience/level-up flow.
const (
	SysMsgYourLevelHasIncreased  int32 = 1
	SysMsgYouEarnedS1ExpAndS2SP  int32 = 2
	SysMsgYouEarnedS1Exp         int32 = 3
	SysMsgYouAcquiredS1SP        int32 = 4
)

// SystemMessage is a localized client message with optional numeric params.
type SystemMessage struct {
	id      int32
	numbers []int64
}

func NewSystemMessage(id int32) *SystemMessage { return &SystemMessage{id: id} }

// AddNumber appends a %s1/%s2/... substitution parameter and returns the
// message for chaining.
func (m *SystemMessage) AddNumber(n int64) *SystemMessage {
	m.numbers = append(m.numbers, n)
	return m
}

func (m *SystemMessage) Write() ([]byte, error) {
	w := NewWriter(8 + len(m.numbers)*8)
	w.WriteInt(m.id)
	w.WriteByte(byte(len(m.numbers)))
	for _, n := range m.numbers {
		w.WriteLong(n)
	}
	return sealPayload(OpcodeSystemMessage, w), nil
}

// SocialAction ids.
const SocialActionLevelUp int32 = 2122

// SocialAction plays an emote/animation on an object.
type SocialAction struct {
	ObjectID int32
	ActionID int32
}

func NewSocialAction(objID int32, actionID int32) *SocialAction {
	return &SocialAction{ObjectID: objID, ActionID: actionID}
}

func (p *SocialAction) Write() ([]byte, error) {
	w := NewWriter(8)
	w.WriteInt(p.ObjectID)
	w.WriteInt(p.ActionID)
	return sealPayload(OpcodeSocialAction, w), nil
}

// SkillList sends a player's full known-skill set, e.g. after learning a
// new skill on level-up.
type SkillList struct {
	skills []*model.SkillInfo
}

func NewSkillList(skills []*model.SkillInfo) *SkillList {
	return &SkillList{skills: skills}
}

func (p *SkillList) Write() ([]byte, error) {
	w := NewWriter(4 + len(p.skills)*9)
	w.WriteShort(int16(len(p.skills)))
	for _, s := range p.skills {
		w.WriteBool(s.Passive)
		w.WriteInt(s.SkillID)
		w.WriteShort(int16(s.Level))
	}
	return sealPayload(OpcodeSkillList, w), nil
}

// UserInfo is the full stat refresh sent to a player's own client.
type UserInfo struct {
	objectID            uint32
	name                string
	level               int32
	classID             int32
	exp, sp             int64
	curHP, maxHP         int32
	curMP, maxMP         int32
	curCP, maxCP         int32
	loc                 model.Location
}

func NewUserInfo(player *model.Player) *UserInfo {
	return &UserInfo{
		objectID: player.ObjectID(), name: player.Name(),
		level: player.Level(), classID: player.ClassID(),
		exp: player.Experience(), sp: player.SP(),
		curHP: player.CurrentHP(), maxHP: player.MaxHP(),
		curMP: player.CurrentMP(), maxMP: player.MaxMP(),
		curCP: player.CurrentCP(), maxCP: player.MaxCP(),
		loc: player.Location(),
	}
}

func (p *UserInfo) Write() ([]byte, error) {
	w := NewWriter(64)
	w.WriteInt(int32(p.objectID))
	w.WriteString(p.name)
	w.WriteInt(p.level)
	w.WriteInt(p.classID)
	w.WriteLong(p.exp)
	w.WriteLong(p.sp)
	w.WriteInt(p.curHP)
	w.WriteInt(p.maxHP)
	w.WriteInt(p.curMP)
	w.WriteInt(p.maxMP)
	w.WriteInt(p.curCP)
	w.WriteInt(p.maxCP)
	w.WriteInt(p.loc.X)
	w.WriteInt(p.loc.Y)
	w.WriteInt(p.loc.Z)
	return sealPayload(OpcodeUserInfo, w), nil
}

// Die notifies the client that a character has died.
type Die struct {
	ObjectID    int32
	CanTeleport bool
}

func (p *Die) Write() ([]byte, error) {
	w := NewWriter(8)
	w.WriteInt(p.ObjectID)
	w.WriteBool(p.CanTeleport)
	return sealPayload(OpcodeDie, w), nil
}

// MagicSkillUse announces the start of a skill cast (cast-bar animation).
type MagicSkillUse struct {
	casterID, targetID uint32
	skillID, level     int32
	hitTime, reuseDelay int32
	x, y, z            int32
}

func NewMagicSkillUse(casterID, targetID int32, skillID, level, hitTime, reuseDelay, x, y, z int32) *MagicSkillUse {
	return &MagicSkillUse{
		casterID: uint32(casterID), targetID: uint32(targetID),
		skillID: skillID, level: level,
		hitTime: hitTime, reuseDelay: reuseDelay,
		x: x, y: y, z: z,
	}
}

func (p *MagicSkillUse) Write() ([]byte, error) {
	w := NewWriter(40)
	w.WriteInt(int32(p.casterID))
	w.WriteInt(int32(p.targetID))
	w.WriteInt(p.skillID)
	w.WriteInt(p.level)
	w.WriteInt(p.hitTime)
	w.WriteInt(p.reuseDelay)
	w.WriteInt(p.x)
	w.WriteInt(p.y)
	w.WriteInt(p.z)
	return sealPayload(OpcodeMagicSkillUse, w), nil
}

// MagicSkillLaunched announces the skill's effect landing on its targets.
type MagicSkillLaunched struct {
	casterID       int32
	skillID, level int32
	targetIDs      []int32
}

func NewMagicSkillLaunched(casterID, skillID, level int32, targetIDs []int32) *MagicSkillLaunched {
	return &MagicSkillLaunched{casterID: casterID, skillID: skillID, level: level, targetIDs: targetIDs}
}

func (p *MagicSkillLaunched) Write() ([]byte, error) {
	w := NewWriter(16 + len(p.targetIDs)*4)
	w.WriteInt(p.casterID)
	w.WriteInt(p.skillID)
	w.WriteInt(p.level)
	w.WriteByte(byte(len(p.targetIDs)))
	for _, id := range p.targetIDs {
		w.WriteInt(id)
	}
	return sealPayload(OpcodeMagicSkillLaunched, w), nil
}

// MoveToLocation announces an object's new destination and origin, letting
// every observing client interpolate the same path.
type MoveToLocation struct {
	ObjectID                 uint32
	DestX, DestY, DestZ      int32
	OriginX, OriginY, OriginZ int32
}

func NewMoveToLocation(objectID uint32, dest, origin model.Location) *MoveToLocation {
	return &MoveToLocation{
		ObjectID: objectID,
		DestX: dest.X, DestY: dest.Y, DestZ: dest.Z,
		OriginX: origin.X, OriginY: origin.Y, OriginZ: origin.Z,
	}
}

func (p *MoveToLocation) Write() ([]byte, error) {
	w := NewWriter(28)
	w.WriteInt(int32(p.ObjectID))
	w.WriteInt(p.DestX)
	w.WriteInt(p.DestY)
	w.WriteInt(p.DestZ)
	w.WriteInt(p.OriginX)
	w.WriteInt(p.OriginY)
	w.WriteInt(p.OriginZ)
	return sealPayload(OpcodeMoveToLocation, w), nil
}

// Chat channel ids, matching the client's tab routing.
const (
	ChatChannelAll    int32 = 0
	ChatChannelShout  int32 = 1
	ChatChannelParty  int32 = 2
	ChatChannelWhisper int32 = 3
)

// CreatureSay carries one chat line from a speaker to its recipients.
type CreatureSay struct {
	SpeakerObjectID int32
	SpeakerName     string
	Channel         int32
	Text            string
}

func NewCreatureSay(speakerObjectID int32, speakerName string, channel int32, text string) *CreatureSay {
	return &CreatureSay{SpeakerObjectID: speakerObjectID, SpeakerName: speakerName, Channel: channel, Text: text}
}

func (p *CreatureSay) Write() ([]byte, error) {
	w := NewWriter(16 + len(p.SpeakerName) + len(p.Text))
	w.WriteInt(p.SpeakerObjectID)
	w.WriteString(p.SpeakerName)
	w.WriteInt(p.Channel)
	w.WriteString(p.Text)
	return sealPayload(OpcodeCreatureSay, w), nil
}

// JoinParty tells a newly joined member's client about the party it is in.
type JoinParty struct {
	PartyID  int32
	LootRule int32
	Members  []string
}

func NewJoinParty(partyID, lootRule int32, members []string) *JoinParty {
	return &JoinParty{PartyID: partyID, LootRule: lootRule, Members: members}
}

func (p *JoinParty) Write() ([]byte, error) {
	w := NewWriter(16 + len(p.Members)*16)
	w.WriteInt(p.PartyID)
	w.WriteInt(p.LootRule)
	w.WriteByte(byte(len(p.Members)))
	for _, name := range p.Members {
		w.WriteString(name)
	}
	return sealPayload(OpcodeJoinParty, w), nil
}

// LeaveParty tells a client it (or another member) has left the party.
type LeaveParty struct {
	ObjectID int32
}

func NewLeaveParty(objectID int32) *LeaveParty { return &LeaveParty{ObjectID: objectID} }

func (p *LeaveParty) Write() ([]byte, error) {
	w := NewWriter(4)
	w.WriteInt(p.ObjectID)
	return sealPayload(OpcodeLeaveParty, w), nil
}

// sealPayload wraps a finished payload writer into a framed, checksummed
// packet. clientID is left at zero here: the session layer that owns the
// per-connection id reseals outbound packets with AssignClientID before
// writing them to the wire.
func sealPayload(opcode uint16, w *Writer) []byte {
	payload := w.Bytes()
	buf := make([]byte, HeaderSize+len(payload))
	copy(buf[HeaderSize:], payload)
	return Seal(buf, opcode, 0, len(payload))
}

// KeyPacket carries the fresh per-connection GameCrypt key to the client,
// along with the protocol version the server speaks.
type KeyPacket struct {
	ProtocolVersion int32
	Key             []byte // 16 bytes
}

// NewKeyPacket builds the handshake packet for a freshly generated key.
func NewKeyPacket(protocolVersion int32, key []byte) *KeyPacket {
	return &KeyPacket{ProtocolVersion: protocolVersion, Key: key}
}

func (k *KeyPacket) Write() ([]byte, error) {
	w := NewWriter(4 + len(k.Key))
	w.WriteInt(k.ProtocolVersion)
	w.WriteBytes(k.Key)
	return sealPayload(OpcodeKeyPacket, w), nil
}

// AssignClientID reseals an already-framed packet with the given per-session
// client id and recomputed checksum, without touching its payload.
func AssignClientID(packet []byte, clientID uint16) []byte {
	hdr := ParseHeader(packet)
	hdr.ClientID = clientID
	PutHeader(packet, hdr)
	return Seal(packet, hdr.Opcode, clientID, len(packet)-HeaderSize)
}
