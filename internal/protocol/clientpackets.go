package protocol

import "fmt"

// Inbound opcodes: the client -> server catalogue a handler table is built
// against. Unlike the outbound set, several of these arrive only in a
// specific lifecycle state (enforced by dispatch.Table, not here).
const (
	OpcodeAccountLogin    uint16 = 0x0001
	OpcodeCharacterLogin  uint16 = 0x0002
	OpcodeKeepAlive       uint16 = 0x0003
	OpcodeLogout          uint16 = 0x0004
	OpcodeMove            uint16 = 0x0005
	OpcodeAttackRequest   uint16 = 0x0006
	OpcodeSkillUse        uint16 = 0x0007
	OpcodeItemUse         uint16 = 0x0008
	OpcodeItemEquip       uint16 = 0x0009
	OpcodeItemDrop        uint16 = 0x000A
	OpcodeItemGet         uint16 = 0x000B
	OpcodeShopBuy         uint16 = 0x000C
	OpcodeShopSell        uint16 = 0x000D
	OpcodeChat            uint16 = 0x000E
	OpcodePartyInvite     uint16 = 0x000F
	OpcodePartyAccept     uint16 = 0x0010
	OpcodePartyKick       uint16 = 0x0011
	OpcodePartyInfo       uint16 = 0x0013
	OpcodeGmCommand       uint16 = 0x0012
)

// AccountLoginRequest carries the client's login/password pair. The
// password travels in cleartext inside the encrypted payload, matching the
// legacy client — there is no separate TLS layer at this protocol level.
type AccountLoginRequest struct {
	Login    string
	Password string
}

func DecodeAccountLoginRequest(payload []byte) (*AccountLoginRequest, error) {
	r := NewReader(payload)
	login, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("decode account login: login: %w", err)
	}
	password, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("decode account login: password: %w", err)
	}
	return &AccountLoginRequest{Login: login, Password: password}, nil
}

// CharacterLoginRequest selects which character to enter the world as.
type CharacterLoginRequest struct {
	CharacterID int64
}

func DecodeCharacterLoginRequest(payload []byte) (*CharacterLoginRequest, error) {
	r := NewReader(payload)
	id, err := r.ReadLong()
	if err != nil {
		return nil, fmt.Errorf("decode character login: %w", err)
	}
	return &CharacterLoginRequest{CharacterID: id}, nil
}

// MoveRequest is the client's requested destination, matching the teacher's
// client-authoritative-target movement model (the server validates and
// corrects, it does not dead-reckon independently).
type MoveRequest struct {
	TargetX, TargetY, TargetZ int32
}

func DecodeMoveRequest(payload []byte) (*MoveRequest, error) {
	r := NewReader(payload)
	x, err := r.ReadInt()
	if err != nil {
		return nil, fmt.Errorf("decode move: x: %w", err)
	}
	y, err := r.ReadInt()
	if err != nil {
		return nil, fmt.Errorf("decode move: y: %w", err)
	}
	z, err := r.ReadInt()
	if err != nil {
		return nil, fmt.Errorf("decode move: z: %w", err)
	}
	return &MoveRequest{TargetX: x, TargetY: y, TargetZ: z}, nil
}

// AttackRequest names the world object the client wants to attack.
type AttackRequest struct {
	TargetObjectID uint32
}

func DecodeAttackRequest(payload []byte) (*AttackRequest, error) {
	r := NewReader(payload)
	id, err := r.ReadInt()
	if err != nil {
		return nil, fmt.Errorf("decode attack: %w", err)
	}
	return &AttackRequest{TargetObjectID: uint32(id)}, nil
}

// SkillUseRequest names the skill and whether it was ctrl/shift-modified
// (force-attack / keep-current-target, matching the teacher's UseMagic).
type SkillUseRequest struct {
	SkillID int32
	Ctrl    bool
	Shift   bool
}

func DecodeSkillUseRequest(payload []byte) (*SkillUseRequest, error) {
	r := NewReader(payload)
	id, err := r.ReadInt()
	if err != nil {
		return nil, fmt.Errorf("decode skill use: id: %w", err)
	}
	ctrl, err := r.ReadBool()
	if err != nil {
		return nil, fmt.Errorf("decode skill use: ctrl: %w", err)
	}
	shift, err := r.ReadBool()
	if err != nil {
		return nil, fmt.Errorf("decode skill use: shift: %w", err)
	}
	return &SkillUseRequest{SkillID: id, Ctrl: ctrl, Shift: shift}, nil
}

// ItemActionRequest covers ItemUse/ItemEquip/ItemDrop/ItemGet: all four
// identify a single item by object id, and drop additionally carries a
// ground location.
type ItemActionRequest struct {
	ItemObjectID uint32
	X, Y, Z      int32
}

func DecodeItemActionRequest(payload []byte) (*ItemActionRequest, error) {
	r := NewReader(payload)
	id, err := r.ReadInt()
	if err != nil {
		return nil, fmt.Errorf("decode item action: id: %w", err)
	}
	req := &ItemActionRequest{ItemObjectID: uint32(id)}
	if r.Remaining() == 0 {
		return req, nil
	}
	if req.X, err = r.ReadInt(); err != nil {
		return nil, fmt.Errorf("decode item action: x: %w", err)
	}
	if req.Y, err = r.ReadInt(); err != nil {
		return nil, fmt.Errorf("decode item action: y: %w", err)
	}
	if req.Z, err = r.ReadInt(); err != nil {
		return nil, fmt.Errorf("decode item action: z: %w", err)
	}
	return req, nil
}

// ShopTransactionRequest names an item template and quantity for a buy or
// sell against the NPC the player currently has targeted.
type ShopTransactionRequest struct {
	ItemID int32
	Count  int32
}

func DecodeShopTransactionRequest(payload []byte) (*ShopTransactionRequest, error) {
	r := NewReader(payload)
	itemID, err := r.ReadInt()
	if err != nil {
		return nil, fmt.Errorf("decode shop transaction: item id: %w", err)
	}
	count, err := r.ReadInt()
	if err != nil {
		return nil, fmt.Errorf("decode shop transaction: count: %w", err)
	}
	return &ShopTransactionRequest{ItemID: itemID, Count: count}, nil
}

// ChatRequest is one chat line, tagged with a channel (all/shout/party/
// whisper by target name).
type ChatRequest struct {
	Channel int32
	Target  string
	Text    string
}

func DecodeChatRequest(payload []byte) (*ChatRequest, error) {
	r := NewReader(payload)
	channel, err := r.ReadInt()
	if err != nil {
		return nil, fmt.Errorf("decode chat: channel: %w", err)
	}
	target, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("decode chat: target: %w", err)
	}
	text, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("decode chat: text: %w", err)
	}
	return &ChatRequest{Channel: channel, Target: target, Text: text}, nil
}

// PartyTargetRequest names a character by object id: invite a target,
// accept/decline a pending invite, or kick a member.
type PartyTargetRequest struct {
	TargetObjectID uint32
}

func DecodePartyTargetRequest(payload []byte) (*PartyTargetRequest, error) {
	r := NewReader(payload)
	id, err := r.ReadInt()
	if err != nil {
		return nil, fmt.Errorf("decode party target: %w", err)
	}
	return &PartyTargetRequest{TargetObjectID: uint32(id)}, nil
}

// GmCommandRequest is a raw admin command line, authorized by the caller's
// account access level before the handler ever sees it.
type GmCommandRequest struct {
	Command string
}

func DecodeGmCommandRequest(payload []byte) (*GmCommandRequest, error) {
	r := NewReader(payload)
	cmd, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("decode gm command: %w", err)
	}
	return &GmCommandRequest{Command: cmd}, nil
}
