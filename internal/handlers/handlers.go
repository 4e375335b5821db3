// Package handlers builds the opcode dispatch table: one thin function per
// opcode that decodes its payload, calls into the relevant subsystem
// (combat, skill, party, itemhandler), and returns the dispatch result enum.
// Registration itself happens once at boot in cmd/gameserver; nothing here
// is a package-level global.
package handlers

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/wydcore/gameserver/internal/broadcast"
	"github.com/wydcore/gameserver/internal/db"
	"github.com/wydcore/gameserver/internal/dispatch"
	"github.com/wydcore/gameserver/internal/flood"
	"github.com/wydcore/gameserver/internal/game/combat"
	"github.com/wydcore/gameserver/internal/game/party"
	"github.com/wydcore/gameserver/internal/game/quest"
	"github.com/wydcore/gameserver/internal/game/skill"
	"github.com/wydcore/gameserver/internal/model"
	"github.com/wydcore/gameserver/internal/protocol"
	"github.com/wydcore/gameserver/internal/session"
	"github.com/wydcore/gameserver/internal/world"
)

// Deps collects every collaborator a handler might need. It is built once
// in main and handed to Build; handlers close over it but it is never
// mutated after Build returns (the sync.Map fields are the only mutable
// state, and they are safe for concurrent use).
type Deps struct {
	Registry     *session.Registry
	World        *world.World
	Broadcast    *broadcast.Router
	AccountRepo  *db.PostgresAccountRepository
	CharRepo     *db.CharacterRepository
	SkillRepo    *db.SkillRepository
	ItemRepo     *db.ItemRepository
	Combat       *combat.CombatManager
	AttackStance *combat.AttackStanceManager
	Skill        *skill.CastManager
	Party        *party.Manager
	Quest        *quest.Manager

	// NextObjectID allocates process-unique ids for newly entered characters.
	NextObjectID func() uint32

	effects sync.Map // objectID uint32 -> *skill.EffectManager
}

// EffectManager returns the buff/debuff tracker for a character, creating
// one on first use. Passed to skill.NewCastManager as its getEffectManager
// callback.
func (d *Deps) EffectManager(objectID uint32) *skill.EffectManager {
	v, _ := d.effects.LoadOrStore(objectID, skill.NewEffectManager())
	return v.(*skill.EffectManager)
}

// Classify maps an inbound opcode to its flood-control bucket.
func Classify(opcode uint16) flood.Class {
	switch opcode {
	case protocol.OpcodeMove:
		return flood.ClassMovement
	case protocol.OpcodeChat:
		return flood.ClassChat
	case protocol.OpcodeAttackRequest, protocol.OpcodeSkillUse:
		return flood.ClassCombat
	default:
		return flood.ClassDefault
	}
}

// Build registers every opcode handler against a fresh dispatch.Table.
func Build(deps *Deps) *dispatch.Table {
	table := dispatch.NewTable()

	table.Register(protocol.OpcodeAccountLogin, deps.handleAccountLogin(), session.StateAwaitingAuth)
	table.Register(protocol.OpcodeCharacterLogin, deps.handleCharacterLogin(), session.StateCharacterSelect)
	table.Register(protocol.OpcodeKeepAlive, deps.handleKeepAlive(), session.StateInGame, session.StateCharacterSelect, session.StateAuthenticated)
	table.Register(protocol.OpcodeLogout, deps.handleLogout(), session.StateInGame, session.StateCharacterSelect)

	table.Register(protocol.OpcodeMove, deps.handleMove(), session.StateInGame)
	table.Register(protocol.OpcodeAttackRequest, deps.handleAttack(), session.StateInGame)
	table.Register(protocol.OpcodeSkillUse, deps.handleSkillUse(), session.StateInGame)

	table.Register(protocol.OpcodeItemUse, deps.handleItemUse(), session.StateInGame)
	table.Register(protocol.OpcodeItemEquip, deps.handleItemEquip(), session.StateInGame)
	table.Register(protocol.OpcodeItemDrop, deps.handleItemDrop(), session.StateInGame)
	table.Register(protocol.OpcodeItemGet, deps.handleItemGet(), session.StateInGame)

	table.Register(protocol.OpcodeShopBuy, deps.handleShopBuy(), session.StateInGame)
	table.Register(protocol.OpcodeShopSell, deps.handleShopSell(), session.StateInGame)

	table.Register(protocol.OpcodeChat, deps.handleChat(), session.StateInGame)
	table.Register(protocol.OpcodePartyInvite, deps.handlePartyInvite(), session.StateInGame)
	table.Register(protocol.OpcodePartyAccept, deps.handlePartyAccept(), session.StateInGame)
	table.Register(protocol.OpcodePartyKick, deps.handlePartyKick(), session.StateInGame)
	table.Register(protocol.OpcodePartyInfo, deps.handlePartyInfo(), session.StateInGame)

	table.Register(protocol.OpcodeGmCommand, deps.handleGmCommand(), session.StateInGame)

	return table
}

// requirePlayer fetches the session's bound character, closing the
// connection (a handler should never run in StateInGame without one) if
// somehow absent.
func requirePlayer(s *session.Session) (*model.Player, error) {
	p := s.Player()
	if p == nil {
		return nil, fmt.Errorf("handlers: session %d has no bound character", s.ID())
	}
	return p, nil
}

func sendSystemMessage(s *session.Session, id int32) {
	pkt, err := protocol.NewSystemMessage(id).Write()
	if err != nil {
		slog.Error("encoding system message", "error", err)
		return
	}
	if err := s.Send(pkt); err != nil {
		slog.Debug("sending system message", "session", s.ID(), "error", err)
	}
}

