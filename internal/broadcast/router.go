// Package broadcast fans framed outbound packets out to sessions, either by
// direct address (one character) or by world visibility (everyone who can
// currently see a location), reusing the world package's region grid instead
// of scanning every connected session.
package broadcast

import (
	"log/slog"

	"github.com/wydcore/gameserver/internal/model"
	"github.com/wydcore/gameserver/internal/session"
	"github.com/wydcore/gameserver/internal/world"
)

// Router ties the session registry (who is connected) to the world grid
// (who can see what) so callers never touch either directly.
type Router struct {
	registry *session.Registry
	world    *world.World
}

// DefaultRadius is the visibility radius area broadcasts use when a caller
// has no sight-range of its own (chat, movement, item pickup/drop). Combat
// and AI callers that have a template- or skill-specific range pass that
// instead.
const DefaultRadius int32 = 16

// New creates a router over a session registry and the world grid it should
// query for area broadcasts.
func New(registry *session.Registry, w *world.World) *Router {
	return &Router{registry: registry, world: w}
}

// sendTo resolves characterID to its owning session and queues packet on it.
// Silently drops the packet if the character has no live session (logged out
// mid-broadcast, or never had one — an NPC-only WorldObject).
func (r *Router) sendTo(characterID int64, packet []byte) {
	s, ok := r.registry.LookupByCharacter(characterID)
	if !ok {
		return
	}
	if err := s.Send(packet); err != nil {
		slog.Debug("broadcast: send failed", "character", characterID, "error", err)
	}
}

// Send unicasts packet to the single session controlling characterID.
func (r *Router) Send(characterID int64, packet []byte) {
	r.sendTo(characterID, packet)
}

// BroadcastArea delivers packet to every player-controlled session within
// radius game units of (x, y). world.ForEachVisibleObject supplies the
// coarse candidate set (the object's own region plus its 3x3 surrounding
// window); BroadcastArea then applies the real distance check so a radius
// smaller than a region's 2048-unit span actually excludes far candidates
// sharing the same region. exceptObjectID, if non-zero, is skipped (the
// common "tell everyone but the one who triggered this" case).
func (r *Router) BroadcastArea(x, y int32, radius int32, packet []byte, exceptObjectID uint32) {
	radiusSq := int64(radius) * int64(radius)
	world.ForEachVisibleObject(r.world, x, y, func(obj *model.WorldObject) bool {
		if obj.ObjectID() == exceptObjectID {
			return true
		}
		player, ok := obj.Data.(*model.Player)
		if !ok {
			return true
		}
		if planarDistanceSquared(x, y, obj.Location()) > radiusSq {
			return true
		}
		r.sendTo(player.CharacterID(), packet)
		return true
	})
}

// planarDistanceSquared computes ground-plane distance (x/y only, ignoring
// elevation) from (x, y) to loc — area broadcast radius is a 2D check.
func planarDistanceSquared(x, y int32, loc model.Location) int64 {
	dx := int64(loc.X - x)
	dy := int64(loc.Y - y)
	return dx*dx + dy*dy
}

// BroadcastParty delivers packet to every member of party, optionally
// skipping exceptObjectID.
func (r *Router) BroadcastParty(party *model.Party, packet []byte, exceptObjectID uint32) {
	if party == nil {
		return
	}
	for _, member := range party.Members() {
		if member.ObjectID() == exceptObjectID {
			continue
		}
		r.sendTo(member.CharacterID(), packet)
	}
}

// BroadcastGuild delivers packet to the given guild roster. Guild
// membership storage is out of scope here; callers (the guild subsystem)
// supply the current member character id list.
func (r *Router) BroadcastGuild(memberCharacterIDs []int64, packet []byte, exceptCharacterID int64) {
	for _, id := range memberCharacterIDs {
		if id == exceptCharacterID {
			continue
		}
		r.sendTo(id, packet)
	}
}

// BroadcastAll delivers packet to every session currently in StateInGame —
// a server-wide announcement, used sparingly (GM broadcast, shutdown
// warning).
func (r *Router) BroadcastAll(packet []byte) {
	for _, s := range r.registry.Snapshot() {
		if s.State() != session.StateInGame {
			continue
		}
		if err := s.Send(packet); err != nil {
			slog.Debug("broadcast: send-all failed", "session", s.ID(), "error", err)
		}
	}
}
