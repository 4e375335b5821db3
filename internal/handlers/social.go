package handlers

import (
	"context"
	"fmt"

	"github.com/wydcore/gameserver/internal/broadcast"
	"github.com/wydcore/gameserver/internal/dispatch"
	"github.com/wydcore/gameserver/internal/model"
	"github.com/wydcore/gameserver/internal/protocol"
	"github.com/wydcore/gameserver/internal/session"
)

// gmAccessLevel is the minimum account access level allowed to run GM
// commands. Command parsing itself is intentionally minimal: only enough
// is implemented to prove the authorization gate works end to end.
const gmAccessLevel = 100

// handleChat routes a chat line to the requested channel: whisper goes to
// one named recipient, party goes to the sender's party, everything else
// (all/shout) goes through area broadcast.
func (d *Deps) handleChat() dispatch.Handler {
	return func(ctx context.Context, s *session.Session, payload []byte) (dispatch.Result, error) {
		player, err := requirePlayer(s)
		if err != nil {
			return dispatch.CloseConnection, err
		}

		req, err := protocol.DecodeChatRequest(payload)
		if err != nil {
			return dispatch.CloseConnection, err
		}

		pkt, err := protocol.NewCreatureSay(int32(player.ObjectID()), player.Name(), req.Channel, req.Text).Write()
		if err != nil {
			return dispatch.Ok, err
		}

		switch req.Channel {
		case protocol.ChatChannelWhisper:
			target, found := d.lookupSessionByCharacterName(req.Target)
			if !found {
				sendSystemMessage(s, systemMessageInvalidTarget)
				return dispatch.Ok, nil
			}
			if err := target.Send(pkt); err != nil {
				return dispatch.Ok, nil
			}
		case protocol.ChatChannelParty:
			if !player.IsInParty() {
				return dispatch.Ok, nil
			}
			d.Broadcast.BroadcastParty(player.GetParty(), pkt, 0)
		default:
			d.Broadcast.BroadcastArea(player.Location().X, player.Location().Y, broadcast.DefaultRadius, pkt, 0)
		}
		return dispatch.Ok, nil
	}
}

// lookupSessionByCharacterName is a thin helper until the registry grows a
// name index; it scans the current snapshot, which is fine at the
// connection counts this server is built for.
func (d *Deps) lookupSessionByCharacterName(name string) (*session.Session, bool) {
	for _, sess := range d.Registry.Snapshot() {
		if p := sess.Player(); p != nil && p.Name() == name {
			return sess, true
		}
	}
	return nil, false
}

// handlePartyInvite sets a pending invite on the target player. The target
// must accept before any party is actually created.
func (d *Deps) handlePartyInvite() dispatch.Handler {
	return func(ctx context.Context, s *session.Session, payload []byte) (dispatch.Result, error) {
		player, err := requirePlayer(s)
		if err != nil {
			return dispatch.CloseConnection, err
		}

		req, err := protocol.DecodePartyTargetRequest(payload)
		if err != nil {
			return dispatch.CloseConnection, err
		}

		if player.IsInParty() && !player.GetParty().IsLeader(player.ObjectID()) {
			sendSystemMessage(s, systemMessageNotPartyLeader)
			return dispatch.Ok, nil
		}
		if player.IsInParty() && player.GetParty().MemberCount() >= model.MaxPartyMembers {
			sendSystemMessage(s, systemMessagePartyFull)
			return dispatch.Ok, nil
		}

		targetObj, ok := d.World.GetObject(req.TargetObjectID)
		if !ok {
			sendSystemMessage(s, systemMessageInvalidTarget)
			return dispatch.Ok, nil
		}
		target, ok := targetObj.Data.(*model.Player)
		if !ok || target.IsInParty() {
			sendSystemMessage(s, systemMessageAlreadyInParty)
			return dispatch.Ok, nil
		}

		lootRule := int32(model.LootRuleFinders)
		if player.IsInParty() {
			lootRule = player.GetParty().LootRule()
		}
		target.SetPendingPartyInvite(&model.PartyInvite{
			FromObjectID: player.ObjectID(),
			FromName:     player.Name(),
			LootRule:     lootRule,
		})
		return dispatch.Ok, nil
	}
}

// handlePartyAccept creates the party (on the first accept) or joins an
// existing one, then tells every current member about the new roster.
func (d *Deps) handlePartyAccept() dispatch.Handler {
	return func(ctx context.Context, s *session.Session, payload []byte) (dispatch.Result, error) {
		player, err := requirePlayer(s)
		if err != nil {
			return dispatch.CloseConnection, err
		}

		invite := player.PendingPartyInvite()
		if invite == nil {
			sendSystemMessage(s, systemMessageNoPendingInvite)
			return dispatch.Ok, nil
		}
		player.ClearPendingPartyInvite()

		leaderObj, ok := d.World.GetObject(invite.FromObjectID)
		if !ok {
			return dispatch.Ok, nil
		}
		leader, ok := leaderObj.Data.(*model.Player)
		if !ok {
			return dispatch.Ok, nil
		}

		party := leader.GetParty()
		if party == nil {
			party = d.Party.CreateParty(leader, invite.LootRule)
			leader.SetParty(party)
		}
		if err := party.AddMember(player); err != nil {
			sendSystemMessage(s, systemMessagePartyFull)
			return dispatch.Ok, nil
		}
		player.SetParty(party)

		names := make([]string, 0, party.MemberCount())
		for _, m := range party.Members() {
			names = append(names, m.Name())
		}
		pkt, err := protocol.NewJoinParty(party.ID(), party.LootRule(), names).Write()
		if err != nil {
			return dispatch.Ok, err
		}
		d.Broadcast.BroadcastParty(party, pkt, 0)
		return dispatch.Ok, nil
	}
}

// handlePartyKick removes a member from the sender's party; only the party
// leader may do this, and leaving one member or none disbands it.
func (d *Deps) handlePartyKick() dispatch.Handler {
	return func(ctx context.Context, s *session.Session, payload []byte) (dispatch.Result, error) {
		player, err := requirePlayer(s)
		if err != nil {
			return dispatch.CloseConnection, err
		}

		req, err := protocol.DecodePartyTargetRequest(payload)
		if err != nil {
			return dispatch.CloseConnection, err
		}

		if !player.IsInParty() {
			return dispatch.Ok, nil
		}
		party := player.GetParty()
		if !party.IsLeader(player.ObjectID()) {
			sendSystemMessage(s, systemMessageNotPartyLeader)
			return dispatch.Ok, nil
		}

		kicked := party.GetMember(req.TargetObjectID)
		if kicked == nil {
			return dispatch.Ok, nil
		}
		party.RemoveMember(req.TargetObjectID)
		kicked.SetParty(nil)

		pkt, err := protocol.NewLeaveParty(int32(req.TargetObjectID)).Write()
		if err != nil {
			return dispatch.Ok, err
		}
		d.Broadcast.BroadcastParty(party, pkt, 0)

		if party.MemberCount() <= 1 {
			for _, m := range party.Members() {
				m.SetParty(nil)
			}
			d.Party.DisbandParty(party.ID())
		}
		return dispatch.Ok, nil
	}
}

// handlePartyInfo resends the full roster to the requesting member; used
// after a client reconnects or just wants to refresh its party window.
func (d *Deps) handlePartyInfo() dispatch.Handler {
	return func(ctx context.Context, s *session.Session, payload []byte) (dispatch.Result, error) {
		player, err := requirePlayer(s)
		if err != nil {
			return dispatch.CloseConnection, err
		}

		if !player.IsInParty() {
			return dispatch.Ok, nil
		}
		party := player.GetParty()

		names := make([]string, 0, party.MemberCount())
		for _, m := range party.Members() {
			names = append(names, m.Name())
		}
		pkt, err := protocol.NewJoinParty(party.ID(), party.LootRule(), names).Write()
		if err != nil {
			return dispatch.Ok, err
		}
		return dispatch.Ok, s.Send(pkt)
	}
}

// handleGmCommand authorizes the caller's account access level before
// running anything. Command dispatch itself is a minimal stub: enough
// surface to prove the gate, not a full admin console.
func (d *Deps) handleGmCommand() dispatch.Handler {
	return func(ctx context.Context, s *session.Session, payload []byte) (dispatch.Result, error) {
		player, err := requirePlayer(s)
		if err != nil {
			return dispatch.CloseConnection, err
		}

		req, err := protocol.DecodeGmCommandRequest(payload)
		if err != nil {
			return dispatch.CloseConnection, err
		}

		acc, err := d.AccountRepo.GetAccount(ctx, s.AccountName())
		if err != nil {
			return dispatch.Ok, fmt.Errorf("gm command: %w", err)
		}
		if acc == nil || acc.AccessLevel < gmAccessLevel {
			sendSystemMessage(s, systemMessageAccessDenied)
			return dispatch.Ok, nil
		}

		switch req.Command {
		case "heal":
			player.SetCurrentHP(player.MaxHP())
			pkt, err := protocol.NewStatusUpdateForTarget(player.Character).Write()
			if err != nil {
				return dispatch.Ok, err
			}
			return dispatch.Ok, s.Send(pkt)
		default:
			sendSystemMessage(s, systemMessageInvalidTarget)
			return dispatch.Ok, nil
		}
	}
}
