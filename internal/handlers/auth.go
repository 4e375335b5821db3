package handlers

import (
	"context"
	"fmt"

	"github.com/wydcore/gameserver/internal/broadcast"
	"github.com/wydcore/gameserver/internal/db"
	"github.com/wydcore/gameserver/internal/dispatch"
	"github.com/wydcore/gameserver/internal/protocol"
	"github.com/wydcore/gameserver/internal/session"
)

// handleAccountLogin checks the account credentials and, on success, moves
// the session through Authenticated to CharacterSelect. No character list
// packet is sent.
func (d *Deps) handleAccountLogin() dispatch.Handler {
	return func(ctx context.Context, s *session.Session, payload []byte) (dispatch.Result, error) {
		req, err := protocol.DecodeAccountLoginRequest(payload)
		if err != nil {
			return dispatch.CloseConnection, err
		}

		acc, err := d.AccountRepo.GetAccount(ctx, req.Login)
		if err != nil {
			return dispatch.CloseConnection, fmt.Errorf("account login: %w", err)
		}
		if acc == nil {
			acc, err = d.AccountRepo.GetOrCreateAccount(ctx, req.Login, db.HashPassword(req.Password), s.IP())
			if err != nil {
				return dispatch.CloseConnection, fmt.Errorf("account login: creating account: %w", err)
			}
		} else if acc.PasswordHash != db.HashPassword(req.Password) {
			sendSystemMessage(s, systemMessageAuthFailed)
			return dispatch.CloseConnection, nil
		}

		// A second login for an already-connected account closes the older
		// session (stale or zombie) rather than rejecting the new one, so a
		// legitimately reconnecting player is never the one turned away.
		if existing, ok := d.Registry.LookupByAccount(acc.Login); ok && existing.ID() != s.ID() {
			sendSystemMessage(existing, systemMessageAlreadyLoggedIn)
			existing.CloseAsync()
		}

		s.SetAccountName(acc.Login)
		d.Registry.BindAccount(acc.Login, s)

		if err := s.Transition(session.StateAuthenticated); err != nil {
			return dispatch.CloseConnection, err
		}
		if err := s.Transition(session.StateCharacterSelect); err != nil {
			return dispatch.CloseConnection, err
		}
		return dispatch.Ok, nil
	}
}

// handleCharacterLogin loads the chosen character, binds it to the session,
// spawns it into the world, and completes the EnteringWorld -> InGame edge.
func (d *Deps) handleCharacterLogin() dispatch.Handler {
	return func(ctx context.Context, s *session.Session, payload []byte) (dispatch.Result, error) {
		req, err := protocol.DecodeCharacterLoginRequest(payload)
		if err != nil {
			return dispatch.CloseConnection, err
		}

		player, err := d.CharRepo.LoadByID(ctx, req.CharacterID)
		if err != nil {
			return dispatch.CloseConnection, fmt.Errorf("character login: %w", err)
		}
		if player == nil {
			sendSystemMessage(s, systemMessageCharacterNotFound)
			return dispatch.CloseConnection, nil
		}

		skills, err := d.SkillRepo.LoadByCharacterID(ctx, player.CharacterID())
		if err != nil {
			return dispatch.CloseConnection, fmt.Errorf("character login: loading skills: %w", err)
		}
		for _, sk := range skills {
			player.AddSkill(sk.SkillID, sk.Level, sk.Passive)
		}

		items, err := d.ItemRepo.LoadInventory(ctx, player.CharacterID())
		if err != nil {
			return dispatch.CloseConnection, fmt.Errorf("character login: loading inventory: %w", err)
		}
		for _, it := range items {
			_ = player.Inventory().AddItem(it)
		}

		if err := s.Transition(session.StateEnteringWorld); err != nil {
			return dispatch.CloseConnection, err
		}

		s.SetPlayer(player)
		s.SetCharacterID(player.CharacterID())
		d.Registry.BindCharacter(player.CharacterID(), s)

		if err := d.World.AddObject(player.WorldObject); err != nil {
			return dispatch.CloseConnection, fmt.Errorf("character login: adding to world: %w", err)
		}

		if err := s.Transition(session.StateInGame); err != nil {
			return dispatch.CloseConnection, err
		}

		pkt, err := protocol.NewUserInfo(player).Write()
		if err != nil {
			return dispatch.CloseConnection, fmt.Errorf("character login: encoding user info: %w", err)
		}
		if err := s.Send(pkt); err != nil {
			return dispatch.Ok, nil
		}
		d.Broadcast.BroadcastArea(player.Location().X, player.Location().Y, broadcast.DefaultRadius, pkt, player.ObjectID())
		return dispatch.Ok, nil
	}
}

// handleKeepAlive just refreshes activity; the framing layer already did
// that on arrival, so this handler only exists to give clients something
// to send during idle stretches without tripping an unknown-opcode close.
func (d *Deps) handleKeepAlive() dispatch.Handler {
	return func(ctx context.Context, s *session.Session, payload []byte) (dispatch.Result, error) {
		return dispatch.Ok, nil
	}
}

// handleLogout returns an in-game character to character select, removing
// it from the world and clearing the session's character binding.
func (d *Deps) handleLogout() dispatch.Handler {
	return func(ctx context.Context, s *session.Session, payload []byte) (dispatch.Result, error) {
		player := s.Player()
		if player == nil {
			if err := s.Transition(session.StateCharacterSelect); err != nil {
				return dispatch.CloseConnection, err
			}
			return dispatch.Ok, nil
		}

		if err := d.CharRepo.Update(ctx, player); err != nil {
			return dispatch.Ok, fmt.Errorf("logout: saving character: %w", err)
		}
		d.World.RemoveObject(player.ObjectID())
		s.SetPlayer(nil)

		if err := s.Transition(session.StateCharacterSelect); err != nil {
			return dispatch.CloseConnection, err
		}
		return dispatch.Ok, nil
	}
}
