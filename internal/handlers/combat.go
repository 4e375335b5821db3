package handlers

import (
	"context"

	"github.com/wydcore/gameserver/internal/dispatch"
	"github.com/wydcore/gameserver/internal/protocol"
	"github.com/wydcore/gameserver/internal/session"
)

// handleAttack resolves the requested target and hands the swing off to the
// combat manager, which owns hit/miss/damage resolution and broadcasting.
func (d *Deps) handleAttack() dispatch.Handler {
	return func(ctx context.Context, s *session.Session, payload []byte) (dispatch.Result, error) {
		player, err := requirePlayer(s)
		if err != nil {
			return dispatch.CloseConnection, err
		}
		if player.IsDead() {
			return dispatch.Ok, nil
		}

		req, err := protocol.DecodeAttackRequest(payload)
		if err != nil {
			return dispatch.CloseConnection, err
		}

		target, ok := d.World.GetObject(req.TargetObjectID)
		if !ok {
			sendSystemMessage(s, systemMessageInvalidTarget)
			return dispatch.Ok, nil
		}

		player.SetTarget(target)
		d.Combat.ExecuteAttack(player, target)
		return dispatch.Ok, nil
	}
}

// handleSkillUse delegates skill validation, cooldown, MP cost, and cast
// broadcast entirely to the skill cast manager.
func (d *Deps) handleSkillUse() dispatch.Handler {
	return func(ctx context.Context, s *session.Session, payload []byte) (dispatch.Result, error) {
		player, err := requirePlayer(s)
		if err != nil {
			return dispatch.CloseConnection, err
		}
		if player.IsDead() {
			return dispatch.Ok, nil
		}

		req, err := protocol.DecodeSkillUseRequest(payload)
		if err != nil {
			return dispatch.CloseConnection, err
		}

		if err := d.Skill.UseMagic(player, req.SkillID, req.Ctrl, req.Shift); err != nil {
			sendSystemMessage(s, systemMessageInvalidTarget)
			return dispatch.Ok, nil
		}
		return dispatch.Ok, nil
	}
}
