package handlers

import (
	"context"

	"github.com/wydcore/gameserver/internal/broadcast"
	"github.com/wydcore/gameserver/internal/dispatch"
	"github.com/wydcore/gameserver/internal/model"
	"github.com/wydcore/gameserver/internal/protocol"
	"github.com/wydcore/gameserver/internal/session"
)

// handleMove validates the requested destination and broadcasts the new
// path to everyone who can currently see the mover. The server does not
// dead-reckon between updates; it only records the origin/destination pair
// a client reports and trusts the client to interpolate the path itself.
func (d *Deps) handleMove() dispatch.Handler {
	return func(ctx context.Context, s *session.Session, payload []byte) (dispatch.Result, error) {
		player, err := requirePlayer(s)
		if err != nil {
			return dispatch.CloseConnection, err
		}
		if player.IsDead() {
			return dispatch.Ok, nil
		}

		req, err := protocol.DecodeMoveRequest(payload)
		if err != nil {
			return dispatch.CloseConnection, err
		}

		origin := player.Location()
		dest := model.NewLocation(req.TargetX, req.TargetY, req.TargetZ, origin.Heading)
		player.SetLocation(dest)
		player.Movement().SetLastServerPosition(req.TargetX, req.TargetY, req.TargetZ)

		pkt, err := protocol.NewMoveToLocation(player.ObjectID(), dest, origin).Write()
		if err != nil {
			return dispatch.Ok, err
		}
		d.Broadcast.BroadcastArea(origin.X, origin.Y, broadcast.DefaultRadius, pkt, player.ObjectID())
		return dispatch.Ok, nil
	}
}
