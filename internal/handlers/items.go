package handlers

import (
	"context"
	"fmt"

	"github.com/wydcore/gameserver/internal/broadcast"
	"github.com/wydcore/gameserver/internal/data"
	"github.com/wydcore/gameserver/internal/dispatch"
	"github.com/wydcore/gameserver/internal/model"
	"github.com/wydcore/gameserver/internal/protocol"
	"github.com/wydcore/gameserver/internal/session"
)

// bodyPartSlot maps an item template's body part tag to the paperdoll slot
// it occupies. Only the slots the seeded item table actually uses are
// covered; an unmapped body part fails equip with an explicit error rather
// than guessing a slot.
func bodyPartSlot(bodyPart string) (int32, bool) {
	switch bodyPart {
	case "rhand":
		return model.PaperdollRHand, true
	case "lhand":
		return model.PaperdollLHand, true
	case "head":
		return model.PaperdollHead, true
	case "chest":
		return model.PaperdollChest, true
	case "legs":
		return model.PaperdollLegs, true
	case "feet":
		return model.PaperdollFeet, true
	case "gloves":
		return model.PaperdollGloves, true
	default:
		return 0, false
	}
}

// shopUnitPrice derives a flat Adena price from an item template's weight.
// There is no price field in the seeded item table, so this stands in for
// a real pricing table; NPC shop list management (buy lists per vendor) is
// out of scope.
func shopUnitPrice(itemID int32) (int32, bool) {
	def := data.GetItemDef(itemID)
	if def == nil {
		return 0, false
	}
	price := def.Weight() * 2
	if price <= 0 {
		price = 10
	}
	return price, true
}

// handleItemUse consumes one unit of a stackable item. There is no
// item-handler registry invocation here (model.Item carries no handler
// name), so skill-granting consumables (elixirs, shots) are not triggered —
// only the count bookkeeping happens.
func (d *Deps) handleItemUse() dispatch.Handler {
	return func(ctx context.Context, s *session.Session, payload []byte) (dispatch.Result, error) {
		player, err := requirePlayer(s)
		if err != nil {
			return dispatch.CloseConnection, err
		}

		req, err := protocol.DecodeItemActionRequest(payload)
		if err != nil {
			return dispatch.CloseConnection, err
		}

		item := player.Inventory().GetItem(int64(req.ItemObjectID))
		if item == nil {
			sendSystemMessage(s, systemMessageItemNotFound)
			return dispatch.Ok, nil
		}

		if item.Count() <= 1 {
			player.Inventory().RemoveItem(item.ItemID())
		} else {
			_ = item.AddCount(-1)
		}
		return dispatch.Ok, nil
	}
}

// handleItemEquip moves an inventory item onto its paperdoll slot.
func (d *Deps) handleItemEquip() dispatch.Handler {
	return func(ctx context.Context, s *session.Session, payload []byte) (dispatch.Result, error) {
		player, err := requirePlayer(s)
		if err != nil {
			return dispatch.CloseConnection, err
		}

		req, err := protocol.DecodeItemActionRequest(payload)
		if err != nil {
			return dispatch.CloseConnection, err
		}

		item := player.Inventory().GetItem(int64(req.ItemObjectID))
		if item == nil {
			sendSystemMessage(s, systemMessageItemNotFound)
			return dispatch.Ok, nil
		}

		def := data.GetItemDef(item.ItemType())
		if def == nil {
			sendSystemMessage(s, systemMessageItemNotFound)
			return dispatch.Ok, nil
		}
		slot, ok := bodyPartSlot(def.BodyPart())
		if !ok {
			return dispatch.Ok, fmt.Errorf("item equip: item %d has no equippable body part", item.ItemType())
		}

		if err := player.Inventory().EquipItem(item, slot); err != nil {
			return dispatch.Ok, fmt.Errorf("item equip: %w", err)
		}
		return dispatch.Ok, nil
	}
}

// handleItemDrop removes an item from the inventory and places it on the
// ground at the requested location, visible to everyone nearby.
func (d *Deps) handleItemDrop() dispatch.Handler {
	return func(ctx context.Context, s *session.Session, payload []byte) (dispatch.Result, error) {
		player, err := requirePlayer(s)
		if err != nil {
			return dispatch.CloseConnection, err
		}

		req, err := protocol.DecodeItemActionRequest(payload)
		if err != nil {
			return dispatch.CloseConnection, err
		}

		item := player.Inventory().RemoveItem(int64(req.ItemObjectID))
		if item == nil {
			sendSystemMessage(s, systemMessageItemNotFound)
			return dispatch.Ok, nil
		}

		dropLoc := model.NewLocation(req.X, req.Y, req.Z, player.Location().Heading)
		dropped := model.NewDroppedItem(d.NextObjectID(), item, dropLoc, player.ObjectID())
		if err := d.World.AddObject(dropped.WorldObject); err != nil {
			return dispatch.Ok, fmt.Errorf("item drop: %w", err)
		}

		pkt, err := protocol.NewItemOnGround(dropped).Write()
		if err != nil {
			return dispatch.Ok, err
		}
		d.Broadcast.BroadcastArea(dropLoc.X, dropLoc.Y, broadcast.DefaultRadius, pkt, player.ObjectID())
		return dispatch.Ok, nil
	}
}

// handleItemGet picks up a ground item and adds it to the player's inventory.
func (d *Deps) handleItemGet() dispatch.Handler {
	return func(ctx context.Context, s *session.Session, payload []byte) (dispatch.Result, error) {
		player, err := requirePlayer(s)
		if err != nil {
			return dispatch.CloseConnection, err
		}

		req, err := protocol.DecodeItemActionRequest(payload)
		if err != nil {
			return dispatch.CloseConnection, err
		}

		obj, ok := d.World.GetObject(req.ItemObjectID)
		if !ok {
			sendSystemMessage(s, systemMessageItemNotFound)
			return dispatch.Ok, nil
		}
		dropped, ok := obj.Data.(*model.DroppedItem)
		if !ok {
			sendSystemMessage(s, systemMessageItemNotFound)
			return dispatch.Ok, nil
		}
		if dropped.IsProtected(player.ObjectID()) {
			return dispatch.Ok, nil
		}

		if err := player.Inventory().AddItem(dropped.Item()); err != nil {
			return dispatch.Ok, fmt.Errorf("item get: %w", err)
		}
		d.World.RemoveObject(req.ItemObjectID)

		pkt, err := protocol.NewDeleteObject(int32(req.ItemObjectID)).Write()
		if err != nil {
			return dispatch.Ok, err
		}
		d.Broadcast.BroadcastArea(player.Location().X, player.Location().Y, broadcast.DefaultRadius, pkt, 0)
		return dispatch.Ok, nil
	}
}

// handleShopBuy sells an item from an (unmodeled) NPC vendor to the player
// for Adena. There is no per-vendor buy list in this codebase, so any known
// item template can be bought — a simplification documented alongside the
// rest of the shop implementation.
func (d *Deps) handleShopBuy() dispatch.Handler {
	return func(ctx context.Context, s *session.Session, payload []byte) (dispatch.Result, error) {
		player, err := requirePlayer(s)
		if err != nil {
			return dispatch.CloseConnection, err
		}

		req, err := protocol.DecodeShopTransactionRequest(payload)
		if err != nil {
			return dispatch.CloseConnection, err
		}
		if req.Count <= 0 {
			return dispatch.Ok, nil
		}

		unitPrice, ok := shopUnitPrice(req.ItemID)
		if !ok {
			sendSystemMessage(s, systemMessageItemNotFound)
			return dispatch.Ok, nil
		}
		total := unitPrice * req.Count

		if err := player.Inventory().RemoveAdena(total); err != nil {
			sendSystemMessage(s, systemMessageNotEnoughAdena)
			return dispatch.Ok, nil
		}

		item, err := model.NewItem(player.CharacterID(), req.ItemID, req.Count)
		if err != nil {
			return dispatch.Ok, fmt.Errorf("shop buy: %w", err)
		}
		if err := player.Inventory().AddItem(item); err != nil {
			return dispatch.Ok, fmt.Errorf("shop buy: %w", err)
		}
		return dispatch.Ok, nil
	}
}

// handleShopSell sells an inventory item back to an NPC vendor for Adena.
func (d *Deps) handleShopSell() dispatch.Handler {
	return func(ctx context.Context, s *session.Session, payload []byte) (dispatch.Result, error) {
		player, err := requirePlayer(s)
		if err != nil {
			return dispatch.CloseConnection, err
		}

		req, err := protocol.DecodeShopTransactionRequest(payload)
		if err != nil {
			return dispatch.CloseConnection, err
		}
		if req.Count <= 0 {
			return dispatch.Ok, nil
		}

		item := player.Inventory().FindItemByItemID(req.ItemID)
		if item == nil || item.Count() < req.Count {
			sendSystemMessage(s, systemMessageItemNotFound)
			return dispatch.Ok, nil
		}

		unitPrice, _ := shopUnitPrice(req.ItemID)
		total := unitPrice * req.Count

		if item.Count() == req.Count {
			player.Inventory().RemoveItem(item.ItemID())
		} else {
			_ = item.AddCount(-req.Count)
		}

		if total > 0 {
			adena := player.Inventory().FindItemByItemID(model.AdenaItemID)
			if adena == nil {
				adena, err = model.NewItem(player.CharacterID(), model.AdenaItemID, total)
				if err != nil {
					return dispatch.Ok, fmt.Errorf("shop sell: %w", err)
				}
				if err := player.Inventory().AddItem(adena); err != nil {
					return dispatch.Ok, fmt.Errorf("shop sell: %w", err)
				}
			} else {
				_ = player.Inventory().AddAdena(total)
			}
		}
		return dispatch.Ok, nil
	}
}
