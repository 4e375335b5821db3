package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wydcore/gameserver/internal/model"
)

// PlayerPersistenceService saves and loads the full set of data owned by a
// player character (character row, inventory, skills). Item and skill rows
// are written one statement at a time through their own repositories —
// there is no single items/skills upsert, so a failure partway through
// leaves the character row authoritative and the rest to be corrected on
// the next save.
type PlayerPersistenceService struct {
	pool      *pgxpool.Pool
	charRepo  *CharacterRepository
	itemRepo  *ItemRepository
	skillRepo *SkillRepository
}

func NewPlayerPersistenceService(
	pool *pgxpool.Pool,
	charRepo *CharacterRepository,
	itemRepo *ItemRepository,
	skillRepo *SkillRepository,
) *PlayerPersistenceService {
	return &PlayerPersistenceService{
		pool:      pool,
		charRepo:  charRepo,
		itemRepo:  itemRepo,
		skillRepo: skillRepo,
	}
}

// SavePlayer persists character stats, every inventory item, and the full
// skill list for a player.
func (s *PlayerPersistenceService) SavePlayer(ctx context.Context, player *model.Player) error {
	charID := player.CharacterID()

	if err := s.charRepo.Update(ctx, player); err != nil {
		return fmt.Errorf("saving character %d: %w", charID, err)
	}

	items := player.Inventory().GetItems()
	for _, item := range items {
		var err error
		if item.ItemID() == 0 {
			err = s.itemRepo.Create(ctx, item)
		} else {
			err = s.itemRepo.Update(ctx, item)
		}
		if err != nil {
			return fmt.Errorf("saving item for character %d: %w", charID, err)
		}
	}

	skills := player.Skills()
	if err := s.skillRepo.Save(ctx, charID, skills); err != nil {
		return fmt.Errorf("saving skills for character %d: %w", charID, err)
	}

	slog.Debug("player data saved",
		"character_id", charID,
		"character", player.Name(),
		"items", len(items),
		"skills", len(skills))

	return nil
}

// PlayerData holds the full set of loaded data for a player.
type PlayerData struct {
	Items  []*model.Item
	Skills []*model.SkillInfo
}

// LoadPlayerData loads inventory, paperdoll, and skills for an existing
// character.
func (s *PlayerPersistenceService) LoadPlayerData(ctx context.Context, charID int64) (*PlayerData, error) {
	inventory, err := s.itemRepo.LoadInventory(ctx, charID)
	if err != nil {
		return nil, fmt.Errorf("loading inventory for character %d: %w", charID, err)
	}
	paperdoll, err := s.itemRepo.LoadPaperdoll(ctx, charID)
	if err != nil {
		return nil, fmt.Errorf("loading paperdoll for character %d: %w", charID, err)
	}

	skills, err := s.skillRepo.LoadByCharacterID(ctx, charID)
	if err != nil {
		return nil, fmt.Errorf("loading skills for character %d: %w", charID, err)
	}

	return &PlayerData{Items: append(inventory, paperdoll...), Skills: skills}, nil
}
