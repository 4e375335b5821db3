package spawn

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wydcore/gameserver/internal/ai"
	"github.com/wydcore/gameserver/internal/model"
	"github.com/wydcore/gameserver/internal/world"
)

// Density scaling bounds: target_count = maximumCount × multiplier, where
// multiplier scales linearly from minDensityMultiplier at zero players to
// maxDensityMultiplier at densityFullPopulation players and above.
// maximumCount remains the hard cap — a multiplier above 1.0 cannot push a
// spawn group past its configured maximum, preserving live_count ≤
// maximumCount, so density scaling only ever thins out spawns in sparsely
// populated worlds rather than over-filling heavily populated ones.
const (
	minDensityMultiplier  = 0.5
	maxDensityMultiplier  = 1.5
	densityFullPopulation = 50
)

// NpcRepository interface for loading NPC templates
type NpcRepository interface {
	LoadTemplate(ctx context.Context, templateID int32) (*model.NpcTemplate, error)
}

// SpawnRepository interface for loading spawns
type SpawnRepository interface {
	LoadAll(ctx context.Context) ([]*model.Spawn, error)
}

// Manager manages NPC spawns and respawns
type Manager struct {
	spawns    sync.Map // map[int64]*model.Spawn — spawnID → spawn
	npcRepo   NpcRepository
	spawnRepo SpawnRepository
	world     *world.World
	aiManager *ai.TickManager

	objectIDCounter atomic.Uint32 // for generating unique objectIDs
	spawnCount      atomic.Int32  // cached count of spawns (O(1) access)

	// attackFunc/scanFunc/getObjectFunc wire an aggressive spawn's AttackableAI
	// to combat and world lookups. Nil until SetAggroCallbacks is called, in
	// which case every spawn falls back to the passive BasicNpcAI.
	attackFunc    ai.AttackFunc
	scanFunc      ai.ScanFunc
	getObjectFunc ai.GetObjectFunc

	// populationFunc reports current online player count for density
	// scaling. Nil (the default) disables scaling entirely — target count
	// equals maximumCount — so callers that never wire it keep today's
	// unscaled behavior.
	populationFunc func() int
	clock          world.Clock
}

// NewManager creates new spawn manager
func NewManager(
	npcRepo NpcRepository,
	spawnRepo SpawnRepository,
	w *world.World,
	aiManager *ai.TickManager,
) *Manager {
	mgr := &Manager{
		npcRepo:   npcRepo,
		spawnRepo: spawnRepo,
		world:     w,
		aiManager: aiManager,
		clock:     world.DefaultClock,
	}

	// Start objectID counter from 100000 (players use lower IDs)
	mgr.objectIDCounter.Store(100000)

	return mgr
}

// SetAggroCallbacks wires the attack/scan/world-lookup callbacks aggressive
// spawns (template.AggroRange() > 0) need to run an AttackableAI instead of
// the default passive BasicNpcAI. Call before SpawnAll/LoadSpawns so every
// spawn picks up the right controller.
func (m *Manager) SetAggroCallbacks(attackFunc ai.AttackFunc, scanFunc ai.ScanFunc, getObjectFunc ai.GetObjectFunc) {
	m.attackFunc = attackFunc
	m.scanFunc = scanFunc
	m.getObjectFunc = getObjectFunc
}

// SetPopulationFunc wires the callback DoSpawn/SpawnAll use to read current
// online player count for density scaling.
func (m *Manager) SetPopulationFunc(populationFunc func() int) {
	m.populationFunc = populationFunc
}

// SetClock overrides the day/night clock spawn gating checks against.
// Defaults to world.DefaultClock; tests pin a fixed Clock to assert
// gating deterministically.
func (m *Manager) SetClock(clock world.Clock) {
	m.clock = clock
}

// densityMultiplier scales linearly from minDensityMultiplier at zero
// players to maxDensityMultiplier at densityFullPopulation players.
func densityMultiplier(population int) float64 {
	if population <= 0 {
		return minDensityMultiplier
	}
	frac := float64(population) / float64(densityFullPopulation)
	if frac > 1 {
		frac = 1
	}
	return minDensityMultiplier + frac*(maxDensityMultiplier-minDensityMultiplier)
}

// targetCount returns how many live mobs this spawn should currently
// maintain. maximumCount is always the hard ceiling; populationFunc being
// unset disables scaling (target == maximumCount).
func (m *Manager) targetCount(spawn *model.Spawn) int32 {
	if m.populationFunc == nil {
		return spawn.MaximumCount()
	}
	multiplier := densityMultiplier(m.populationFunc())
	target := int32(math.Round(float64(spawn.MaximumCount()) * multiplier))
	if target > spawn.MaximumCount() {
		target = spawn.MaximumCount()
	}
	if target < 0 {
		target = 0
	}
	return target
}

// isSpawnWindowOpen reports whether the spawn's day/night gate (if any)
// matches the current world clock reading.
func (m *Manager) isSpawnWindowOpen(spawn *model.Spawn) bool {
	if !spawn.NightOnly() && !spawn.DayOnly() {
		return true
	}
	night := m.clock.IsNight(time.Now())
	if spawn.NightOnly() {
		return night
	}
	return !night
}

// LoadSpawns loads all spawns from database
func (m *Manager) LoadSpawns(ctx context.Context) error {
	spawns, err := m.spawnRepo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading spawns from database: %w", err)
	}

	count := 0
	for _, spawn := range spawns {
		m.spawns.Store(spawn.SpawnID(), spawn)
		count++
	}

	// Update cached count
	m.spawnCount.Store(int32(count))

	slog.Info("spawns loaded from database", "count", count)
	return nil
}

// DoSpawn spawns NPC at spawn point
// Returns spawned NPC or error
func (m *Manager) DoSpawn(ctx context.Context, spawn *model.Spawn) (*model.Npc, error) {
	if !m.isSpawnWindowOpen(spawn) {
		return nil, fmt.Errorf("spawn %d is outside its day/night window", spawn.SpawnID())
	}

	// Check against the density-scaled target, not the raw maximum.
	target := m.targetCount(spawn)
	if spawn.CurrentCount() >= target {
		return nil, fmt.Errorf("spawn %d is at target capacity (%d/%d, max %d)", spawn.SpawnID(), spawn.CurrentCount(), target, spawn.MaximumCount())
	}

	// Load NPC template
	template, err := m.npcRepo.LoadTemplate(ctx, spawn.TemplateID())
	if err != nil {
		return nil, fmt.Errorf("loading template %d for spawn %d: %w", spawn.TemplateID(), spawn.SpawnID(), err)
	}

	// Generate unique objectID
	objectID := m.objectIDCounter.Add(1)

	// Aggressive templates (AggroRange > 0) get a Monster wrapping an
	// AttackableAI; everything else is a plain Npc on the passive BasicNpcAI.
	// Falls back to passive even for an aggressive template if the aggro
	// callbacks were never wired (SetAggroCallbacks not called).
	var npc *model.Npc
	var controller ai.Controller
	if template.AggroRange() > 0 && m.attackFunc != nil && m.scanFunc != nil && m.getObjectFunc != nil {
		monster := model.NewMonster(objectID, spawn.TemplateID(), template)
		npc = monster.Npc
		controller = ai.NewAttackableAI(monster, m.attackFunc, m.scanFunc, m.getObjectFunc)
	} else {
		npc = model.NewNpc(objectID, spawn.TemplateID(), template)
		controller = ai.NewBasicNpcAI(npc)
	}

	// Set spawn reference
	npc.SetSpawn(spawn)

	// Set location from spawn
	npc.SetLocation(spawn.Location())

	// Increase spawn count
	spawn.IncreaseCount()

	// Add NPC to spawn's NPC list
	spawn.AddNpc(npc)

	// Add NPC to world
	if err := m.world.AddObject(npc.WorldObject); err != nil {
		// Rollback
		spawn.DecreaseCount()
		spawn.RemoveNpc(npc)
		return nil, fmt.Errorf("adding NPC to world: %w", err)
	}

	// Register AI controller
	m.aiManager.Register(objectID, controller)

	slog.Info("NPC spawned",
		"objectID", objectID,
		"name", npc.Name(),
		"templateID", template.TemplateID(),
		"spawnID", spawn.SpawnID(),
		"location", spawn.Location())

	return npc, nil
}

// DespawnNpc despawns NPC (removes from world)
func (m *Manager) DespawnNpc(npc *model.Npc) {
	spawn := npc.Spawn()
	if spawn == nil {
		slog.Warn("despawning NPC without spawn", "objectID", npc.ObjectID())
		return
	}

	// Unregister AI
	m.aiManager.Unregister(npc.ObjectID())

	// Remove from world
	m.world.RemoveObject(npc.ObjectID())

	// Remove from spawn's NPC list
	spawn.RemoveNpc(npc)

	// Decrease spawn count
	spawn.DecreaseCount()

	slog.Info("NPC despawned",
		"objectID", npc.ObjectID(),
		"name", npc.Name(),
		"spawnID", spawn.SpawnID())
}

// ScheduleRespawn schedules NPC respawn after delay
// Used by RespawnTaskManager
func (m *Manager) ScheduleRespawn(ctx context.Context, spawn *model.Spawn) (*model.Npc, error) {
	return m.DoSpawn(ctx, spawn)
}

// GetSpawn returns spawn by ID
func (m *Manager) GetSpawn(spawnID int64) (*model.Spawn, bool) {
	value, ok := m.spawns.Load(spawnID)
	if !ok {
		return nil, false
	}
	return value.(*model.Spawn), true
}

// SpawnCount returns total number of spawns (O(1) cached count)
// IMPORTANT: Count is cached atomically and updated when spawns are loaded.
// This is a performance optimization to avoid O(N) Range() on sync.Map.
func (m *Manager) SpawnCount() int {
	return int(m.spawnCount.Load())
}

// SpawnAll spawns all NPCs for all loaded spawns
func (m *Manager) SpawnAll(ctx context.Context) error {
	count := 0
	var firstErr error

	m.spawns.Range(func(key, value any) bool {
		spawn := value.(*model.Spawn)

		if !m.isSpawnWindowOpen(spawn) {
			slog.Debug("spawn skipped (outside day/night window)", "spawnID", spawn.SpawnID())
			return true
		}

		// Spawn up to the density-scaled target, not the raw maximum.
		for range m.targetCount(spawn) {
			if _, err := m.DoSpawn(ctx, spawn); err != nil {
				if firstErr == nil {
					firstErr = err
				}
				slog.Error("failed to spawn NPC",
					"spawnID", spawn.SpawnID(),
					"templateID", spawn.TemplateID(),
					"error", err)
				return true // continue with next spawn
			}
			count++
		}

		return true
	})

	if firstErr != nil {
		slog.Warn("SpawnAll completed with errors", "spawned", count, "error", firstErr)
		return fmt.Errorf("spawning all NPCs: %w", firstErr)
	}

	slog.Info("all NPCs spawned", "count", count)
	return nil
}

// CalculateRespawnDelay calculates respawn delay for NPC template
// Returns random delay between respawnMin and respawnMax (in seconds)
func CalculateRespawnDelay(template *model.NpcTemplate) int32 {
	min := template.RespawnMin()
	max := template.RespawnMax()

	if min == max {
		return min
	}

	// Random delay between min and max
	return min + rand.Int32N(max-min+1)
}
