package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/wydcore/gameserver/internal/ai"
	"github.com/wydcore/gameserver/internal/broadcast"
	"github.com/wydcore/gameserver/internal/config"
	"github.com/wydcore/gameserver/internal/data"
	"github.com/wydcore/gameserver/internal/db"
	"github.com/wydcore/gameserver/internal/dispatch"
	"github.com/wydcore/gameserver/internal/flood"
	"github.com/wydcore/gameserver/internal/game/combat"
	"github.com/wydcore/gameserver/internal/game/party"
	"github.com/wydcore/gameserver/internal/game/quest"
	"github.com/wydcore/gameserver/internal/game/skill"
	"github.com/wydcore/gameserver/internal/gameserver"
	"github.com/wydcore/gameserver/internal/handlers"
	"github.com/wydcore/gameserver/internal/model"
	"github.com/wydcore/gameserver/internal/session"
	"github.com/wydcore/gameserver/internal/spawn"
	"github.com/wydcore/gameserver/internal/world"
)

// GameConfigPath is the default location of the game server's YAML config.
// Override with the LA2GO_GAME_CONFIG environment variable.
const GameConfigPath = "config/gameserver.yaml"

const (
	visibilitySweep    = 5 * time.Second
	visibilityMaxAge   = 30 * time.Second
	dispatchQueueDepth = 1024

	// idleSweepInterval must be well under session.HandshakeTimeout (5s) so a
	// stalled handshake is caught close to its deadline rather than seconds
	// after it.
	idleSweepInterval = 1 * time.Second
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := GameConfigPath
	if p := os.Getenv("LA2GO_GAME_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.LoadGameServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading game server config: %w", err)
	}

	initLogging(cfg.LogLevel)

	if err := loadStaticData(); err != nil {
		return fmt.Errorf("loading static data: %w", err)
	}

	dsn := cfg.Database.DSN()
	if err := db.RunMigrations(ctx, dsn); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	database, err := db.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()
	pool := database.Pool()

	accountRepo := db.NewPostgresAccountRepository(pool)
	charRepo := db.NewCharacterRepository(pool)
	itemRepo := db.NewItemRepository(pool)
	skillRepo := db.NewSkillRepository(pool)
	npcRepo := db.NewNpcRepository(pool)
	spawnRepo := db.NewSpawnRepository(pool)
	questRepo := db.NewQuestRepository(pool)
	persistence := db.NewPlayerPersistenceService(pool, charRepo, itemRepo, skillRepo)

	registry := session.NewRegistry()
	worldInst := world.Instance()
	broadcastRouter := broadcast.New(registry, worldInst)
	visibilityMgr := world.NewVisibilityManager(worldInst, visibilitySweep, visibilityMaxAge)

	aiMgr := ai.NewTickManager()
	if cfg.TickMs > 0 {
		aiMgr.SetInterval(time.Duration(cfg.TickMs) * time.Millisecond)
	}
	ai.EnableDebugLogging(cfg.LogLevel == "debug")

	npcBroadcastFunc := func(x, y int32, pkt []byte, size int) {
		broadcastRouter.BroadcastArea(x, y, broadcast.DefaultRadius, pkt[:size], 0)
	}
	playerBroadcastFunc := func(source *model.Player, pkt []byte, size int) {
		loc := source.Location()
		broadcastRouter.BroadcastArea(loc.X, loc.Y, broadcast.DefaultRadius, pkt[:size], source.ObjectID())
	}

	combatMgr := combat.NewCombatManager(playerBroadcastFunc, npcBroadcastFunc, &aiManagerAdapter{tm: aiMgr})
	combat.CombatMgr = combatMgr
	combatMgr.SetRates(&cfg.Rates)
	sendFunc := sendPacketFunc(worldInst, broadcastRouter)
	combatMgr.SetRewardFunc(func(killer *model.Player, npc *model.Npc) {
		combat.RewardExpAndSp(killer, npc, sendFunc, playerBroadcastFunc)
	})

	attackStanceMgr := combat.NewAttackStanceManager(playerBroadcastFunc)
	attackStanceMgr.Start()
	defer attackStanceMgr.Stop()

	spawnMgr := spawn.NewManager(npcRepo, spawnRepo, worldInst, aiMgr)
	spawnMgr.SetAggroCallbacks(
		func(monster *model.Monster, target *model.WorldObject) {
			combatMgr.ExecuteNpcAttack(monster.Npc, target)
		},
		func(x, y int32, fn func(*model.WorldObject) bool) {
			world.ForEachVisibleObject(worldInst, x, y, fn)
		},
		worldInst.GetObject,
	)
	spawnMgr.SetPopulationFunc(registry.Count)

	respawnMgr := spawn.NewRespawnTaskManager(spawnMgr)

	combatMgr.SetNpcDeathFunc(func(npc *model.Npc) {
		spawnPoint := npc.Spawn()
		spawnMgr.DespawnNpc(npc)
		if spawnPoint == nil {
			return
		}
		delay := spawn.CalculateRespawnDelay(npc.Template())
		respawnMgr.ScheduleRespawn(spawnPoint, delay)
	})

	partyMgr := party.NewManager()
	questMgr := quest.NewManager(questRepo)

	deps := &handlers.Deps{
		Registry:     registry,
		World:        worldInst,
		Broadcast:    broadcastRouter,
		AccountRepo:  accountRepo,
		CharRepo:     charRepo,
		SkillRepo:    skillRepo,
		ItemRepo:     itemRepo,
		Combat:       combatMgr,
		AttackStance: attackStanceMgr,
		Party:        partyMgr,
		Quest:        questMgr,
		NextObjectID: world.IDGenerator().NextPlayerID,
	}

	castMgr := skill.NewCastManager(sendFunc, playerBroadcastFunc, deps.EffectManager)
	skill.SetWorldResolver(func(objectID uint32) (*model.WorldObject, bool) {
		return worldInst.GetObject(objectID)
	})
	deps.Skill = castMgr

	table := handlers.Build(deps)
	dispatcher := dispatch.NewDispatcher(table, dispatchQueueDepth)
	guard := flood.NewGuard()

	srv := gameserver.New(cfg, registry, dispatcher, guard, handlers.Classify)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Run(gctx)
	})

	g.Go(func() error {
		return ignoreShutdown(visibilityMgr.Start(gctx))
	})

	g.Go(func() error {
		if err := spawnMgr.LoadSpawns(gctx); err != nil {
			return fmt.Errorf("loading spawns: %w", err)
		}
		if err := spawnMgr.SpawnAll(gctx); err != nil {
			return fmt.Errorf("spawning world: %w", err)
		}
		slog.Info("spawn manager ready", "spawns", spawnMgr.SpawnCount())
		return nil
	})

	g.Go(func() error {
		return ignoreShutdown(aiMgr.Start(gctx))
	})

	g.Go(func() error {
		return ignoreShutdown(respawnMgr.Start(gctx))
	})

	g.Go(func() error {
		return runPersistenceLoop(gctx, registry, persistence)
	})

	g.Go(func() error {
		return runIdleSweepLoop(gctx, registry)
	})

	if cfg.MetricsAddress != "" {
		g.Go(func() error {
			return runMetricsServer(gctx, cfg.MetricsAddress)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("game server stopped, saving players")
	savePlayersOnShutdown(context.Background(), registry, persistence)
	questMgr.Shutdown()

	return nil
}

// ignoreShutdown treats context cancellation as a clean stop rather than a
// failure worth aborting the rest of the errgroup over.
func ignoreShutdown(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// loadStaticData populates the in-memory item/NPC/skill catalogues the rest
// of the server reads from. These are hardcoded tables today; swapping in a
// file or database-backed loader only touches this function.
func loadStaticData() error {
	if err := data.LoadItemTemplates(); err != nil {
		return fmt.Errorf("loading item templates: %w", err)
	}
	if err := data.LoadNpcTemplates(); err != nil {
		return fmt.Errorf("loading npc templates: %w", err)
	}
	if err := data.LoadSkills(); err != nil {
		return fmt.Errorf("loading skills: %w", err)
	}
	if err := data.LoadSkillTrees(); err != nil {
		return fmt.Errorf("loading skill trees: %w", err)
	}
	return nil
}

func initLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}

// sendPacketFunc adapts the world/broadcast lookup chain into the
// (objectID, data, size) callback shape combat/skill code expects: resolve
// the in-world object to its owning character, then unicast through the
// router. Neither combat nor skill may import session directly (it would
// cycle back through handlers).
func sendPacketFunc(w *world.World, router *broadcast.Router) func(objectID uint32, pkt []byte, size int) {
	return func(objectID uint32, pkt []byte, size int) {
		obj, ok := w.GetObject(objectID)
		if !ok {
			return
		}
		player, ok := obj.Data.(*model.Player)
		if !ok {
			return
		}
		router.Send(player.CharacterID(), pkt[:size])
	}
}

// runPersistenceLoop periodically saves every logged-in character so a
// crash loses at most one interval of progress.
func runPersistenceLoop(ctx context.Context, registry *session.Registry, persistence *db.PlayerPersistenceService) error {
	const interval = 2 * time.Minute

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			for _, sess := range registry.Snapshot() {
				p := sess.Player()
				if p == nil {
					continue
				}
				if err := persistence.SavePlayer(ctx, p); err != nil {
					slog.Error("autosave failed", "character", p.CharacterID(), "error", err)
				}
			}
		}
	}
}

// runIdleSweepLoop periodically closes sessions stuck mid-handshake past
// session.HandshakeTimeout or idle past session.IdleTimeout.
func runIdleSweepLoop(ctx context.Context, registry *session.Registry) error {
	ticker := time.NewTicker(idleSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			registry.SweepIdle()
		}
	}
}

// runMetricsServer serves the Prometheus exposition endpoint (tick
// drift/duration, and anything else registered via promauto) until ctx is
// canceled.
func runMetricsServer(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	}
}

func savePlayersOnShutdown(ctx context.Context, registry *session.Registry, persistence *db.PlayerPersistenceService) {
	for _, sess := range registry.Snapshot() {
		p := sess.Player()
		if p == nil {
			continue
		}
		if err := persistence.SavePlayer(ctx, p); err != nil {
			slog.Error("shutdown save failed", "character", p.CharacterID(), "error", err)
		}
	}
}

// aiManagerAdapter narrows ai.TickManager down to the single method
// combat.CombatManager needs, so combat never imports ai directly.
type aiManagerAdapter struct {
	tm *ai.TickManager
}

func (a *aiManagerAdapter) GetController(objectID uint32) (combat.AIController, error) {
	ctrl, err := a.tm.GetController(objectID)
	if err != nil {
		return nil, err
	}
	notifier, ok := ctrl.(combat.AIController)
	if !ok {
		return nil, fmt.Errorf("controller for object %d does not accept damage notifications", objectID)
	}
	return notifier, nil
}
