package data

// spawnDef is a single spawn point: which NPC, where, how many, and how
// often it respawns.
type spawnDef struct {
	count                  int32
	npcID                  int32
	x, y, z                int32
	heading                int32
	respawnDelay, respawnRand int32
}

func (s *spawnDef) Count() int32        { return s.count }
func (s *spawnDef) NpcID() int32        { return s.npcID }
func (s *spawnDef) X() int32            { return s.x }
func (s *spawnDef) Y() int32            { return s.y }
func (s *spawnDef) Z() int32            { return s.z }
func (s *spawnDef) Heading() int32      { return s.heading }
func (s *spawnDef) RespawnDelay() int32 { return s.respawnDelay }
func (s *spawnDef) RespawnRand() int32  { return s.respawnRand }

// SpawnList holds every configured spawn point. Seeded in-memory; there is
// no external spawn-list format here.
var SpawnList = []spawnDef{
	{count: 5, npcID: 20001, x: 83400, y: 148200, z: -3470, heading: 0, respawnDelay: 60, respawnRand: 20},
	{count: 3, npcID: 20124, x: 84900, y: 149800, z: -3400, heading: 16384, respawnDelay: 120, respawnRand: 30},
	{count: 1, npcID: 29001, x: 108500, y: 16200, z: -4850, heading: 0, respawnDelay: 7200, respawnRand: 600},
}
