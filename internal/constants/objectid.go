package constants

// World object id ranges. Player/item ids use the legacy client's
// 0x10000000/0x00000001 split; mob ids start at 10000 and run below the
// player range. The player and NPC ranges are disjoint from the others, but
// the mob range lies inside the item range, so an id below 0x10000000 does
// not by itself tell a mob from an item.
const (
	ObjectIDItemStart   uint32 = 0x00000001
	ObjectIDItemEnd     uint32 = 0x0FFFFFFF
	ObjectIDMobStart    uint32 = 10000
	ObjectIDMobEnd      uint32 = ObjectIDPlayerStart - 1
	ObjectIDPlayerStart uint32 = 0x10000000
	ObjectIDPlayerEnd   uint32 = 0x1FFFFFFF
	ObjectIDNpcStart    uint32 = 0x20000000
)

// IsPlayerObjectID returns true if objectID is in the player range.
func IsPlayerObjectID(objectID uint32) bool {
	return objectID >= ObjectIDPlayerStart && objectID <= ObjectIDPlayerEnd
}

// IsNpcObjectID returns true if objectID is in the static-NPC range.
func IsNpcObjectID(objectID uint32) bool {
	return objectID >= ObjectIDNpcStart
}

// IsItemObjectID returns true if objectID is in the ground-item range.
func IsItemObjectID(objectID uint32) bool {
	return objectID >= ObjectIDItemStart && objectID <= ObjectIDItemEnd
}

// IsMobObjectID returns true if objectID is in the spawned-mob range
// (process-unique, distinct from session ids).
func IsMobObjectID(objectID uint32) bool {
	return objectID >= ObjectIDMobStart && objectID <= ObjectIDMobEnd
}
