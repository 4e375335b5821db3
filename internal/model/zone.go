package model

// ZoneID identifies a named region effect (PvP rules, safety, terrain) a
// character can stand inside. Values index bits in Character's zone
// bitfield, so there can be at most 32.
type ZoneID int32

const (
	ZoneIDPeace ZoneID = iota
	ZoneIDPvP
	ZoneIDSiege
	ZoneIDWater
	ZoneIDNoSummonFriend
	ZoneIDDanger
)
