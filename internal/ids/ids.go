// Package ids defines the small set of opaque identifier types shared
// across package boundaries (dungeon, entity, home, quest, view, ...)
// so that none of them need to import each other just to name an id.
package ids

// EntityID identifies a live entity (Knight, WalkingMonster,
// FlyingMonster). It is the generational id produced by
// internal/entity's ecs.EntityPool, carried here as a plain uint64 so
// that internal/dungeon can track occupancy without importing
// internal/entity.
type EntityID uint64

// PlayerID identifies a connected player slot, stable for the lifetime
// of their connection/game (spec.md §6's PlayerId wire type).
type PlayerID uint32

// MapID identifies a DungeonMap instance. Knights only ever runs one
// dungeon per game in spec.md's scope, but the id lets HomeManager and
// other registries disambiguate (dmap, coord) pairs the way the
// original's raw DungeonMap* pointer did (original_source/home_manager.hpp).
type MapID uint32

// EntityDisplayID is the u16 wire identity assigned to an entity for
// view-streaming purposes (spec.md §4.10): "Entity IDs are u16,
// allocated by the server and stable for the entity's lifetime. 0 is
// reserved for my own knight."
type EntityDisplayID uint16

// SelfDisplayID is the reserved "this is my own knight" wire id.
const SelfDisplayID EntityDisplayID = 0
