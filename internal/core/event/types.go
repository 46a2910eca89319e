package event

import "github.com/knights-server/engine/internal/core/ecs"

// PlayerJoined fires once a lobby Join completes and the player's
// knight entity has been spawned into the running game.
type PlayerJoined struct {
	EntityID ecs.EntityID
	PlayerID uint32
}

// PlayerLeft fires when a connection drops or a player quits,
// letting systems outside the net layer react (home vacancy,
// lobby roster) without importing it.
type PlayerLeft struct {
	EntityID ecs.EntityID
	PlayerID uint32
}

// KnightDied fires when a knight's health reaches zero, decoupling
// the combat/damage system that notices it from the systems that
// react (home-manager rehoming, stat tracking).
type KnightDied struct {
	EntityID ecs.EntityID
	PlayerID uint32
}

// MonsterSlain fires when a monster entity is destroyed by damage,
// for stat tracking and the replay/audit log.
type MonsterSlain struct {
	EntityID ecs.EntityID
	KillerID ecs.EntityID // zero value if no single attacker caused the kill
}

// QuestCompleted fires when a player's Quest.Check succeeds, for
// status-display hints and the replay log.
type QuestCompleted struct {
	PlayerID uint32
	Quest    string
}
