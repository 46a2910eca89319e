package dungeon

// ItemTypeID identifies an ItemType entry in the dungeon-file item
// table (spec.md §3: "ItemType handle").
type ItemTypeID uint32

// ItemType describes a class of item: fragile flag, backpack graphic,
// stack size, optional weapon behaviour, and the "ai_fear"/"ai_hit"
// hooks monsters consult (spec.md §3).
type ItemType struct {
	ID            ItemTypeID
	Name          string
	Fragile       bool
	BackpackGfx   GraphicID
	MaxStack      int
	IsWeapon      bool
	WeaponDamage  int
	AIFearHook    bool // monsters flee a knight holding this
	AIHitHook     bool // monsters treat this as a hit-trigger item (bear traps etc)
}

// Item is a concrete stack of a given type at a given count.
type Item struct {
	Type  *ItemType
	Count int
}

func (i *Item) Fragile() bool {
	return i.Type != nil && i.Type.Fragile
}
