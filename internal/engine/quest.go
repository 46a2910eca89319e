package engine

import (
	"strconv"

	"github.com/knights-server/engine/internal/action"
	"github.com/knights-server/engine/internal/core/event"
	"github.com/knights-server/engine/internal/ids"
	"github.com/knights-server/engine/internal/quest"
)

// CheckQuest runs the named quest against playerID's current state
// (spec.md §4.9: fired from the special pentagram tile's on_hit, or
// from a knight approaching their own home exit). On success it bumps
// the player's completed-quest counter and emits QuestCompleted; on
// failure, for a quest that supplies one, the hint text is pushed to
// the player's dungeon view as a flash message.
func (e *Engine) CheckQuest(playerID ids.PlayerID, questName string) bool {
	p, ok := e.Players[playerID]
	if !ok {
		return false
	}
	q, err := e.LookupQuest(questName)
	if err != nil {
		return false
	}
	kd, ok := e.World.Knights.Get(p.Entity)
	if !ok {
		return false
	}
	pos, ok := e.World.Positions.Get(p.Entity)
	if !ok {
		return false
	}

	ok = q.Check(quest.CheckContext{Knight: kd, Pos: *pos, DMap: e.DMap})
	if ok {
		p.QuestsCompleted++
		event.Emit(e.Bus, event.QuestCompleted{PlayerID: uint32(playerID), Quest: questName})
		e.LogReplayEvent("quest_completed", action.Context{
			MapID:      int32(e.opts.MapID),
			X:          int32(pos.Pos.X),
			Y:          int32(pos.Pos.Y),
			Originator: action.Originator{Kind: action.OriginatorPlayer, PlayerID: uint64(playerID)},
		}, questName)
		return true
	}
	if hint := q.Hint(); hint != "" {
		p.DungeonView.FlashMessage(hint, 1)
	}
	return false
}

// RefreshQuestHints rebuilds playerID's status-display quest icons
// from every quest declared in the loaded GameConfig (spec.md §4.9's
// QuestHintManager, generalised here from a single active quest to
// "every quest this dungeon file defines", since SPEC_FULL.md's
// GameConfig may bundle more than one).
func (e *Engine) RefreshQuestHints(playerID ids.PlayerID) {
	p, ok := e.Players[playerID]
	if !ok {
		return
	}
	kd, _ := e.World.Knights.Get(p.Entity)

	var icons []quest.QuestIconInfo
	for _, q := range e.Config.Quests {
		q.AppendQuestIcon(kd, &icons)
	}
	lines := make([]string, 0, len(icons))
	for _, ic := range icons {
		lines = append(lines, questIconLine(ic))
	}
	p.StatusDisplay.SetQuestHints(lines)
}

func questIconLine(ic quest.QuestIconInfo) string {
	return strconv.Itoa(ic.NumHeld) + "/" + strconv.Itoa(ic.NumRequired)
}
