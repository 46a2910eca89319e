package quest

import "sort"

// StatusSink receives the flattened, separator-joined hint list each
// time HintManager drains (spec.md §4.10's StatusDisplay.set_quest_hints
// — internal/view's StatusDisplay implements it; HintManager stays a
// pure accumulator with no reference to any player or view).
type StatusSink interface {
	SetQuestHints(lines []string)
}

type hint struct {
	msg          string
	order, group float64
}

// HintManager collects per-player quest hints and, on Send, sorts them
// lexicographically by (group, order, msg) and inserts "--- OR ---"
// separators between (not within) groups, matching
// QuestHintManager::sendHints exactly (spec.md §4.9).
type HintManager struct {
	hints []hint
}

func (m *HintManager) AddHint(msg string, order, group float64) {
	m.hints = append(m.hints, hint{msg: msg, order: order, group: group})
}

func (m *HintManager) ClearHints() {
	m.hints = m.hints[:0]
}

func (m *HintManager) SendHints(sink StatusSink) {
	sort.Slice(m.hints, func(i, j int) bool {
		a, b := m.hints[i], m.hints[j]
		if a.group != b.group {
			return a.group < b.group
		}
		if a.order != b.order {
			return a.order < b.order
		}
		return a.msg < b.msg
	})

	lines := make([]string, 0, len(m.hints))
	for i, h := range m.hints {
		if i > 0 && h.group != m.hints[i-1].group {
			lines = append(lines, "", "--- OR ---", "")
		}
		lines = append(lines, h.msg)
	}
	sink.SetQuestHints(lines)
}
