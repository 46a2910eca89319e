package dungeonfile

import (
	"fmt"

	"github.com/knights-server/engine/internal/dungeon"
	"github.com/knights-server/engine/internal/quest"
)

// questSpec is one entry of the YAML "quests" table (spec.md §4.9's
// Retrieve and Destroy quests).
type questSpec struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"` // "retrieve" or "destroy"

	// Retrieve fields.
	Count       int      `yaml:"count"`
	Types       []string `yaml:"types"`
	Singular    string   `yaml:"singular"`
	Plural      string   `yaml:"plural"`
	RequiredMsg string   `yaml:"required_msg"`

	// Destroy fields.
	Wand []string `yaml:"wand"`
	Book []string `yaml:"book"`
}

func buildQuests(specs []questSpec, items map[string]*dungeon.ItemType) (map[string]quest.Quest, error) {
	out := make(map[string]quest.Quest, len(specs))
	for i, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("quests[%d]: name is required", i)
		}
		if _, dup := out[s.Name]; dup {
			return nil, fmt.Errorf("quests[%d]: duplicate quest name %q", i, s.Name)
		}

		switch s.Kind {
		case "retrieve":
			types, err := resolveItemList(items, s.Types, fmt.Sprintf("quests[%d] %q types", i, s.Name))
			if err != nil {
				return nil, err
			}
			out[s.Name] = &quest.Retrieve{
				No:          s.Count,
				Types:       types,
				Singular:    s.Singular,
				Plural:      s.Plural,
				RequiredMsg: s.RequiredMsg,
			}
		case "destroy":
			wand, err := resolveItemList(items, s.Wand, fmt.Sprintf("quests[%d] %q wand", i, s.Name))
			if err != nil {
				return nil, err
			}
			book, err := resolveItemList(items, s.Book, fmt.Sprintf("quests[%d] %q book", i, s.Name))
			if err != nil {
				return nil, err
			}
			out[s.Name] = &quest.Destroy{Wand: wand, Book: book}
		default:
			return nil, fmt.Errorf("quests[%d] %q: unknown quest kind %q", i, s.Name, s.Kind)
		}
	}
	return out, nil
}
