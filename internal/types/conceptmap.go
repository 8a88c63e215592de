package types

import (
	"fmt"
	"strings"
)

// RootNodeKey is the key the generator must assign to the map's single root.
const RootNodeKey = "root"

type Node struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Link serializes its source endpoint under the literal key "from".
// Graph front ends (GoJS-style nodeDataArray/linkDataArray consumers)
// depend on that exact name.
type Link struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type ConceptMap struct {
	NodeDataArray []Node `json:"nodeDataArray"`
	LinkDataArray []Link `json:"linkDataArray"`
}

func (m ConceptMap) Validate() error {
	if len(m.NodeDataArray) == 0 {
		return fmt.Errorf("concept map has no nodes")
	}
	seen := make(map[string]struct{}, len(m.NodeDataArray))
	roots := 0
	for _, n := range m.NodeDataArray {
		key := strings.TrimSpace(n.Key)
		if key == "" {
			return fmt.Errorf("node with empty key")
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate node key %q", key)
		}
		seen[key] = struct{}{}
		if key == RootNodeKey {
			roots++
		}
	}
	if roots != 1 {
		return fmt.Errorf("concept map has %d root nodes, want 1", roots)
	}
	for _, l := range m.LinkDataArray {
		if _, ok := seen[l.From]; !ok {
			return fmt.Errorf("link from unknown node %q", l.From)
		}
		if _, ok := seen[l.To]; !ok {
			return fmt.Errorf("link to unknown node %q", l.To)
		}
	}
	return nil
}
