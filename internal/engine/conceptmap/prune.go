package conceptmap

import (
	"strings"

	"github.com/aulavia/aulavia-backend/internal/types"
)

// Prune caps the map at maxNodes, keeping the root first, then the
// category nodes (keys prefixed "c" or "C") in their original order, then the
// rest in their original order. Links whose endpoints were cut are
// dropped. maxNodes <= 0 disables pruning. The pass is deterministic
// and idempotent: pruning a pruned map is a no-op.
func Prune(cm types.ConceptMap, maxNodes int) types.ConceptMap {
	if maxNodes <= 0 || len(cm.NodeDataArray) <= maxNodes {
		return cm
	}

	var root, categories, rest []types.Node
	for _, n := range cm.NodeDataArray {
		switch {
		case n.Key == types.RootNodeKey:
			root = append(root, n)
		case strings.HasPrefix(strings.ToLower(n.Key), "c"):
			categories = append(categories, n)
		default:
			rest = append(rest, n)
		}
	}

	ordered := make([]types.Node, 0, len(cm.NodeDataArray))
	ordered = append(ordered, root...)
	ordered = append(ordered, categories...)
	ordered = append(ordered, rest...)
	if len(ordered) > maxNodes {
		ordered = ordered[:maxNodes]
	}

	kept := make(map[string]struct{}, len(ordered))
	for _, n := range ordered {
		kept[n.Key] = struct{}{}
	}

	links := make([]types.Link, 0, len(cm.LinkDataArray))
	for _, l := range cm.LinkDataArray {
		if _, ok := kept[l.From]; !ok {
			continue
		}
		if _, ok := kept[l.To]; !ok {
			continue
		}
		links = append(links, l)
	}

	return types.ConceptMap{NodeDataArray: ordered, LinkDataArray: links}
}
