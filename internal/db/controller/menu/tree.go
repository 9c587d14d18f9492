package menu

import (
	"cmp"
	"slices"

	"github.com/NiceSpeak/nicespeak-admin/internal/db/models"
)

// Node is a menu with its ordered children.
type Node struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Icon     *string `json:"icon"`
	Path     *string `json:"path"`
	ParentID *string `json:"parent_id"`
	Order    int     `json:"order"`
	Status   bool    `json:"status"`
	Children []*Node `json:"children"`
}

func newNode(m *models.Menu) *Node {
	return &Node{
		ID:       m.ID,
		Name:     m.Name,
		Icon:     m.Icon,
		Path:     m.Path,
		ParentID: m.ParentID,
		Order:    m.Order,
		Status:   m.Status,
		Children: make([]*Node, 0),
	}
}

// BuildTree turns flat menu rows into a forest.
//
// Siblings are sorted by Order ascending. Equal orders keep the position they have in
// menus, so callers pass rows in creation order. With activeOnly inactive menus are
// dropped together with their subtree. Menus whose parent is not among the rows are
// unreachable and left out, and so are menus that only sit on a parent cycle.
// The forest is built breadth first with an explicit queue, depth is not bounded by the stack.
func BuildTree(menus []models.Menu, activeOnly bool) []*Node {
	var (
		roots    []int
		children = make(map[string][]int)
	)

	for i := range menus {
		if activeOnly && !menus[i].Status {
			continue
		}

		if menus[i].IsRoot() {
			roots = append(roots, i)
			continue
		}

		parentID := *menus[i].ParentID
		children[parentID] = append(children[parentID], i)
	}

	byOrder := func(a, b int) int {
		return cmp.Compare(menus[a].Order, menus[b].Order)
	}

	var (
		forest  = make([]*Node, 0, len(roots))
		queue   = make([]*Node, 0, len(menus))
		visited = make(map[string]struct{}, len(menus))
	)

	attach := func(idx []int, add func(*Node)) {
		slices.SortStableFunc(idx, byOrder)

		for _, i := range idx {
			if _, seen := visited[menus[i].ID]; seen {
				continue
			}

			visited[menus[i].ID] = struct{}{}
			node := newNode(&menus[i])
			add(node)
			queue = append(queue, node)
		}
	}

	attach(roots, func(n *Node) {
		forest = append(forest, n)
	})

	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]

		attach(children[parent.ID], func(n *Node) {
			parent.Children = append(parent.Children, n)
		})
	}

	return forest
}
