// Package netlist groups vias and wires into electrical nets.
package netlist

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"chip-tracer/internal/entity"
	"chip-tracer/pkg/geometry"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// DefaultTolerance is the snap distance, in lambda, between a wire endpoint
// and the via or wire endpoint it joins.
const DefaultTolerance = 0.5

// autoNetRe matches auto-generated net names like "net-001", "net-042".
var autoNetRe = regexp.MustCompile(`^net-\d+$`)

// netNamePriority returns a priority score for a net name.
// Higher is better: 0=auto-generated, 1=cell pin, 2=signal/user name.
func netNamePriority(name string) int {
	if autoNetRe.MatchString(name) {
		return 0
	}
	if strings.Contains(name, ".") {
		return 1 // cell pin name like "U3.A"
	}
	return 2
}

// IsLowPriorityName reports whether the name is auto-generated or a pin
// reference, i.e. safe to overwrite with a signal name.
func IsLowPriorityName(name string) bool {
	return netNamePriority(name) < 2
}

// BetterNetName returns the higher-priority name between a and b.
// At equal priority the shorter name wins, then the lexically smaller.
func BetterNetName(a, b string) string {
	if a == "" || b == "" {
		return a + b
	}
	pa := netNamePriority(a)
	pb := netNamePriority(b)
	if pa != pb {
		if pa > pb {
			return a
		}
		return b
	}
	if len(a) != len(b) {
		if len(a) < len(b) {
			return a
		}
		return b
	}
	return min(a, b)
}

// Net is one connected group of vias and wires.
type Net struct {
	ID      string   `json:"id"`   // "net-001"
	Name    string   `json:"name"` // best label in the net, or the ID
	ViaIDs  []string `json:"via_ids"`
	WireIDs []string `json:"wire_ids"`
}

// ElementCount returns the number of vias and wires in the net.
func (n *Net) ElementCount() int {
	return len(n.ViaIDs) + len(n.WireIDs)
}

// Contains reports whether an entity ID belongs to the net.
func (n *Net) Contains(id string) bool {
	for _, v := range n.ViaIDs {
		if v == id {
			return true
		}
	}
	for _, w := range n.WireIDs {
		if w == id {
			return true
		}
	}
	return false
}

// node is a via, or one end of a wire.
type node struct {
	index int // into the element list
	pos   geometry.Point2D
}

// Extract partitions the vias and wires of entities into nets. A wire
// endpoint within tolerance of a via, or of another wire's endpoint, joins
// them. Cells and unknown kinds are ignored. Nets are ordered by their first
// element in the input.
func Extract(entities []*entity.Entity, tolerance float64) []*Net {
	var elems []*entity.Entity
	var nodes []node
	for _, e := range entities {
		switch s := e.Shape.(type) {
		case entity.Point:
			if e.Family() != entity.FamilyVias {
				continue
			}
			nodes = append(nodes, node{len(elems), s.Pos()})
			elems = append(elems, e)
		case entity.Segment:
			if e.Family() != entity.FamilyWire {
				continue
			}
			nodes = append(nodes, node{len(elems), s.Start()}, node{len(elems), s.End()})
			elems = append(elems, e)
		}
	}

	g := simple.NewUndirectedGraph()
	for i := range elems {
		g.AddNode(simple.Node(i))
	}
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i], nodes[j]
			if a.index == b.index {
				continue
			}
			// Two vias never join directly.
			if elems[a.index].Family() == entity.FamilyVias && elems[b.index].Family() == entity.FamilyVias {
				continue
			}
			if a.pos.Distance(b.pos) <= tolerance {
				g.SetEdge(g.NewEdge(simple.Node(a.index), simple.Node(b.index)))
			}
		}
	}

	var comps [][]int
	for _, cc := range topo.ConnectedComponents(g) {
		comp := make([]int, len(cc))
		for k, n := range cc {
			comp[k] = int(n.ID())
		}
		sort.Ints(comp)
		comps = append(comps, comp)
	}
	sort.Slice(comps, func(i, j int) bool { return comps[i][0] < comps[j][0] })

	nets := make([]*Net, 0, len(comps))
	for _, comp := range comps {
		net := &Net{ID: fmt.Sprintf("net-%03d", len(nets)+1)}
		net.Name = net.ID
		for _, i := range comp {
			e := elems[i]
			if e.Family() == entity.FamilyVias {
				net.ViaIDs = append(net.ViaIDs, e.ID)
			} else {
				net.WireIDs = append(net.WireIDs, e.ID)
			}
			if e.Label != "" {
				net.Name = BetterNetName(net.Name, e.Label)
			}
		}
		nets = append(nets, net)
	}
	return nets
}

// Find returns the net containing an entity ID, or nil.
func Find(nets []*Net, id string) *Net {
	for _, n := range nets {
		if n.Contains(id) {
			return n
		}
	}
	return nil
}
