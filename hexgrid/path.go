package hexgrid

import (
	"container/heap"
	"math"
)

// CostFunc returns the cost of stepping from one hex into an adjacent one.
// math.Inf(1) marks an impassable step.
type CostFunc func(from, to Coord) float64

// BlockFunc reports whether a hex blocks sight beyond it.
type BlockFunc func(c Coord) bool

type PathOption func(s *search)

type search struct {
	minStep float64
}

// WithMinStepCost sets the cheapest cost any single step can have. The A*
// heuristic is distance times this value, so it must not exceed the real minimum.
func WithMinStepCost(cost float64) PathOption {
	return func(s *search) {
		if cost >= 0 {
			s.minStep = cost
		}
	}
}

type pathNode struct {
	coord  Coord
	g      float64
	f      float64
	seq    int
	index  int
	parent *pathNode
}

// pathQueue orders by f, then by insertion so equal candidates pop first-found first.
type pathQueue []*pathNode

func (pq pathQueue) Len() int { return len(pq) }

func (pq pathQueue) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].seq < pq[j].seq
}

func (pq pathQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *pathQueue) Push(x any) {
	item := x.(*pathNode)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *pathQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// ShortestPath finds the cheapest route from start to end whose total cost
// stays within maxCost. The returned path includes both endpoints. When no
// such route exists it returns nil and +Inf.
func ShortestPath(g Grid, start, end Coord, maxCost float64, cost CostFunc, opts ...PathOption) ([]Coord, float64) {
	s := &search{minStep: 1}
	for _, opt := range opts {
		opt(s)
	}

	if !g.Contains(start) || !g.Contains(end) {
		return nil, math.Inf(1)
	}
	if float64(Distance(start, end)) > maxCost {
		return nil, math.Inf(1)
	}

	heuristic := func(c Coord) float64 {
		return float64(Distance(c, end)) * s.minStep
	}

	seq := 0
	open := &pathQueue{}
	heap.Init(open)
	heap.Push(open, &pathNode{coord: start, f: heuristic(start), seq: seq})
	gScore := map[Coord]float64{start: 0}
	closed := make(map[Coord]struct{})

	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)
		if _, seen := closed[current.coord]; seen {
			continue
		}
		closed[current.coord] = struct{}{}
		if current.coord == end {
			return reconstructPath(current), current.g
		}

		for _, next := range Neighbors(current.coord) {
			if !g.Contains(next) {
				continue
			}
			if _, seen := closed[next]; seen {
				continue
			}
			step := cost(current.coord, next)
			if math.IsInf(step, 1) {
				continue
			}
			tentative := current.g + step
			if tentative > maxCost {
				continue
			}
			if prev, ok := gScore[next]; ok && tentative >= prev {
				continue
			}
			gScore[next] = tentative
			seq++
			heap.Push(open, &pathNode{
				coord:  next,
				g:      tentative,
				f:      tentative + heuristic(next),
				seq:    seq,
				parent: current,
			})
		}
	}
	return nil, math.Inf(1)
}

func reconstructPath(end *pathNode) []Coord {
	path := make([]Coord, 0)
	for node := end; node != nil; node = node.parent {
		path = append(path, node.coord)
	}
	for i := 0; i < len(path)/2; i++ {
		j := len(path) - 1 - i
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Reach is one hex found by Reachable.
type Reach struct {
	Coord   Coord
	Cost    float64
	Visible bool
}

// Reachable floods outward from origin while the cumulative cost stays within
// maxCost. A blocked hex is itself reached and visible, but everything found
// through it is not. Results are in discovery order, origin first.
func Reachable(g Grid, origin Coord, maxCost float64, cost CostFunc, blocked BlockFunc) []Reach {
	if !g.Contains(origin) {
		return nil
	}
	type entry struct {
		cost    float64
		visible bool
		order   int
	}
	found := map[Coord]*entry{origin: {cost: 0, visible: true, order: 0}}
	order := []Coord{origin}
	queue := []Coord{origin}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		cur := found[current]

		// Sight does not pass through a blocking hex; the origin never blocks itself.
		seeThrough := cur.visible && (current == origin || blocked == nil || !blocked(current))

		for _, next := range Neighbors(current) {
			if !g.Contains(next) || next == origin {
				continue
			}
			step := cost(current, next)
			if math.IsInf(step, 1) {
				continue
			}
			total := cur.cost + step
			if total > maxCost {
				continue
			}
			prev, ok := found[next]
			switch {
			case !ok:
				found[next] = &entry{cost: total, visible: seeThrough, order: len(order)}
				order = append(order, next)
			case total < prev.cost || (total == prev.cost && seeThrough && !prev.visible):
				prev.cost = total
				prev.visible = prev.visible || seeThrough
			default:
				continue
			}
			queue = append(queue, next)
		}
	}

	out := make([]Reach, len(order))
	for i, c := range order {
		e := found[c]
		out[i] = Reach{Coord: c, Cost: e.cost, Visible: e.visible}
	}
	return out
}

// ElevationCeiling blocks hexes more than one level above the viewer.
func ElevationCeiling(height func(Coord) int, viewer int) BlockFunc {
	return func(c Coord) bool {
		return height(c) > viewer+1
	}
}

// AnyBlock combines block predicates.
func AnyBlock(fns ...BlockFunc) BlockFunc {
	return func(c Coord) bool {
		for _, fn := range fns {
			if fn != nil && fn(c) {
				return true
			}
		}
		return false
	}
}

// UniformCost charges one per step.
func UniformCost(from, to Coord) float64 {
	return 1
}
