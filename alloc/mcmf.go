package alloc

import "container/heap"

// infCap is the "unbounded" arc capacity; large enough that no sum of real
// capacities or supplies approaches it.
const infCap = int64(1) << 40

// infDist marks unreachable nodes in shortest-path passes.
const infDist = int64(1) << 60

// mcmfArc is one directed residual arc. Reverse arcs are created alongside
// forward arcs with zero capacity and negated cost, so pushed flow equals
// the reverse arc's residual capacity at all times.
type mcmfArc struct {
	to   int32
	rev  int32 // index of the paired reverse arc in adj[to]
	cap  int64 // remaining residual capacity
	cost int64
}

// arcRef addresses one forward arc for later flow readout.
type arcRef struct {
	u int32
	i int32
}

// mcmfGraph is a minimum-cost maximum-flow network solved by successive
// shortest augmenting paths with Johnson potentials: one Bellman–Ford pass
// absorbs the negative arcs (forced edges, department reward arcs), then
// every augmentation runs Dijkstra on reduced costs.
//
// Determinism: arcs are relaxed in insertion order and the Dijkstra heap
// breaks equal distances by node index, so identical graphs always yield
// identical flows.
type mcmfGraph struct {
	n   int
	adj [][]mcmfArc
	pot []int64 // node potentials; infDist marks nodes unreachable from s
}

func newMCMF(n int) *mcmfGraph {
	return &mcmfGraph{n: n, adj: make([][]mcmfArc, n)}
}

// addArc inserts a forward arc u→v and its zero-capacity reverse twin,
// returning a reference for reading the pushed flow afterwards.
func (g *mcmfGraph) addArc(u, v int, capacity, cost int64) arcRef {
	g.adj[u] = append(g.adj[u], mcmfArc{
		to:   int32(v),
		rev:  int32(len(g.adj[v])),
		cap:  capacity,
		cost: cost,
	})
	g.adj[v] = append(g.adj[v], mcmfArc{
		to:   int32(u),
		rev:  int32(len(g.adj[u]) - 1),
		cap:  0,
		cost: -cost,
	})

	return arcRef{u: int32(u), i: int32(len(g.adj[u]) - 1)}
}

// flowOn reports the units pushed through a forward arc.
func (g *mcmfGraph) flowOn(ref arcRef) int64 {
	a := g.adj[ref.u][ref.i]

	return g.adj[a.to][a.rev].cap
}

// initPotentials runs Bellman–Ford from s over positive-capacity arcs.
// The layered allocation network is acyclic, so n−1 rounds always settle;
// the early-exit keeps typical instances to a handful of passes.
func (g *mcmfGraph) initPotentials(s int) {
	g.pot = make([]int64, g.n)
	for i := range g.pot {
		g.pot[i] = infDist
	}
	g.pot[s] = 0

	for round := 0; round < g.n-1; round++ {
		changed := false
		for u := 0; u < g.n; u++ {
			if g.pot[u] == infDist {
				continue
			}
			for _, a := range g.adj[u] {
				if a.cap <= 0 {
					continue
				}
				if nd := g.pot[u] + a.cost; nd < g.pot[a.to] {
					g.pot[a.to] = nd
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
}

// distHeap orders (distance, node) pairs; ties break on the smaller node
// index to keep augmentation order reproducible.
type distItem struct {
	dist int64
	node int32
}

type distHeap []distItem

func (h distHeap) Len() int { return len(h) }
func (h distHeap) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist < h[j].dist
	}

	return h[i].node < h[j].node
}
func (h distHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *distHeap) Push(x any)   { *h = append(*h, x.(distItem)) }
func (h *distHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]

	return it
}

// minCostMaxFlow pushes as much flow as possible from s to t along
// successively cheapest augmenting paths, returning the total flow and its
// cost. Potentials are (re)initialized per call, so the method may be run
// in phases on the same residual graph (the lower-bound reduction does).
//
// Complexity: O(V·E) for the Bellman–Ford pass, then O(F · E log V) for F
// augmentations on the reduced-cost graph.
func (g *mcmfGraph) minCostMaxFlow(s, t int) (flow, cost int64) {
	g.initPotentials(s)
	if g.pot[t] == infDist {
		return 0, 0
	}

	dist := make([]int64, g.n)
	prevNode := make([]int32, g.n)
	prevArc := make([]int32, g.n)

	for {
		// Dijkstra on reduced costs.
		for i := range dist {
			dist[i] = infDist
			prevNode[i] = -1
		}
		dist[s] = 0
		h := &distHeap{{dist: 0, node: int32(s)}}
		for h.Len() > 0 {
			it := heap.Pop(h).(distItem)
			u := int(it.node)
			if it.dist > dist[u] {
				continue
			}
			for i, a := range g.adj[u] {
				v := int(a.to)
				if a.cap <= 0 || g.pot[v] == infDist {
					continue
				}
				rc := a.cost + g.pot[u] - g.pot[v]
				if nd := dist[u] + rc; nd < dist[v] {
					dist[v] = nd
					prevNode[v] = int32(u)
					prevArc[v] = int32(i)
					heap.Push(h, distItem{dist: nd, node: int32(v)})
				}
			}
		}
		if dist[t] == infDist {
			break
		}

		// Fold distances into potentials for the next round.
		for v := 0; v < g.n; v++ {
			if dist[v] != infDist && g.pot[v] != infDist {
				g.pot[v] += dist[v]
			}
		}

		// Bottleneck along the path, then push.
		bottleneck := infCap
		for v := t; v != s; v = int(prevNode[v]) {
			a := g.adj[prevNode[v]][prevArc[v]]
			if a.cap < bottleneck {
				bottleneck = a.cap
			}
		}
		for v := t; v != s; v = int(prevNode[v]) {
			a := &g.adj[prevNode[v]][prevArc[v]]
			a.cap -= bottleneck
			g.adj[a.to][a.rev].cap += bottleneck
			cost += bottleneck * a.cost
		}
		flow += bottleneck
	}

	return flow, cost
}
