package communities

// adjList is an undirected weighted graph keyed by symbol id, mirroring
// original_source/crates/mycelium-core/src/phases/communities.rs's
// AdjList: a compact index-based adjacency used both for the full
// community graph and for induced subgraphs during recursive split.
type adjList struct {
	nodeMap map[string]int
	nodes   []string
	adj     [][]neighbor
}

type neighbor struct {
	idx    int
	weight float64
}

func newAdjList() *adjList {
	return &adjList{nodeMap: make(map[string]int)}
}

func (a *adjList) ensureNode(id string) int {
	if idx, ok := a.nodeMap[id]; ok {
		return idx
	}
	idx := len(a.nodes)
	a.nodeMap[id] = idx
	a.nodes = append(a.nodes, id)
	a.adj = append(a.adj, nil)
	return idx
}

func (a *adjList) addEdge(x, y string, weight float64) {
	xi := a.ensureNode(x)
	yi := a.ensureNode(y)
	a.adj[xi] = addOrAccumulate(a.adj[xi], yi, weight)
	a.adj[yi] = addOrAccumulate(a.adj[yi], xi, weight)
}

func addOrAccumulate(neighbors []neighbor, idx int, weight float64) []neighbor {
	for i := range neighbors {
		if neighbors[i].idx == idx {
			neighbors[i].weight += weight
			return neighbors
		}
	}
	return append(neighbors, neighbor{idx: idx, weight: weight})
}

func (a *adjList) totalWeight() float64 {
	total := 0.0
	for _, neighbors := range a.adj {
		for _, n := range neighbors {
			total += n.weight
		}
	}
	return total / 2.0
}

// louvain runs multi-level Louvain modularity maximisation (spec §4.6):
// Phase 1 greedily moves nodes between communities to maximise local
// modularity gain; Phase 2 contracts the graph into super-nodes and
// repeats until no further contraction improves the partition.
func louvain(adj *adjList, resolution float64) [][]string {
	n := len(adj.nodes)
	if n == 0 {
		return nil
	}

	m := adj.totalWeight()
	if m == 0 {
		singles := make([][]string, n)
		for i, id := range adj.nodes {
			singles[i] = []string{id}
		}
		return singles
	}
	m2 := m * 2.0

	groups := make([][]int, n)
	for i := range groups {
		groups[i] = []int{i}
	}

	curAdj := adj.adj
	curN := n

	for {
		if curN < 2 {
			break
		}

		degree := make([]float64, curN)
		for i := 0; i < curN; i++ {
			for _, nb := range curAdj[i] {
				degree[i] += nb.weight
			}
		}

		community := make([]int, curN)
		for i := range community {
			community[i] = i
		}
		sigmaTot := append([]float64(nil), degree...)
		anyMoved := false

		improved := true
		for iters := 0; improved && iters < 100; iters++ {
			improved = false

			for i := 0; i < curN; i++ {
				ci := community[i]
				ki := degree[i]

				commWeights := make(map[int]float64)
				for _, nb := range curAdj[i] {
					if nb.idx == i {
						continue
					}
					commWeights[community[nb.idx]] += nb.weight
				}

				kiIn := commWeights[ci]
				sigmaTot[ci] -= ki

				bestComm := ci
				bestGain := 0.0
				for cj, kjIn := range commWeights {
					gain := kjIn - resolution*sigmaTot[cj]*ki/m2
					loss := kiIn - resolution*sigmaTot[ci]*ki/m2
					delta := gain - loss
					if delta > bestGain || (delta == bestGain && cj < bestComm) {
						bestGain = delta
						bestComm = cj
					}
				}
				if bestGain <= 0.0 {
					bestComm = ci
				}

				community[i] = bestComm
				sigmaTot[bestComm] += ki
				if bestComm != ci {
					improved = true
					anyMoved = true
				}
			}
		}

		if !anyMoved {
			break
		}

		labelMap := make(map[int]int)
		nextLabel := 0
		for _, c := range community {
			if _, ok := labelMap[c]; !ok {
				labelMap[c] = nextLabel
				nextLabel++
			}
		}
		mapped := make([]int, curN)
		for i, c := range community {
			mapped[i] = labelMap[c]
		}
		newN := nextLabel
		if newN == curN {
			break
		}

		newGroups := make([][]int, newN)
		for i, c := range mapped {
			newGroups[c] = append(newGroups[c], groups[i]...)
		}
		groups = newGroups

		newAdj := make([][]neighbor, newN)
		for i := 0; i < curN; i++ {
			ci := mapped[i]
			for _, nb := range curAdj[i] {
				cj := mapped[nb.idx]
				if ci == cj {
					continue
				}
				newAdj[ci] = addOrAccumulate(newAdj[ci], cj, nb.weight)
			}
		}
		curAdj = newAdj
		curN = newN
	}

	out := make([][]string, len(groups))
	for i, group := range groups {
		ids := make([]string, len(group))
		for j, idx := range group {
			ids[j] = adj.nodes[idx]
		}
		out[i] = ids
	}
	return out
}

// splitOversized recursively applies Louvain at increasing resolution to
// an oversized community's induced subgraph until it yields at least two
// non-singleton subcommunities, or gives up after a bounded number of
// attempts (spec §4.6 "Recursive split").
func splitOversized(members []string, full *adjList, maxSize int) [][]string {
	if len(members) <= maxSize {
		return [][]string{members}
	}

	memberSet := make(map[string]bool, len(members))
	for _, m := range members {
		memberSet[m] = true
	}

	sub := newAdjList()
	for _, m := range members {
		sub.ensureNode(m)
	}
	for _, m := range members {
		idx, ok := full.nodeMap[m]
		if !ok {
			continue
		}
		for _, nb := range full.adj[idx] {
			nbID := full.nodes[nb.idx]
			if memberSet[nbID] && nbID > m {
				sub.addEdge(m, nbID, nb.weight)
			}
		}
	}

	if sub.totalWeight() == 0 {
		return [][]string{members}
	}

	resolution := 2.0
	for attempt := 0; attempt < 8; attempt++ {
		subCommunities := louvain(sub, resolution)
		nonSingletons := 0
		for _, sc := range subCommunities {
			if len(sc) >= 2 {
				nonSingletons++
			}
		}
		if nonSingletons >= 2 {
			var result [][]string
			for _, sc := range subCommunities {
				result = append(result, splitOversized(sc, full, maxSize)...)
			}
			return result
		}
		resolution *= 2.0
	}

	return [][]string{members}
}
