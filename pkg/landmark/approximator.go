package landmark

import (
	"github.com/lintang-b-s/altroute/pkg"
	da "github.com/lintang-b-s/altroute/pkg/datastructure"
)

// VirtualNodeMapper resolves vertices that only exist in a query graph back
// to the real vertex they were split off from, plus the weight of the arc
// connecting them.
type VirtualNodeMapper interface {
	MapVirtualNode(v da.Index) (real da.Index, connectingWeight float64, isVirtual bool)
}

/*
[1] Goldberg, A.V. and Harrelson, C. (2005) ‘Computing the shortest path: A* search meets graph theory’, in Proceedings of the Sixteenth Annual ACM-SIAM Symposium on Discrete Algorithms (SODA ’05), pp. 156–165.

Approximator is the ALT potential function (6 Computing Lower Bounds in
[1]). In the forward direction it lower bounds dist(v, fixed) with
max(to[v]-to[fixed], from[fixed]-from[v]) over the active landmarks, in the
reverse direction dist(fixed, v) with the mirrored terms. One quantization
unit of slack is subtracted so rounding of the stored weights can never
break admissibility, then the bound is clamped to zero (lemma 2.1 in [1]
keeps the clamped potential feasible).
*/
type Approximator struct {
	storage *LandmarkStorage
	active  []int

	// the fixed endpoint of the estimate: the search target for a forward
	// potential, the search source for a reverse one.
	fixed da.Index
	// weight between the fixed real vertex and the virtual endpoint it
	// stands in for, zero when the endpoint is a real vertex.
	fixedOffset float64

	reverse bool
	mapper  VirtualNodeMapper
}

func NewApproximator(storage *LandmarkStorage, active []int, fixed da.Index,
	fixedOffset float64, reverse bool) *Approximator {
	return &Approximator{
		storage:     storage,
		active:      active,
		fixed:       fixed,
		fixedOffset: fixedOffset,
		reverse:     reverse,
	}
}

// SetVirtualNodeMapper makes the approximator usable on a query graph.
func (a *Approximator) SetVirtualNodeMapper(mapper VirtualNodeMapper) {
	a.mapper = mapper
}

func (a *Approximator) Approximate(v da.Index) float64 {
	connecting := 0.0
	if a.mapper != nil {
		if real, w, isVirtual := a.mapper.MapVirtualNode(v); isVirtual {
			v = real
			connecting = w
		}
	}
	return da.Max(a.approximateReal(v)-connecting, 0)
}

func (a *Approximator) approximateReal(v da.Index) float64 {
	ls := a.storage
	if ls.subnetworks[v] == 0 || ls.subnetworks[v] != ls.subnetworks[a.fixed] {
		return 0
	}

	best := int64(0)
	for _, slot := range a.active {
		toV := ls.toWeights[slot][v]
		toFixed := ls.toWeights[slot][a.fixed]
		fromV := ls.fromWeights[slot][v]
		fromFixed := ls.fromWeights[slot][a.fixed]
		if toV == pkg.SHORT_INFINITY || toFixed == pkg.SHORT_INFINITY ||
			fromV == pkg.SHORT_INFINITY || fromFixed == pkg.SHORT_INFINITY {
			continue
		}

		var lb int64
		if !a.reverse {
			// dist(v, fixed) >= to[v]-to[fixed] and >= from[fixed]-from[v]
			lb = da.Max(int64(toV)-int64(toFixed), int64(fromFixed)-int64(fromV))
		} else {
			// dist(fixed, v) >= from[v]-from[fixed] and >= to[fixed]-to[v]
			lb = da.Max(int64(fromV)-int64(fromFixed), int64(toFixed)-int64(toV))
		}
		if lb > best {
			best = lb
		}
	}

	// the two stored weights of each term are rounded independently, one
	// full unit of slack covers the worst case.
	return da.Max((float64(best)-1.0)/ls.factor-a.fixedOffset, 0)
}

/*
[1] Ikeda, T. et al. (1994) ‘A fast algorithm for finding better routes by AI search techniques’, in Proceedings of VNIS’94, pp. 291–296.

BalancedApproximator combines a forward and a reverse ALT potential into the
consistent pair of [1]: pf(v) = (hf(v) - hr(v)) / 2 and pr(v) = -pf(v), so
pf(v) + pr(v) == 0 for every v and the plain termination condition of
bidirectional dijkstra remains correct.
*/
type BalancedApproximator struct {
	forward *Approximator
	reverse *Approximator
}

func NewBalancedApproximator(forward, reverse *Approximator) *BalancedApproximator {
	return &BalancedApproximator{forward: forward, reverse: reverse}
}

func (b *BalancedApproximator) SetVirtualNodeMapper(mapper VirtualNodeMapper) {
	b.forward.SetVirtualNodeMapper(mapper)
	b.reverse.SetVirtualNodeMapper(mapper)
}

// ForwardPotential steers the forward search.
func (b *BalancedApproximator) ForwardPotential() *BalancedPotential {
	return &BalancedPotential{b: b, negate: false}
}

// ReversePotential steers the backward search.
func (b *BalancedApproximator) ReversePotential() *BalancedPotential {
	return &BalancedPotential{b: b, negate: true}
}

type BalancedPotential struct {
	b      *BalancedApproximator
	negate bool
}

func (p *BalancedPotential) Approximate(v da.Index) float64 {
	pf := (p.b.forward.Approximate(v) - p.b.reverse.Approximate(v)) / 2.0
	if p.negate {
		return -pf
	}
	return pf
}
