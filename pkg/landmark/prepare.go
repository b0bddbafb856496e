package landmark

import (
	"time"

	"github.com/lintang-b-s/altroute/pkg"
	da "github.com/lintang-b-s/altroute/pkg/datastructure"
	"github.com/lintang-b-s/altroute/pkg/engine/routing"
	"go.uber.org/zap"
)

// PrepareLandmarks drives the preprocessing of one landmark set and hands
// out accelerated routing algorithms afterwards.
type PrepareLandmarks struct {
	storage *LandmarkStorage
	logger  *zap.Logger

	prepared bool
}

func NewPrepareLandmarks(storage *LandmarkStorage, logger *zap.Logger) *PrepareLandmarks {
	return &PrepareLandmarks{storage: storage, logger: logger}
}

func (p *PrepareLandmarks) GetStorage() *LandmarkStorage {
	return p.storage
}

func (p *PrepareLandmarks) IsPrepared() bool {
	return p.prepared
}

// DoWork runs the full preprocessing and persists the result.
func (p *PrepareLandmarks) DoWork() error {
	start := time.Now()
	p.logger.Info("computing landmarks....",
		zap.String("config", p.storage.GetConfig().GetName()),
		zap.Int("landmarks", p.storage.GetLandmarkCount()))

	if err := p.storage.CreateLandmarks(); err != nil {
		return err
	}
	if err := p.storage.Store(); err != nil {
		return err
	}

	p.prepared = true
	p.logger.Info("done computing landmarks....",
		zap.Duration("took", time.Since(start)))
	return nil
}

// LoadExisting tries to restore a previously prepared set from the
// directory instead of recomputing it.
func (p *PrepareLandmarks) LoadExisting() (bool, error) {
	ok, err := p.storage.Load()
	if err != nil {
		return false, err
	}
	p.prepared = ok
	return ok, nil
}

/*
CreateAlgo builds a single-use routing algorithm for one query. With a
prepared landmark set and both endpoints in the same subnetwork the search
is guided by the ALT potential, otherwise it falls back to a zero potential
which degrades a* to plain dijkstra. Virtual endpoints of a query graph are
resolved through mapper before the active landmarks are chosen.
*/
func (p *PrepareLandmarks) CreateAlgo(g routing.Graph, opts routing.AlgorithmOptions,
	source, target da.Index, mapper VirtualNodeMapper) (routing.RoutingAlgorithm, error) {

	realSource, sourceOffset := resolveEndpoint(source, mapper)
	realTarget, targetOffset := resolveEndpoint(target, mapper)

	var forward, reverse routing.Potential = routing.ZeroPotential{}, routing.ZeroPotential{}

	if p.prepared {
		active, ok := p.storage.ChooseActiveLandmarks(realSource, realTarget,
			opts.GetActiveLandmarkCount())
		if ok {
			forwardApprox := NewApproximator(p.storage, active, realTarget, targetOffset, false)
			reverseApprox := NewApproximator(p.storage, active, realSource, sourceOffset, true)
			if mapper != nil {
				forwardApprox.SetVirtualNodeMapper(mapper)
				reverseApprox.SetVirtualNodeMapper(mapper)
			}

			switch opts.GetAlgorithm() {
			case pkg.ASTAR_BI:
				balanced := NewBalancedApproximator(forwardApprox, reverseApprox)
				return routing.NewBidirectionalAStar(g, opts.GetCostFunction(),
					balanced.ForwardPotential(), balanced.ReversePotential()), nil
			default:
				return routing.NewAStar(g, opts.GetCostFunction(), forwardApprox), nil
			}
		}
		p.logger.Debug("endpoints without common landmark subnetwork, using zero potential",
			zap.Int32("source", int32(realSource)),
			zap.Int32("target", int32(realTarget)))
	}

	switch opts.GetAlgorithm() {
	case pkg.ASTAR_BI:
		return routing.NewBidirectionalAStar(g, opts.GetCostFunction(), forward, reverse), nil
	default:
		return routing.NewAStar(g, opts.GetCostFunction(), forward), nil
	}
}

func resolveEndpoint(v da.Index, mapper VirtualNodeMapper) (da.Index, float64) {
	if mapper == nil {
		return v, 0
	}
	if real, w, isVirtual := mapper.MapVirtualNode(v); isVirtual {
		return real, w
	}
	return v, 0
}
