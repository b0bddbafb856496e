package pkg

// enum of search algorithm accelerated by the landmark heuristic
type SearchAlgorithm uint8

const (
	ASTAR SearchAlgorithm = iota
	ASTAR_BI
)

func (sa SearchAlgorithm) String() string {
	switch sa {
	case ASTAR:
		return "astar"
	case ASTAR_BI:
		return "astar_bi"
	default:
		return "unknown"
	}
}

const (
	INF_WEIGHT float64 = 1e15

	// sentinel for an unreachable entry in the quantized landmark weight tables.
	// real weights are scaled so that every reachable entry fits below it.
	SHORT_INFINITY uint32 = 65535
	STORABLE_MAX   uint32 = SHORT_INFINITY - 1

	DEFAULT_LANDMARK_COUNT        = 16
	DEFAULT_ACTIVE_LANDMARK_COUNT = 4
	DEFAULT_MINIMUM_NODES         = 10_000
)
