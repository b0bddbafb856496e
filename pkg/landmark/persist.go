package landmark

import (
	"fmt"
	"math"

	da "github.com/lintang-b-s/altroute/pkg/datastructure"
	"go.uber.org/zap"
)

func (ls *LandmarkStorage) keyPrefix() string {
	return fmt.Sprintf("lm/%s_%s_%d/", ls.config.name,
		ls.config.costFunction.Name(), ls.landmarkCount)
}

// Store persists the prepared weight tables into the directory. The tables
// can be loaded back with Load against the same graph and config.
func (ls *LandmarkStorage) Store() error {
	if !ls.initialized {
		return fmt.Errorf("landmarks not created yet")
	}
	prefix := ls.keyPrefix()
	n := ls.graph.NumberOfVertices()

	factorBits := math.Float64bits(ls.factor)
	meta := []uint32{
		uint32(n),
		uint32(ls.landmarkCount),
		uint32(len(ls.landmarks)),
		uint32(factorBits >> 32),
		uint32(factorBits),
	}
	if err := ls.dir.PutUint32Array(prefix+"meta", meta); err != nil {
		return err
	}
	if err := ls.dir.PutString(prefix+"config", ls.config.describe()); err != nil {
		return err
	}
	if err := ls.dir.PutUint32Array(prefix+"subnetworks", ls.subnetworks); err != nil {
		return err
	}

	for sid := 1; sid < len(ls.landmarks); sid++ {
		lms := make([]uint32, len(ls.landmarks[sid]))
		for i, lm := range ls.landmarks[sid] {
			lms[i] = uint32(lm)
		}
		key := fmt.Sprintf("%slandmarks/%d", prefix, sid)
		if err := ls.dir.PutUint32Array(key, lms); err != nil {
			return err
		}
	}

	flatFrom := make([]uint32, 0, ls.landmarkCount*n)
	flatTo := make([]uint32, 0, ls.landmarkCount*n)
	for slot := 0; slot < ls.landmarkCount; slot++ {
		flatFrom = append(flatFrom, ls.fromWeights[slot]...)
		flatTo = append(flatTo, ls.toWeights[slot]...)
	}
	if err := ls.dir.PutUint32Array(prefix+"from", flatFrom); err != nil {
		return err
	}
	if err := ls.dir.PutUint32Array(prefix+"to", flatTo); err != nil {
		return err
	}

	ls.logger.Info("stored landmark weight tables",
		zap.String("prefix", prefix),
		zap.Int("landmarks", ls.landmarkCount),
		zap.Int("vertices", n))
	return nil
}

// Load restores previously stored tables. It returns false without error
// when nothing was stored under this config or the stored set was prepared
// with a different cost function.
func (ls *LandmarkStorage) Load() (bool, error) {
	prefix := ls.keyPrefix()

	ok, err := ls.dir.Has(prefix + "config")
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	stored, err := ls.dir.GetString(prefix + "config")
	if err != nil {
		return false, err
	}
	if stored != ls.config.describe() {
		return false, nil
	}

	meta, err := ls.dir.GetUint32Array(prefix + "meta")
	if err != nil {
		return false, err
	}
	if len(meta) != 5 {
		return false, fmt.Errorf("corrupt landmark meta under %q", prefix)
	}
	n := int(meta[0])
	if n != ls.graph.NumberOfVertices() || int(meta[1]) != ls.landmarkCount {
		return false, nil
	}
	subnetworkSets := int(meta[2])
	ls.factor = math.Float64frombits(uint64(meta[3])<<32 | uint64(meta[4]))

	ls.subnetworks, err = ls.dir.GetUint32Array(prefix + "subnetworks")
	if err != nil {
		return false, err
	}
	if len(ls.subnetworks) != n {
		return false, fmt.Errorf("corrupt landmark subnetworks under %q", prefix)
	}

	ls.landmarks = make([][]da.Index, subnetworkSets)
	for sid := 1; sid < subnetworkSets; sid++ {
		key := fmt.Sprintf("%slandmarks/%d", prefix, sid)
		raw, err := ls.dir.GetUint32Array(key)
		if err != nil {
			return false, err
		}
		lms := make([]da.Index, len(raw))
		for i, id := range raw {
			lms[i] = da.Index(id)
		}
		ls.landmarks[sid] = lms
	}

	flatFrom, err := ls.dir.GetUint32Array(prefix + "from")
	if err != nil {
		return false, err
	}
	flatTo, err := ls.dir.GetUint32Array(prefix + "to")
	if err != nil {
		return false, err
	}
	if len(flatFrom) != ls.landmarkCount*n || len(flatTo) != ls.landmarkCount*n {
		return false, fmt.Errorf("corrupt landmark weight tables under %q", prefix)
	}
	ls.fromWeights = make([][]uint32, ls.landmarkCount)
	ls.toWeights = make([][]uint32, ls.landmarkCount)
	for slot := 0; slot < ls.landmarkCount; slot++ {
		ls.fromWeights[slot] = flatFrom[slot*n : (slot+1)*n]
		ls.toWeights[slot] = flatTo[slot*n : (slot+1)*n]
	}

	ls.initialized = true
	ls.logger.Info("loaded landmark weight tables",
		zap.String("prefix", prefix),
		zap.Int("landmarks", ls.landmarkCount),
		zap.Int("vertices", n))
	return true, nil
}

