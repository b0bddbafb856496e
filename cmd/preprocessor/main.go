package main

import (
	"flag"

	"github.com/lintang-b-s/altroute/pkg"
	"github.com/lintang-b-s/altroute/pkg/costfunction"
	"github.com/lintang-b-s/altroute/pkg/landmark"
	"github.com/lintang-b-s/altroute/pkg/logger"
	"github.com/lintang-b-s/altroute/pkg/osmparser"
	"github.com/lintang-b-s/altroute/pkg/storage"
)

var (
	mapFile       = flag.String("map", "./data/washington.osm.pbf", "openstreetmap pbf file")
	graphFile     = flag.String("graph", "./data/road_network.graph", "output road network graph file")
	landmarkDir   = flag.String("landmark_dir", "./data/landmarks", "directory for the landmark weight tables")
	landmarkCount = flag.Int("landmarks", pkg.DEFAULT_LANDMARK_COUNT, "number of landmarks per subnetwork")
	minimumNodes  = flag.Int("minimum_nodes", pkg.DEFAULT_MINIMUM_NODES, "smallest component that still gets landmarks")
	weighting     = flag.String("weighting", "fastest", "cost function: fastest or shortest")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	osmParser := osmparser.NewOsmParser()
	graph, err := osmParser.Parse(*mapFile, logger)
	if err != nil {
		panic(err)
	}
	if err := graph.WriteGraph(*graphFile); err != nil {
		panic(err)
	}

	var costFunction costfunction.CostFunction = costfunction.NewTimeCostFunction()
	if *weighting == "shortest" {
		costFunction = costfunction.NewDistanceCostFunction()
	}

	dir, err := storage.NewDiskDirectory(*landmarkDir)
	if err != nil {
		panic(err)
	}
	defer dir.Close()

	lmStorage, err := landmark.NewLandmarkStorage(graph,
		landmark.NewLmConfig("car", costFunction), dir, *landmarkCount, logger)
	if err != nil {
		panic(err)
	}
	lmStorage.SetMinimumNodes(*minimumNodes)

	prepare := landmark.NewPrepareLandmarks(lmStorage, logger)
	if err := prepare.DoWork(); err != nil {
		panic(err)
	}

	logger.Sugar().Infof("Preprocessing completed successfully.")
}
