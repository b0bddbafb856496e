package main

import (
	"context"
	"flag"

	"github.com/lintang-b-s/altroute/pkg"
	"github.com/lintang-b-s/altroute/pkg/costfunction"
	"github.com/lintang-b-s/altroute/pkg/datastructure"
	"github.com/lintang-b-s/altroute/pkg/http"
	"github.com/lintang-b-s/altroute/pkg/http/usecases"
	"github.com/lintang-b-s/altroute/pkg/landmark"
	"github.com/lintang-b-s/altroute/pkg/logger"
	"github.com/lintang-b-s/altroute/pkg/querygraph"
	"github.com/lintang-b-s/altroute/pkg/spatialindex"
	"github.com/lintang-b-s/altroute/pkg/storage"
	"github.com/lintang-b-s/altroute/pkg/util"
	"go.uber.org/zap"
)

var (
	graphFile             = flag.String("graph", "./data/road_network.graph", "road network graph file")
	landmarkDir           = flag.String("landmark_dir", "./data/landmarks", "directory with the landmark weight tables")
	landmarkCount         = flag.Int("landmarks", pkg.DEFAULT_LANDMARK_COUNT, "number of landmarks per subnetwork")
	activeLandmarks       = flag.Int("active_landmarks", pkg.DEFAULT_ACTIVE_LANDMARK_COUNT, "landmarks steering each query")
	weighting             = flag.String("weighting", "fastest", "cost function: fastest or shortest")
	bidirectional         = flag.Bool("bidirectional", true, "use bidirectional a*")
	leafBoundingBoxRadius = flag.Float64("leaf_bounding_box_radius", 50, "leaf node (r-tree) bounding box radius in meters")
	snapRadius            = flag.Float64("snap_radius", 200, "maximum snapping distance in meters")
	useRateLimit          = flag.Bool("rate_limit", false, "rate limit the http api")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	if err := util.ReadConfig(); err != nil {
		logger.Warn("no config file found, using defaults", zap.Error(err))
	}

	graph, err := datastructure.ReadGraph(*graphFile)
	if err != nil {
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
	prepare := landmark.NewPrepareLandmarks(lmStorage, logger)
	loaded, err := prepare.LoadExisting()
	if err != nil {
		panic(err)
	}
	if !loaded {
		logger.Warn("no stored landmark set found, queries fall back to plain dijkstra",
			zap.String("landmark_dir", *landmarkDir))
	}

	rtree := spatialindex.NewRtree()
	rtree.Build(graph, *leafBoundingBoxRadius, logger)
	snapper := querygraph.NewSnapper(graph, rtree)

	algorithm := pkg.ASTAR
	if *bidirectional {
		algorithm = pkg.ASTAR_BI
	}

	api := http.NewServer(logger)
	routingService := usecases.NewRoutingService(logger, graph, snapper, prepare,
		costFunction, algorithm, *activeLandmarks, *snapRadius)

	ctx, cancel := context.WithCancel(context.Background())
	if _, err := api.Use(ctx, logger, *useRateLimit, routingService); err != nil {
		panic(err)
	}

	signal := http.GracefulShutdown()

	logger.Info("Routing Engine Server Stopped", zap.String("signal", signal.String()))
	cancel()
}
