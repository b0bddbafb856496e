package controllers

import "github.com/lintang-b-s/altroute/pkg/guidance"

type shortestPathRequest struct {
	OriginLat      float64 `json:"origin_lat" validate:"required,min=-90,max=90"`
	OriginLon      float64 `json:"origin_lon" validate:"required,min=-180,max=180"`
	DestinationLat float64 `json:"destination_lat" validate:"required,min=-90,max=90"`
	DestinationLon float64 `json:"destination_lon" validate:"required,min=-180,max=180"`
}

type shortestPathResponse struct {
	Eta          float64                `json:"eta"`
	Path         string                 `json:"path"`
	Dist         float64                `json:"distance"`
	Instructions []guidance.Instruction `json:"instructions"`
}

func NewShortestPathResponse(eta, dist float64, path string,
	instructions []guidance.Instruction) shortestPathResponse {
	return shortestPathResponse{
		Eta:          eta,
		Path:         path,
		Dist:         dist,
		Instructions: instructions,
	}
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
