package api

import (
	"go.uber.org/fx"

	"github.com/yoppiari/tumor-registry-sub011/followups"
	"github.com/yoppiari/tumor-registry-sub011/quality"
)

type Handler struct {
	followUps followups.Service
	quality   quality.Service
}

type Params struct {
	fx.In

	FollowUps followups.Service
	Quality   quality.Service
}

func NewHandler(p Params) *Handler {
	return &Handler{
		followUps: p.FollowUps,
		quality:   p.Quality,
	}
}
