package mode

import (
	"context"
	"log/slog"

	"github.com/optimosight/vto-go/model"
	"github.com/optimosight/vto-go/pipeline"
	"github.com/optimosight/vto-go/service/lgr"
)

type Processor func(canxCtx context.Context, svcs pipeline.ServicesFactory) error

func procStats(stats interface{}) {
	switch stats := stats.(type) {
	case model.FramerStats:
		lgr.Logger.Info(
			"framer stats",
			slog.String("name", stats.Name),
			slog.String("source", stats.Source),
			slog.Int("frames", stats.Frames),
			slog.Int("dropped", stats.Dropped),
			slog.Int("errors", stats.Errors),
			slog.Int64("uptime", stats.Uptime),
			slog.Int("fps", stats.FPS),
		)
	case model.LoopStats:
		lgr.Logger.Info(
			"frame loop stats",
			slog.String("name", stats.Name),
			slog.Int("frames", stats.Frames),
			slog.Int("skipped", stats.Skipped),
			slog.Int("noFaceTicks", stats.NoFaceTicks),
			slog.Int("errors", stats.Errors),
			slog.Int64("uptime", stats.Uptime),
			slog.Int("fps", stats.FPS),
			slog.Float64("avgTickTime", stats.AvgTickTime),
		)
	default:
		lgr.Logger.Error(
			"unknown stats type",
			slog.Any("stats", stats),
		)
	}
}

func procError(err interface{}) {
	switch err := err.(type) {
	case model.CustomError:
		lgr.Logger.Error(
			"processor error",
			slog.String("processor", err.Processor),
			slog.String("message", err.Message),
			slog.Any("error", err.Inner),
		)
	default:
		lgr.Logger.Error(
			"processor error",
			slog.Any("error", err),
		)
	}
}
