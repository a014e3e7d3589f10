package server

import (
	"log/slog"

	"github.com/golf-alone/teetime-service/internal/config"
	"github.com/golf-alone/teetime-service/internal/logging"
	"github.com/golf-alone/teetime-service/internal/providers"
	"github.com/golf-alone/teetime-service/internal/providers/fixture"
	"github.com/golf-alone/teetime-service/internal/providers/golfcourseapi"
)

func selectProvider(cfg config.Config, logger *slog.Logger) providers.CourseProvider {
	switch cfg.Provider {
	case config.ProviderFixture, "":
		return fixture.New()
	case config.ProviderGolfCourseAPI:
		return golfcourseapi.NewClient(golfcourseapi.Config{
			BaseURL: cfg.GolfAPI.BaseURL,
			APIKey:  cfg.GolfAPI.APIKey,
		})
	default:
		logging.Warn(logger, "unknown provider, falling back to fixture", slog.String(logging.FieldProvider, cfg.Provider))
		return fixture.New()
	}
}
