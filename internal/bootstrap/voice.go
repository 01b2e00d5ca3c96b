package bootstrap

import (
	"log/slog"

	"github.com/eleven-am/voice-client/internal/gateway"
	"github.com/eleven-am/voice-client/internal/realtime"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

func ProvideRealtimeClient(cfg *Config, log *slog.Logger) *realtime.Client {
	return realtime.NewClient(realtime.ClientConfig{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.RealtimeURL,
		Session: realtime.Config{
			BufferSizes: realtime.BufferSizes{
				SendQueue: cfg.SendQueueSize,
				Events:    cfg.EventsQueueSize,
			},
		},
		Log: log,
	})
}

func ProvideGatewayHandler(cfg *Config, client *realtime.Client, log *slog.Logger) *gateway.Handler {
	return gateway.NewHandler(client, gateway.Config{
		Model:     cfg.Model,
		AuthToken: cfg.GatewayToken,
	}, log)
}

func RegisterVoiceRoutes(e *echo.Echo, handler *gateway.Handler) {
	handler.RegisterRoutes(e.Group("/v1/voice"))
}

var VoiceModule = fx.Options(
	fx.Provide(
		ProvideRealtimeClient,
		ProvideGatewayHandler,
	),
	fx.Invoke(RegisterVoiceRoutes),
)
