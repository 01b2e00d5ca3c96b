package gateway

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/eleven-am/voice-client/internal/realtime"
	"github.com/eleven-am/voice-client/internal/shared"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

type Config struct {
	// Model is used when the client does not pass ?model=.
	Model string
	// AuthToken, when set, is required as a bearer token or ?token=
	// query parameter on incoming connections.
	AuthToken string
}

type Handler struct {
	upstream *realtime.Client
	cfg      Config
	log      *slog.Logger
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func NewHandler(upstream *realtime.Client, cfg Config, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		upstream: upstream,
		cfg:      cfg,
		log:      log.With("component", "gateway"),
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/session", h.handleSession)
}

// handleSession upgrades the request, dials one upstream session for
// the connection and relays frames both ways until either side closes.
func (h *Handler) handleSession(c echo.Context) error {
	if h.cfg.AuthToken != "" && h.clientToken(c) != h.cfg.AuthToken {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
	}

	model := c.QueryParam("model")
	if model == "" {
		model = h.cfg.Model
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", "error", err)
		return err
	}

	session, err := h.upstream.Connect(c.Request().Context(), model)
	if err != nil {
		h.log.Error("upstream connect failed", "model", model, "error", err)
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "upstream unavailable"),
			time.Now().Add(writeWait))
		_ = ws.Close()
		return nil
	}

	log := h.log.With("conn_id", shared.NewID("conn_"))
	log.Info("relay session started", "model", model, "remote", c.RealIP())
	newRelay(ws, session, log).run(c.Request().Context())
	log.Info("relay session ended", "remote", c.RealIP())
	return nil
}

func (h *Handler) clientToken(c echo.Context) string {
	auth := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return c.QueryParam("token")
}
