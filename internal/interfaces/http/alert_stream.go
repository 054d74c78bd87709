package http

import (
	"encoding/json"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Kardex-api/internal/application/alerting"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
)

// AlertHub difunde transiciones de alerta a los clientes websocket conectados.
// Implementa alerting.Notifier: los casos de uso le entregan las transiciones
// después del commit y el hub las reparte best-effort. Un cliente lento se
// desconecta en lugar de bloquear al resto.
type AlertHub struct {
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
	clients    map[*websocket.Conn]struct{}
	logger     zerolog.Logger
}

// NewAlertHub construye el hub. Run debe lanzarse en su propia goroutine.
func NewAlertHub(logger zerolog.Logger) *AlertHub {
	return &AlertHub{
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 64),
		clients:    make(map[*websocket.Conn]struct{}),
		logger:     logger.With().Str("component", "alert_hub").Logger(),
	}
}

// Run atiende registros, bajas y difusión. Toda mutación del mapa de clientes
// pasa por este loop, así que no necesita mutex.
func (h *AlertHub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.clients[conn] = struct{}{}
			h.logger.Debug().Int("clients", len(h.clients)).Msg("cliente websocket conectado")

		case conn := <-h.unregister:
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.logger.Debug().Int("clients", len(h.clients)).Msg("cliente websocket desconectado")

		case payload := <-h.broadcast:
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					h.logger.Warn().Err(err).Msg("error escribiendo al cliente, se desconecta")
					delete(h.clients, conn)
					conn.Close()
				}
			}
		}
	}
}

// NotifyTransitions publica cada transición como un evento JSON independiente.
// Si el buffer de difusión está lleno se descarta el evento: el stream es un
// canal de conveniencia, el estado autoritativo vive en GET /api/alerts.
func (h *AlertHub) NotifyTransitions(transitions []alerting.Transition) {
	for _, tr := range transitions {
		event := dto.AlertEventDTO{Change: tr.Change, Alert: dto.NewAlertDTO(tr.Alert)}
		payload, err := json.Marshal(event)
		if err != nil {
			h.logger.Error().Err(err).Msg("error serializando evento de alerta")
			continue
		}
		select {
		case h.broadcast <- payload:
		default:
			h.logger.Warn().Str("alert_id", tr.Alert.ID).Msg("buffer de difusión lleno, evento descartado")
		}
	}
}

// UpgradeMiddleware deja pasar solo peticiones de upgrade websocket.
func UpgradeMiddleware(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// StreamHandler mantiene la conexión registrada en el hub hasta que el cliente
// la cierre. El stream es de solo lectura para el cliente.
func (h *AlertHub) StreamHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		h.register <- conn
		defer func() { h.unregister <- conn }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
