package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"realtime-service/internal/chat"
	"realtime-service/internal/identity"
	"realtime-service/internal/models"
	"realtime-service/internal/observability"
	"realtime-service/internal/presence"
	"realtime-service/internal/repositories"
	"realtime-service/internal/rooms"
)

const wsEventsRoutingKey = "ws_events.gateway"

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Gateway owns the websocket connection lifecycle: it resolves the
// connecting identity, registers presence, routes inbound events to the
// chat and room services, and fans the results back out through the hub.
type Gateway struct {
	hub      *Hub
	registry *presence.Registry
	resolver identity.Resolver
	chat     *chat.Service
	rooms    *rooms.Manager
	users    repositories.UserRepository
}

// NewGateway constructs a Gateway.
func NewGateway(hub *Hub, registry *presence.Registry, resolver identity.Resolver, chatSvc *chat.Service, roomMgr *rooms.Manager, users repositories.UserRepository) *Gateway {
	return &Gateway{
		hub:      hub,
		registry: registry,
		resolver: resolver,
		chat:     chatSvc,
		rooms:    roomMgr,
		users:    users,
	}
}

// Handle upgrades the request, resolves the identity behind it and runs
// the connection until it closes.
func (g *Gateway) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("realtime-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	token := bearerToken(c)
	profile, err := g.resolver.Resolve(ctx, token)
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, identity.ErrUserUnknown) {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": "identity resolution failed"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      profile.UserID,
		DisplayName: profile.DisplayName,
		Handle:      profile.Handle,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}

	g.hub.AddClient(info.UserID, conn, info)
	g.registry.Register(info.UserID, info.ConnID)

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	g.publishLifecycle(ctx, info, "ws_connect", "")

	g.hub.EmitToConn(conn, EventReady, ReadyPayload{UserID: info.UserID})
	g.broadcastPresence()

	go g.readLoop(conn, info)
}

// readLoop consumes inbound events until the connection drops. Event
// handling runs on a background context: a disconnect stops new events
// from being read but never cancels work already dispatched.
func (g *Gateway) readLoop(conn *websocket.Conn, info ConnInfo) {
	var closeReason string
	defer func() {
		g.hub.RemoveClient(info.UserID, conn)
		remaining := g.registry.Unregister(info.UserID, info.ConnID)
		g.broadcastPresence()

		if remaining == 0 {
			if err := g.users.TouchLastOnline(context.Background(), info.UserID); err != nil {
				log.Printf("last-online update failed: user=%d err=%v", info.UserID, err)
			}
		}

		observability.DecWSActive()
		observability.IncWSEvent("ws_disconnect")
		g.publishLifecycle(context.Background(), info, "ws_disconnect", closeReason)
		conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("ws_error")
				g.publishLifecycle(context.Background(), info, "ws_error", closeReason)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			g.hub.EmitToConn(conn, EventDMError, DMErrorPayload{Error: "malformed event"})
			continue
		}
		g.dispatch(context.Background(), conn, info, env)
	}
}

func (g *Gateway) dispatch(ctx context.Context, conn *websocket.Conn, info ConnInfo, env Envelope) {
	observability.IncWSEvent(env.Event)

	switch env.Event {
	case EventDMSend:
		g.handleDMSend(ctx, conn, info, env.Data)
	case EventDMRead:
		g.handleDMRead(ctx, conn, info, env.Data)
	case EventDMTyping:
		g.handleDMTyping(conn, info, env.Data)
	case EventRoomJoin:
		g.handleRoomJoin(ctx, conn, info, env.Data)
	case EventRoomLeave:
		g.handleRoomLeave(ctx, conn, info, env.Data)
	case EventRoomMessage:
		g.handleRoomMessage(ctx, conn, info, env.Data)
	default:
		log.Printf("unknown ws event %q from user %d", env.Event, info.UserID)
	}
}

func (g *Gateway) handleDMSend(ctx context.Context, conn *websocket.Conn, info ConnInfo, data json.RawMessage) {
	var payload DMSendPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		g.hub.EmitToConn(conn, EventDMError, DMErrorPayload{Error: "malformed dm:send payload"})
		return
	}

	msg, err := g.chat.Send(ctx, info.UserID, payload.RecipientUserID, payload.Body, payload.ImageURL)
	if err != nil {
		g.hub.EmitToConn(conn, EventDMError, DMErrorPayload{Error: err.Error()})
		return
	}

	// Both parties see the message on their private channels; the
	// sender's other devices stay in sync this way.
	if err := g.hub.PushToUser(msg.SenderUserID, EventDMMessage, msg); err != nil {
		log.Printf("dm push to sender failed: %v", err)
	}
	if err := g.hub.PushToUser(msg.RecipientUserID, EventDMMessage, msg); err != nil {
		log.Printf("dm push to recipient failed: %v", err)
	}
}

func (g *Gateway) handleDMRead(ctx context.Context, conn *websocket.Conn, info ConnInfo, data json.RawMessage) {
	var payload DMReadPayload
	if err := json.Unmarshal(data, &payload); err != nil || len(payload.MessageIDs) == 0 {
		g.hub.EmitToConn(conn, EventDMError, DMErrorPayload{Error: "messageIds are required"})
		return
	}

	if err := g.chat.MarkRead(ctx, payload.MessageIDs, info.UserID); err != nil {
		g.hub.EmitToConn(conn, EventDMError, DMErrorPayload{Error: "failed to mark messages read"})
		return
	}

	update := DMStatusUpdatePayload{
		MessageIDs:     payload.MessageIDs,
		Status:         string(models.MessageStatusRead),
		ConversationID: info.UserID,
	}
	if err := g.hub.PushToUser(payload.SenderUserID, EventDMStatusUpdate, update); err != nil {
		log.Printf("status update push failed: %v", err)
	}
}

func (g *Gateway) handleDMTyping(conn *websocket.Conn, info ConnInfo, data json.RawMessage) {
	var payload DMTypingInbound
	if err := json.Unmarshal(data, &payload); err != nil || payload.RecipientUserID <= 0 {
		return
	}

	out := DMTypingPayload{
		SenderUserID:  info.UserID,
		RecipientRoom: fmt.Sprintf("dm:user:%d", payload.RecipientUserID),
		IsTyping:      payload.IsTyping,
	}
	if err := g.hub.PushToUser(payload.RecipientUserID, EventDMTyping, out); err != nil {
		log.Printf("typing push failed: %v", err)
	}
}

func (g *Gateway) handleRoomJoin(ctx context.Context, conn *websocket.Conn, info ConnInfo, data json.RawMessage) {
	var roomID int
	if err := json.Unmarshal(data, &roomID); err != nil || roomID <= 0 {
		g.hub.EmitToConn(conn, EventRoomError, RoomErrorPayload{Message: "roomId is required"})
		return
	}

	if _, err := g.rooms.Join(ctx, roomID, info.UserID); err != nil {
		g.hub.EmitToConn(conn, EventRoomError, RoomErrorPayload{Message: err.Error()})
		return
	}
	g.hub.JoinRoom(roomID, conn)

	count, err := g.rooms.ParticipantCount(ctx, roomID)
	if err != nil {
		log.Printf("participant count failed: room=%d err=%v", roomID, err)
		return
	}
	g.hub.EmitToRoom(roomID, EventRoomParticipants, RoomParticipantsPayload{RoomID: roomID, Count: count})
}

func (g *Gateway) handleRoomLeave(ctx context.Context, conn *websocket.Conn, info ConnInfo, data json.RawMessage) {
	var roomID int
	if err := json.Unmarshal(data, &roomID); err != nil || roomID <= 0 {
		return
	}

	g.hub.LeaveRoom(roomID, conn)
	if err := g.rooms.Leave(ctx, roomID, info.UserID); err != nil {
		log.Printf("room leave failed: room=%d user=%d err=%v", roomID, info.UserID, err)
	}
}

func (g *Gateway) handleRoomMessage(ctx context.Context, conn *websocket.Conn, info ConnInfo, data json.RawMessage) {
	var payload RoomMessageInbound
	if err := json.Unmarshal(data, &payload); err != nil || payload.RoomID <= 0 {
		g.hub.EmitToConn(conn, EventRoomError, RoomErrorPayload{Message: "roomId and content are required"})
		return
	}

	msg, err := g.rooms.PostMessage(ctx, payload.RoomID, info.UserID, payload.Content)
	if err != nil {
		g.hub.EmitToConn(conn, EventRoomError, RoomErrorPayload{Message: err.Error()})
		return
	}
	g.hub.EmitToRoom(msg.RoomID, EventRoomMessage, msg)
}

func (g *Gateway) broadcastPresence() {
	g.hub.BroadcastPresence(g.registry.Snapshot())
}

func (g *Gateway) publishLifecycle(ctx context.Context, info ConnInfo, event, reason string) {
	payload := map[string]interface{}{
		"ws": map[string]interface{}{
			"kind":        "gateway",
			"event":       event,
			"conn_id":     info.ConnID,
			"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
			"reason":      reason,
		},
		"identity": map[string]interface{}{
			"user_id":   info.UserID,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}
	_ = observability.PublishEvent(ctx, wsEventsRoutingKey, observability.EventEnvelope{
		EventType: "ws_events",
		EventName: event,
		Payload:   payload,
	}, observability.BuildHeaders(info.RequestID, info.TraceID))
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		token := c.Query("token")
		return token
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}
