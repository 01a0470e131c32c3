package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	grpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"realtime-service/internal/chat"
	"realtime-service/internal/config"
	"realtime-service/internal/db"
	"realtime-service/internal/friends"
	"realtime-service/internal/handlers"
	"realtime-service/internal/identity"
	"realtime-service/internal/middleware"
	"realtime-service/internal/notify"
	"realtime-service/internal/observability"
	"realtime-service/internal/presence"
	"realtime-service/internal/repositories"
	"realtime-service/internal/rooms"
	"realtime-service/internal/telemetry"
	"realtime-service/internal/ws"
)

const serviceName = "realtime-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()
	shutdownTracing, err := telemetry.SetupTracing(ctx, serviceName, cfg.Environment, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	identityConn, err := grpc.Dial(cfg.IdentityGRPCAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	)
	if err != nil {
		log.Fatalf("failed to connect to identity grpc: %v", err)
	}
	defer identityConn.Close()
	resolver := identity.NewClient(identityConn)

	var auditEmitter *telemetry.AuditEmitter
	if cfg.AMQPURL != "" {
		publisher, err := observability.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Printf("rabbitmq disabled: %v", err)
		} else {
			defer publisher.Close()
			observability.SetPublisher(publisher)
			auditEmitter = telemetry.NewAuditEmitter(publisher, "audit_log.realtime", serviceName, cfg.Environment)
		}
	}

	userRepo := repositories.NewUserRepo(database)
	messageRepo := repositories.NewDirectMessageRepo(database)
	friendshipRepo := repositories.NewFriendshipRepo(database)
	notificationRepo := repositories.NewNotificationRepo(database)
	roomRepo := repositories.NewRoomRepo(database)

	registry := presence.NewRegistry()
	hub := ws.NewHub()

	chatService := chat.NewService(messageRepo, friendshipRepo, registry)
	roomManager := rooms.NewManager(roomRepo)
	notifyService := notify.NewService(notificationRepo, registry, hub)
	friendsService := friends.NewService(friendshipRepo, userRepo, notifyService, hub)

	gateway := ws.NewGateway(hub, registry, resolver, chatService, roomManager, userRepo)

	chatHandler := handlers.NewChatHandler(chatService, userRepo)
	friendsHandler := handlers.NewFriendsHandler(friendsService)
	notificationsHandler := handlers.NewNotificationsHandler(notifyService)
	roomsHandler := handlers.NewRoomsHandler(roomManager)

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	authMiddleware := middleware.AuthMiddleware(resolver)

	router.POST("/friends/request", authMiddleware, friendsHandler.SendRequest)
	router.POST("/friends/respond", authMiddleware, friendsHandler.Respond)
	router.GET("/friends", authMiddleware, friendsHandler.ListFriends)
	router.GET("/friends/requests", authMiddleware, friendsHandler.ListRequests)
	router.GET("/friends/search", authMiddleware, friendsHandler.Search)

	router.GET("/notifications", authMiddleware, notificationsHandler.List)
	router.POST("/notifications/:id/read", authMiddleware, notificationsHandler.MarkRead)

	router.GET("/chat/users", authMiddleware, chatHandler.ListChatUsers)
	router.GET("/chat/messages", authMiddleware, chatHandler.GetMessages)

	router.POST("/rooms", authMiddleware, roomsHandler.Create)
	router.GET("/rooms", authMiddleware, roomsHandler.List)
	router.GET("/rooms/:room_id", authMiddleware, roomsHandler.Get)
	router.POST("/rooms/:room_id/join", authMiddleware, roomsHandler.Join)
	router.GET("/rooms/:room_id/messages", authMiddleware, roomsHandler.Messages)

	router.GET("/ws", gateway.Handle)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterDebugRoutes(router, auditEmitter, cfg.DebugRoutes)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
