package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/petguard/petguard_go_server/config"
	"github.com/petguard/petguard_go_server/internal/api"
	"github.com/petguard/petguard_go_server/internal/api/handler"
	"github.com/petguard/petguard_go_server/internal/database"
	"github.com/petguard/petguard_go_server/internal/pkg/cron"
	"github.com/petguard/petguard_go_server/internal/pkg/oauth"
	"github.com/petguard/petguard_go_server/internal/pkg/oss"
	"github.com/petguard/petguard_go_server/internal/pkg/pubsub"
	"github.com/petguard/petguard_go_server/internal/pkg/readcount"
	"github.com/petguard/petguard_go_server/internal/pkg/ws"
	"github.com/petguard/petguard_go_server/internal/repository"
	"github.com/petguard/petguard_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 OSS
	ossClient, err := oss.NewClient(&cfg.OSS)
	if err != nil {
		log.Fatalf("Failed to init oss client: %v", err)
	}

	// 初始化 WebSocket Hub，并把 redis 上的实时事件转发给在线连接
	wsHub := ws.NewHub()
	subscriber := pubsub.NewSubscriber(rdb)
	go func() {
		err := subscriber.Subscribe(context.Background(), func(msg *pubsub.EventMessage) {
			if msg.Room == "" {
				if err := wsHub.Broadcast(msg.Event, msg.Payload); err != nil {
					log.Printf("broadcast %s: %v", msg.Event, err)
				}
				return
			}
			if err := wsHub.BroadcastToRoom(msg.Room, msg.Event, msg.Payload); err != nil {
				log.Printf("broadcast %s to %s: %v", msg.Event, msg.Room, err)
			}
		})
		if err != nil {
			log.Printf("realtime subscriber stopped: %v", err)
		}
	}()
	log.Println("WebSocket hub started")

	publisher := pubsub.NewPublisher(rdb)
	counter := readcount.NewCounter(rdb)

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	savedPostRepo := repository.NewSavedPostRepository(db)

	// 初始化 Service
	authService := service.NewAuthService(userRepo, cfg)
	userService := service.NewUserService(userRepo, ossClient, publisher)
	postService := service.NewPostService(postRepo, likeRepo, userRepo, counter)
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo, publisher)
	savedPostService := service.NewSavedPostService(savedPostRepo, postRepo, postService)
	uploadService := service.NewUploadService(ossClient, cfg)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService, oauth.NewStateStore(rdb), cfg)
	userHandler := handler.NewUserHandler(userService)
	postHandler := handler.NewPostHandler(postService)
	commentHandler := handler.NewCommentHandler(commentService)
	savedPostHandler := handler.NewSavedPostHandler(savedPostService)
	uploadHandler := handler.NewUploadHandler(uploadService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	// 阅读数定时回写
	flusher := cron.NewService(counter, db, time.Minute)
	flusher.Start()
	defer flusher.Stop()

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		userHandler,
		postHandler,
		commentHandler,
		savedPostHandler,
		uploadHandler,
		websocketHandler,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
