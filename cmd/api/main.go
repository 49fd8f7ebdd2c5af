package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/panjf2000/ants/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/services"
	"github.com/aniketduttaAD/open-education-backend-sub001/config"
	"github.com/aniketduttaAD/open-education-backend-sub001/infrastructure/adapters"
	"github.com/aniketduttaAD/open-education-backend-sub001/infrastructure/db"
	"github.com/aniketduttaAD/open-education-backend-sub001/infrastructure/gin_interface/controllers"
	"github.com/aniketduttaAD/open-education-backend-sub001/infrastructure/realtime"
	"github.com/aniketduttaAD/open-education-backend-sub001/middleware"
)

func main() {
	llmConfig, err := config.GetLLMConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get llm config")
	}

	redisConfig, err := config.GetRedisConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get redis config")
	}

	postgresConfig, err := config.GetPostgresConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get postgres config")
	}

	queueConfig, err := config.GetQueueConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get queue config")
	}

	pipelineConfig, err := config.GetPipelineConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get pipeline config")
	}

	jwksUrl := os.Getenv("JWKS_URL")
	if jwksUrl == "" {
		log.Fatal().Msg("JWKS_URL is not set!")
	}

	zeroLogger := adapters.NewZerologWrapper("api")

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}
	workerPool, err := ants.NewPool(120, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	gormDB, err := db.Open(postgresConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to postgres")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisConfig.Addr,
		Password: redisConfig.Password,
	})
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisConfig.Addr,
		Password: redisConfig.Password,
	})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			zeroLogger.Error(err, "Failed to close queue client")
		}
	}()

	draftStore := adapters.NewRedisDraftStore(redisClient, zeroLogger)
	courseRepository := adapters.NewGormCourseRepository(gormDB, zeroLogger)
	progressRepository := adapters.NewGormProgressRepository(gormDB, zeroLogger)
	vectorStore := adapters.NewGormVectorStore(gormDB, zeroLogger)
	jobQueue := adapters.NewAsynqJobQueue(asynqClient, queueConfig, zeroLogger)
	llmClient := adapters.NewLLMClient(llmConfig, zeroLogger)

	finalizer := services.NewRoadmapFinalizer(zeroLogger, courseRepository, progressRepository,
		jobQueue, pipelineConfig.MinutesPerSubtopic)
	draftEngine := services.NewDraftEngine(zeroLogger, llmClient, draftStore, finalizer)
	indexer := services.NewEmbeddingIndexer(zeroLogger, llmClient, courseRepository, vectorStore)

	hub := realtime.NewHub(zeroLogger)
	forwarderCtx, stopForwarder := context.WithCancel(context.Background())
	defer stopForwarder()
	if err := workerPool.Submit(func() {
		adapters.SubscribeRealtime(forwarderCtx, redisClient, zeroLogger, hub.Broadcast)
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to start realtime forwarder")
	}

	roadmapController := controllers.NewRoadmapController(zeroLogger, draftEngine)
	progressController := controllers.NewProgressController(zeroLogger, progressRepository, hub)
	searchController := controllers.NewSearchController(zeroLogger, llmClient, indexer)

	router := gin.Default()
	if err := router.SetTrustedProxies(nil); err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	authHandler, err := middleware.NewAuthHandler(jwksUrl)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth handler!")
	}
	router.Use(authHandler.AuthMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	roadmapController.RegisterRoutes(router)
	progressController.RegisterRoutes(router, middleware.SSEMiddleware())
	searchController.RegisterRoutes(router)

	if err := router.Run(":8080"); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server!")
	}
}
