package main

import (
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/services"
	"github.com/aniketduttaAD/open-education-backend-sub001/config"
	"github.com/aniketduttaAD/open-education-backend-sub001/infrastructure/adapters"
	"github.com/aniketduttaAD/open-education-backend-sub001/infrastructure/db"
)

func main() {
	llmConfig, err := config.GetLLMConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get llm config")
	}

	ttsConfig, err := config.GetTTSConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get tts config")
	}

	s3Config, err := config.GetS3Config()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get s3 config")
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

	rendererConfig, err := config.GetRendererConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get renderer config")
	}

	collaboratorsConfig, err := config.GetCollaboratorsConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get collaborators config")
	}

	authConfig, err := config.NewAuthorizerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get authorizer config")
	}

	zeroLogger := adapters.NewZerologWrapper("worker")

	gormDB, err := db.Open(postgresConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to postgres")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisConfig.Addr,
		Password: redisConfig.Password,
	})

	courseRepository := adapters.NewGormCourseRepository(gormDB, zeroLogger)
	progressRepository := adapters.NewGormProgressRepository(gormDB, zeroLogger)
	vectorStore := adapters.NewGormVectorStore(gormDB, zeroLogger)

	contentFetcher := adapters.NewContentFetcher(zeroLogger)
	llmClient := adapters.NewLLMClient(llmConfig, zeroLogger)
	ttsClient := adapters.NewTTSClient(contentFetcher, ttsConfig, zeroLogger)
	slideRenderer := adapters.NewMarpSlideRenderer(rendererConfig, zeroLogger)
	mediaComposer := adapters.NewFFMPEGMediaComposer(zeroLogger)
	mediaStore, err := adapters.NewS3MediaStore(zeroLogger, s3Config)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create media store")
	}

	authorizer := adapters.NewClientCredentialsAuthorizer(zeroLogger, authConfig)
	collaborators := adapters.NewCollaboratorClient(contentFetcher, authorizer, collaboratorsConfig, zeroLogger)

	realtimePublisher := adapters.NewRedisRealtimePublisher(redisClient, zeroLogger)
	indexer := services.NewEmbeddingIndexer(zeroLogger, llmClient, courseRepository, vectorStore)

	pipeline := services.NewGenerationPipeline(services.GenerationPipelineDeps{
		Logger:      zeroLogger,
		LLM:         llmClient,
		Speech:      ttsClient,
		Slides:      slideRenderer,
		Composer:    mediaComposer,
		Media:       mediaStore,
		Courses:     courseRepository,
		Progress:    progressRepository,
		Realtime:    realtimePublisher,
		Indexer:     indexer,
		Assessments: collaborators,
		Tutor:       collaborators,
	}, pipelineConfig, ttsConfig.DefaultVoice, queueConfig.Attempts)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     redisConfig.Addr,
			Password: redisConfig.Password,
		},
		asynq.Config{
			Concurrency:    queueConfig.Concurrency,
			RetryDelayFunc: adapters.ExponentialBackoff(queueConfig.BackoffBase),
		},
	)

	mux := asynq.NewServeMux()
	mux.Handle(adapters.TaskTypeGeneration, adapters.NewGenerationTaskHandler(pipeline, zeroLogger))

	if err := srv.Run(mux); err != nil {
		log.Fatal().Err(err).Msg("Failed to run worker!")
	}
}
