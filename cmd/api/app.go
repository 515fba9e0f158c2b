package main

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/johnquangdev/voice-memo/internal/adapter/dto/common"
	"github.com/johnquangdev/voice-memo/internal/adapter/handler"
	"github.com/johnquangdev/voice-memo/internal/adapter/repository"
	"github.com/johnquangdev/voice-memo/internal/domain/repositories"
	"github.com/johnquangdev/voice-memo/internal/infrastructure/cache"
	"github.com/johnquangdev/voice-memo/internal/infrastructure/storage"
	aiuse "github.com/johnquangdev/voice-memo/internal/usecase/ai"
	commentuse "github.com/johnquangdev/voice-memo/internal/usecase/comment"
	memouse "github.com/johnquangdev/voice-memo/internal/usecase/memo"
	pkgai "github.com/johnquangdev/voice-memo/pkg/ai"
	"github.com/johnquangdev/voice-memo/pkg/config"
)

// app holds the wired services shared by the server and the CLI
type app struct {
	memoService    *memouse.MemoService
	commentService *commentuse.CommentService
	aiService      aiuse.Service
	capabilities   common.Capabilities
	probes         []handler.Probe
	closers        []func() error
}

// newLogger builds a development logger in development and a production logger otherwise
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newApp connects the configured collaborators. Every one of them is optional.
func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}

	// Object store
	var blobs repositories.BlobStore
	switch {
	case cfg.Storage.InMemory():
		log.Println("🗄️  Using in-memory object store (memos are lost on restart)")
		blobs = storage.NewMemoryStore("")
	case cfg.Storage.Enabled():
		log.Printf("📦 Connecting to object store %s ...", cfg.Storage.Endpoint)
		minioClient, err := storage.NewMinIOClient(ctx, &cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to object store: %w", err)
		}
		blobs = minioClient
		a.probes = append(a.probes, handler.Probe{Name: "storage", Check: minioClient.Ping})
	default:
		log.Println("⚠️  No object store configured: audio goes to local disk, memos and comments are not persisted")
	}
	a.capabilities.Storage = blobs != nil

	// Per-memo locks for comment writes
	var locker repositories.Locker = cache.NewMemoryLocker()
	a.capabilities.Locking = "memory"
	if cfg.Redis.Enabled() {
		log.Println("🔒 Connecting to Redis for comment locks...")
		redisClient, err := cache.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		locker = cache.NewRedisLocker(redisClient, cfg.Redis.LockTTL)
		a.capabilities.Locking = "redis"
		a.closers = append(a.closers, redisClient.Close)
		a.probes = append(a.probes, handler.Probe{Name: "redis", Check: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}})
	}

	// Providers
	var transcriber aiuse.Transcriber
	if cfg.Assembly.Enabled() {
		log.Println("🎙️  AssemblyAI transcription enabled")
		transcriber = pkgai.NewAssemblyAITranscriber(&cfg.Assembly)
	} else {
		log.Println("⚠️  ASSEMBLYAI_API_KEY not set: transcripts will be unavailable")
	}
	var chat aiuse.ChatCompleter
	if cfg.Groq.Enabled() {
		log.Printf("🤖 Groq enabled (model %s)", cfg.Groq.Model)
		chat = pkgai.NewGroqClient(&cfg.Groq)
	} else {
		log.Println("⚠️  GROQ_API_KEY not set: questions and title refinement disabled")
	}

	// Local audio fallback, only used without an object store
	var local repositories.AudioStore
	if cfg.Server.UploadsDir != "" {
		localDisk, err := storage.NewLocalDisk(cfg.Server.UploadsDir)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare uploads dir: %w", err)
		}
		local = localDisk
	}

	log.Println("⚙️  Initializing services...")
	memoRepo := repository.NewMemoRepository(blobs, cfg.Storage.Prefix, logger)
	commentRepo := repository.NewCommentRepository(blobs, locker, cfg.Storage.Prefix, logger)
	a.commentService = commentuse.NewCommentService(memoRepo, commentRepo, logger)
	a.aiService = aiuse.NewAIService(memoRepo, a.commentService, transcriber, chat, cfg, logger)

	var audio repositories.AudioStore
	if blobs != nil {
		audio = blobs
	}
	a.memoService = memouse.NewMemoService(memoRepo, audio, local, a.aiService, memouse.Options{
		Prefix:       cfg.Storage.Prefix,
		ShareBaseURL: cfg.Server.ShareBaseURL,
	}, logger)

	a.capabilities.Transcription = a.aiService.CanTranscribe()
	a.capabilities.QA = a.aiService.CanAnswer()
	return a, nil
}

// Close releases connections opened by newApp
func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			log.Printf("⚠️  close failed: %v", err)
		}
	}
}
