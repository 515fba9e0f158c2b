package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-memo/internal/adapter/presenter"
	"github.com/johnquangdev/voice-memo/internal/adapter/repository"
	"github.com/johnquangdev/voice-memo/internal/domain/entities"
	"github.com/johnquangdev/voice-memo/internal/infrastructure/cache"
	"github.com/johnquangdev/voice-memo/internal/infrastructure/storage"
	aiuse "github.com/johnquangdev/voice-memo/internal/usecase/ai"
	commentuse "github.com/johnquangdev/voice-memo/internal/usecase/comment"
	memouse "github.com/johnquangdev/voice-memo/internal/usecase/memo"
	pkgai "github.com/johnquangdev/voice-memo/pkg/ai"
	"github.com/johnquangdev/voice-memo/pkg/config"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <file>",
	Short: "Transcribe a local audio file and print the result as JSON",
	Long: `Transcribe a local audio file with the configured provider, run the
transcript derivation (words, lines, chapters, smart comments) and print
the result as JSON. Nothing is written to the configured object store.

Examples:
  voice-memo transcribe ./standup.m4a
  voice-memo transcribe --text ./standup.m4a`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asText, _ := cmd.Flags().GetBool("text")
		return runTranscribe(cmd.Context(), args[0], asText)
	},
}

func init() {
	transcribeCmd.Flags().Bool("text", false, "print the plain-text transcript instead of JSON")
}

// transcriptionOutput is the JSON printed by the transcribe command
type transcriptionOutput struct {
	Transcript *entities.Transcript `json:"transcript"`
	Comments   entities.Comments    `json:"comments"`
}

func runTranscribe(ctx context.Context, path string, asText bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.Assembly.Enabled() {
		return errors.New("ASSEMBLYAI_API_KEY is required to transcribe")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	logger := zap.NewNop()
	if cfg.IsDevelopment() {
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
	}
	defer logger.Sync()

	// The run is throwaway: an in-memory store backs the same pipeline the server uses
	store := storage.NewMemoryStore("")
	memoRepo := repository.NewMemoRepository(store, "cli", logger)
	comments := commentuse.NewCommentService(memoRepo, repository.NewCommentRepository(store, cache.NewMemoryLocker(), "cli", logger), logger)

	var chat aiuse.ChatCompleter
	if cfg.Groq.Enabled() {
		chat = pkgai.NewGroqClient(&cfg.Groq)
	}
	ingest := aiuse.NewAIService(memoRepo, comments, pkgai.NewAssemblyAITranscriber(&cfg.Assembly), chat, cfg, logger)
	memos := memouse.NewMemoService(memoRepo, store, nil, ingest, memouse.Options{Prefix: "cli"}, logger)

	out, err := memos.Upload(ctx, memouse.UploadInput{Filename: filepath.Base(path), Data: data})
	if err != nil {
		return err
	}

	state, err := out.Task.Wait(ctx)
	if err != nil {
		_ = ingest.Shutdown(context.Background())
		return err
	}
	if err := ingest.Shutdown(ctx); err != nil {
		return err
	}
	if state != aiuse.TaskStateReady {
		return fmt.Errorf("transcription %s: %w", state, out.Task.Err())
	}

	t, err := memos.Transcript(ctx, out.Memo.ID)
	if err != nil {
		return err
	}
	if asText {
		fmt.Fprintln(os.Stdout, presenter.ToTranscriptText(t))
		return nil
	}

	list, err := comments.List(ctx, out.Memo.ID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(transcriptionOutput{Transcript: t, Comments: list})
}
