package ai

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/voice-memo/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/voice-memo/internal/usecase/errors"
	"github.com/johnquangdev/voice-memo/internal/usecase/transcript"
	pkgai "github.com/johnquangdev/voice-memo/pkg/ai"
)

const askSystemPrompt = "Answer questions using only the provided transcript."

// Ask answers question from the memo's transcript lines only
func (s *aiService) Ask(ctx context.Context, memoID, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: question is required", usecaseErrors.ErrInvalidInput)
	}

	memo, err := s.memoRepo.Get(ctx, memoID)
	if err != nil {
		return "", err
	}
	if s.chat == nil {
		return "", usecaseErrors.ErrQAUnavailable
	}

	payload := memo.Transcript.Payload()
	if memo.Transcript.CurrentStatus() != entities.TranscriptStatusReady || payload == nil {
		return "", usecaseErrors.ErrTranscriptNotReady
	}

	text := transcript.PlainText(payload.Lines, " ")
	answer, err := s.chat.Complete(ctx, []pkgai.Message{
		{Role: "system", Content: askSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Transcript:\n%s\n\nQuestion: %s", text, question)},
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Question answering failed",
				zap.String("memo_id", memoID),
				zap.String("error_kind", pkgai.Classify(err).String()),
				zap.Error(err),
			)
		}
		return "", fmt.Errorf("failed to answer question: %w", err)
	}
	return answer, nil
}
