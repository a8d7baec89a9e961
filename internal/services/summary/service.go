// Package summary turns collected market data into briefing HTML
package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobmcallan/brief/internal/common"
	"github.com/bobmcallan/brief/internal/interfaces"
	"github.com/bobmcallan/brief/internal/models"
)

// Service implements SummaryService
type Service struct {
	generator interfaces.TextGenerator
	logger    *common.Logger
}

// NewService creates a new summary service
func NewService(generator interfaces.TextGenerator, logger *common.Logger) *Service {
	return &Service{
		generator: generator,
		logger:    logger,
	}
}

// GenerateBriefing builds the data digest, calls the text backend and
// returns the briefing HTML. Backend failures are returned to the caller.
func (s *Service) GenerateBriefing(ctx context.Context, data *models.CollectedData) (string, error) {
	if data == nil {
		return "", fmt.Errorf("no collected data")
	}

	digest := buildDigest(data)
	s.logger.Debug().Str("backend", s.generator.Name()).Int("digest_bytes", len(digest)).Msg("Generating briefing")

	text, err := s.generator.Generate(ctx, systemPrompt, digest)
	if err != nil {
		return "", fmt.Errorf("briefing generation failed: %w", err)
	}

	return stripCodeFence(text), nil
}

// stripCodeFence removes a surrounding markdown code block. The leading and
// trailing fences are handled independently so a response with only one of
// them is still cleaned.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx >= 0 {
			text = text[idx+1:]
		} else {
			text = text[3:]
		}
	}
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// Ensure Service implements SummaryService
var _ interfaces.SummaryService = (*Service)(nil)
