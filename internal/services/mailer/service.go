// Package mailer fans briefings out to subscriber addresses
package mailer

import (
	"context"
	"errors"
	"io"
	"net"
	"net/textproto"
	"sync"
	"time"

	"github.com/bobmcallan/brief/internal/common"
	"github.com/bobmcallan/brief/internal/interfaces"
	"github.com/bobmcallan/brief/internal/models"
)

const (
	defaultWorkers = 4
	maxAttempts    = 3
	backoffBase    = 2 * time.Second
	backoffCap     = 10 * time.Second
)

// Service implements MailerService
type Service struct {
	transport interfaces.MailTransport
	workers   int
	logger    *common.Logger

	// sleep is replaceable for tests
	sleep func(time.Duration)
}

// NewService creates a new mailer service. workers bounds concurrent
// SMTP sessions; values below 1 fall back to the default.
func NewService(transport interfaces.MailTransport, workers int, logger *common.Logger) *Service {
	if workers < 1 {
		workers = defaultWorkers
	}
	return &Service{
		transport: transport,
		workers:   workers,
		logger:    logger,
		sleep:     time.Sleep,
	}
}

// SendBriefing dispatches the briefing to every address through a bounded
// worker pool and returns the per-recipient tally. Individual failures are
// logged and counted, never returned.
func (s *Service) SendBriefing(ctx context.Context, addresses []string, subject, html string) models.SendTally {
	if len(addresses) == 0 {
		return models.SendTally{}
	}

	jobs := make(chan string)
	var mu sync.Mutex
	var tally models.SendTally

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for to := range jobs {
				err := s.sendWithRetry(ctx, to, subject, html)
				mu.Lock()
				if err != nil {
					tally.Fail++
				} else {
					tally.Success++
				}
				mu.Unlock()
				if err != nil {
					s.logger.Error().Str("to", to).Err(err).Msg("Failed to send briefing")
				} else {
					s.logger.Debug().Str("to", to).Msg("Briefing sent")
				}
			}
		}()
	}

	for _, to := range addresses {
		jobs <- to
	}
	close(jobs)
	wg.Wait()

	s.logger.Info().Int("success", tally.Success).Int("fail", tally.Fail).Msg("Briefing fan-out complete")
	return tally
}

// sendWithRetry retries transient delivery failures with exponential
// backoff. Permanent failures return immediately.
func (s *Service) sendWithRetry(ctx context.Context, to, subject, html string) error {
	backoff := backoffBase

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = s.transport.Send(ctx, to, subject, html)
		if err == nil {
			return nil
		}
		if !isTransient(err) || attempt == maxAttempts {
			return err
		}

		s.logger.Warn().Str("to", to).Int("attempt", attempt).Err(err).Msg("Transient send failure, retrying")
		s.sleep(backoff)
		backoff *= 2
		if backoff > backoffCap {
			backoff = backoffCap
		}
	}
	return err
}

// isTransient reports whether a delivery error is worth retrying.
// Connection-level failures and SMTP 421/451 replies are transient;
// everything else, notably 535 auth rejections, is permanent.
func isTransient(err error) bool {
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		return protoErr.Code == 421 || protoErr.Code == 451
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, io.EOF) {
		return true
	}

	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// Ensure Service implements MailerService
var _ interfaces.MailerService = (*Service)(nil)
