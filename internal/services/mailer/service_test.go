package mailer

import (
	"context"
	"fmt"
	"io"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/bobmcallan/brief/internal/common"
)

type mockTransport struct {
	mu       sync.Mutex
	failures map[string]error
	// failOnce holds addresses that fail on the first attempt only
	failOnce map[string]error
	attempts map[string]int
}

func newMockTransport() *mockTransport {
	return &mockTransport{
		failures: map[string]error{},
		failOnce: map[string]error{},
		attempts: map[string]int{},
	}
}

func (m *mockTransport) Send(ctx context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[to]++
	if err, ok := m.failOnce[to]; ok && m.attempts[to] == 1 {
		return err
	}
	if err, ok := m.failures[to]; ok {
		return err
	}
	return nil
}

func (m *mockTransport) attemptCount(to string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts[to]
}

func newTestService(transport *mockTransport, workers int) *Service {
	svc := NewService(transport, workers, common.NewSilentLogger())
	svc.sleep = func(time.Duration) {}
	return svc
}

func TestSendBriefingTally(t *testing.T) {
	transport := newMockTransport()
	transport.failures["bad1@example.com"] = &textproto.Error{Code: 550, Msg: "mailbox unavailable"}
	transport.failures["bad2@example.com"] = fmt.Errorf("malformed address")
	svc := newTestService(transport, 2)

	addresses := []string{"a@example.com", "b@example.com", "c@example.com", "bad1@example.com", "bad2@example.com"}
	tally := svc.SendBriefing(context.Background(), addresses, "브리핑", "<p>hi</p>")

	if tally.Success != 3 || tally.Fail != 2 {
		t.Errorf("expected {3 2}, got %+v", tally)
	}
}

func TestSendBriefingEmpty(t *testing.T) {
	svc := newTestService(newMockTransport(), 2)
	tally := svc.SendBriefing(context.Background(), nil, "브리핑", "<p>hi</p>")
	if tally.Success != 0 || tally.Fail != 0 {
		t.Errorf("expected zero tally, got %+v", tally)
	}
}

func TestRetryTransientFailure(t *testing.T) {
	transport := newMockTransport()
	transport.failOnce["flaky@example.com"] = &textproto.Error{Code: 421, Msg: "service not available"}
	svc := newTestService(transport, 1)

	tally := svc.SendBriefing(context.Background(), []string{"flaky@example.com"}, "브리핑", "<p>hi</p>")

	if tally.Success != 1 || tally.Fail != 0 {
		t.Errorf("transient failure should recover, got %+v", tally)
	}
	if got := transport.attemptCount("flaky@example.com"); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestNoRetryOnAuthFailure(t *testing.T) {
	transport := newMockTransport()
	transport.failures["any@example.com"] = &textproto.Error{Code: 535, Msg: "authentication credentials invalid"}
	svc := newTestService(transport, 1)

	tally := svc.SendBriefing(context.Background(), []string{"any@example.com"}, "브리핑", "<p>hi</p>")

	if tally.Fail != 1 {
		t.Errorf("auth failure should fail, got %+v", tally)
	}
	if got := transport.attemptCount("any@example.com"); got != 1 {
		t.Errorf("auth failure must not retry, got %d attempts", got)
	}
}

func TestRetryExhaustion(t *testing.T) {
	transport := newMockTransport()
	transport.failures["down@example.com"] = io.EOF
	svc := newTestService(transport, 1)

	tally := svc.SendBriefing(context.Background(), []string{"down@example.com"}, "브리핑", "<p>hi</p>")

	if tally.Fail != 1 {
		t.Errorf("exhausted retries should count as failure, got %+v", tally)
	}
	if got := transport.attemptCount("down@example.com"); got != maxAttempts {
		t.Errorf("expected %d attempts, got %d", maxAttempts, got)
	}
}

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"shutting down", &textproto.Error{Code: 421, Msg: "service not available"}, true},
		{"local error", &textproto.Error{Code: 451, Msg: "try again"}, true},
		{"over quota", &textproto.Error{Code: 450, Msg: "mailbox busy"}, false},
		{"5xx reply", &textproto.Error{Code: 550, Msg: "rejected"}, false},
		{"auth reject", &textproto.Error{Code: 535, Msg: "bad credentials"}, false},
		{"dropped connection", io.EOF, true},
		{"generic", fmt.Errorf("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isTransient(tc.err); got != tc.want {
				t.Errorf("isTransient(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
