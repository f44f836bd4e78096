package sender

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/m3rciful/librarybot/core/logger"
)

func TestDispatcherKeepsPerChatOrder(t *testing.T) {
	d := NewDispatcher(Options{Workers: 4, QueueSize: 256})

	var (
		mu  sync.Mutex
		got = map[int64][]int{}
	)
	for i := 0; i < 50; i++ {
		for chat := int64(1); chat <= 3; chat++ {
			ctx := logger.WithUpdateMeta(context.Background(), i, chat, chat)
			if err := d.Enqueue(ctx, "send.text", "sendMessage", func() error {
				mu.Lock()
				got[chat] = append(got[chat], i)
				mu.Unlock()
				return nil
			}); err != nil {
				t.Fatalf("enqueue: %v", err)
			}
		}
	}
	d.Close()

	for chat, seq := range got {
		if len(seq) != 50 {
			t.Fatalf("chat %d: %d jobs ran, want 50", chat, len(seq))
		}
		for i, v := range seq {
			if v != i {
				t.Fatalf("chat %d: job %d ran at position %d", chat, v, i)
			}
		}
	}
	if s := d.Stats(); s.Sent != 150 || s.Failed != 0 {
		t.Fatalf("stats = %+v", s)
	}
}

func TestDispatcherRetriesTransientErrors(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, MaxRetries: 2, RetryBackoff: time.Millisecond})

	calls := 0
	done := make(chan struct{})
	err := d.Enqueue(context.Background(), "send.text", "sendMessage", func() error {
		calls++
		if calls < 3 {
			return &net.OpError{Op: "dial", Err: errors.New("refused")}
		}
		close(done)
		return nil
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	<-done
	d.Close()
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	if s := d.Stats(); s.Sent != 1 {
		t.Fatalf("stats = %+v", s)
	}
}

func TestDispatcherCountsPermanentFailure(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, MaxRetries: 5, RetryBackoff: time.Millisecond})
	calls := 0
	_ = d.Enqueue(context.Background(), "send.document", "sendDocument", func() error {
		calls++
		return errors.New("Bad Request: wrong file identifier")
	})
	d.Close()
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if s := d.Stats(); s.Failed != 1 {
		t.Fatalf("stats = %+v", s)
	}
}

func TestDispatcherRejectsAfterClose(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1})
	d.Close()
	d.Close()
	if err := d.Enqueue(context.Background(), "a", "b", func() error { return nil }); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("Enqueue after close = %v", err)
	}
}

func TestRedactToken(t *testing.T) {
	err := errors.New(`Post "https://api.telegram.org/bot123456:AA-bb_cc/sendMessage": timeout`)
	got := redactToken(err)
	if got != `Post "https://api.telegram.org/bot<redacted>/sendMessage": timeout` {
		t.Fatalf("redactToken = %q", got)
	}
}

func TestClassifyError(t *testing.T) {
	if got := classifyError(context.DeadlineExceeded); got != "timeout" {
		t.Fatalf("deadline: %q", got)
	}
	if got := classifyError(&net.OpError{Op: "dial", Err: errors.New("x")}); got != "dial" {
		t.Fatalf("dial: %q", got)
	}
	if got := classifyError(errors.New("boom")); got != "unknown" {
		t.Fatalf("plain: %q", got)
	}
}
