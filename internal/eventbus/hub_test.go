package eventbus

import (
	"context"
	"testing"
	"time"
)

func TestHubPublishSubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	sub := hub.Subscribe(ctx, 4)

	hub.Publish(Event{Type: EventSampleRecorded, Data: map[string]any{"count": 3}})

	select {
	case evt := <-sub:
		if evt.Type != EventSampleRecorded {
			t.Fatalf("type=%q, want %q", evt.Type, EventSampleRecorded)
		}
		if evt.Timestamp == 0 {
			t.Fatal("Publish 应补齐时间戳")
		}
	case <-time.After(time.Second):
		t.Fatal("未收到事件")
	}
}

func TestHubSlowConsumerDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	sub := hub.Subscribe(ctx, 1)

	// 缓冲只有 1，第二条应被丢弃而非阻塞
	hub.Publish(Event{Type: EventContextUpdated})
	hub.Publish(Event{Type: EventIdleDetected})

	evt := <-sub
	if evt.Type != EventContextUpdated {
		t.Fatalf("type=%q, want %q", evt.Type, EventContextUpdated)
	}
	select {
	case extra := <-sub:
		t.Fatalf("超出缓冲的事件应被丢弃: %+v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnsubscribeOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	hub := NewHub()
	sub := hub.Subscribe(ctx, 4)
	cancel()

	// 取消后通道最终会关闭
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-sub:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("取消订阅后通道应关闭")
		}
	}
}

func TestNilHubPublishDoesNotPanic(t *testing.T) {
	var hub *Hub
	hub.Publish(Event{Type: EventSuggestionsUpdated})
}
