package services

import (
	"testing"
	"time"

	"github.com/jobkit/jobkit/internal/models"
)

func TestSSEHub_NewSSEHub(t *testing.T) {
	hub := NewSSEHub()
	if hub == nil {
		t.Fatal("NewSSEHub should not return nil")
	}
	if hub.clients == nil {
		t.Error("clients map should be initialized")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("new hub should have 0 clients, got %d", hub.ClientCount())
	}
}

func TestSSEHub_Subscribe(t *testing.T) {
	hub := NewSSEHub()

	ch := hub.Subscribe("client1", 1)
	if ch == nil {
		t.Error("Subscribe should return a channel")
	}
	if hub.ClientCount() != 1 {
		t.Errorf("expected 1 client, got %d", hub.ClientCount())
	}

	ch2 := hub.Subscribe("client2", 2)
	if ch2 == nil {
		t.Error("Subscribe should return a channel")
	}
	if hub.ClientCount() != 2 {
		t.Errorf("expected 2 clients, got %d", hub.ClientCount())
	}
}

func TestSSEHub_Unsubscribe(t *testing.T) {
	hub := NewSSEHub()

	hub.Subscribe("client1", 1)
	hub.Subscribe("client2", 1)

	hub.Unsubscribe("client1")
	if hub.ClientCount() != 1 {
		t.Errorf("expected 1 client after unsubscribe, got %d", hub.ClientCount())
	}

	hub.Unsubscribe("nonexistent")
	if hub.ClientCount() != 1 {
		t.Errorf("unsubscribing nonexistent should not affect count, got %d", hub.ClientCount())
	}
}

func TestSSEHub_PushToUser(t *testing.T) {
	hub := NewSSEHub()

	ch := hub.Subscribe("client1", 7)

	event := NotificationEvent{
		Type:         "notification",
		Notification: &models.Notification{ID: 1, UserID: 7, Type: models.NotificationTypeMessage},
	}
	hub.PushToUser(7, event)

	select {
	case got := <-ch:
		if got.Type != "notification" {
			t.Errorf("event type = %q, expected %q", got.Type, "notification")
		}
		if got.Notification == nil || got.Notification.ID != 1 {
			t.Error("event should carry the notification")
		}
	case <-time.After(time.Second):
		t.Fatal("expected an event on the subscriber channel")
	}
}

func TestSSEHub_PushToUser_OnlyTargetUser(t *testing.T) {
	hub := NewSSEHub()

	mine := hub.Subscribe("client1", 7)
	other := hub.Subscribe("client2", 8)

	hub.PushToUser(7, NotificationEvent{Type: "notification"})

	select {
	case <-mine:
	case <-time.After(time.Second):
		t.Fatal("target user should receive the event")
	}

	select {
	case <-other:
		t.Error("other user should not receive the event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSSEHub_PushToUser_MultipleStreams(t *testing.T) {
	hub := NewSSEHub()

	// Same user with two open tabs
	tab1 := hub.Subscribe("client1", 7)
	tab2 := hub.Subscribe("client2", 7)

	hub.PushToUser(7, NotificationEvent{Type: "unread_count"})

	for i, ch := range []<-chan NotificationEvent{tab1, tab2} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("stream %d should receive the event", i+1)
		}
	}
}

func TestSSEHub_PushToUser_SlowClientDoesNotBlock(t *testing.T) {
	hub := NewSSEHub()

	// Never drained; fill past the buffer
	hub.Subscribe("slow", 7)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 150; i++ {
			hub.PushToUser(7, NotificationEvent{Type: "notification"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pushing to a slow client must not block")
	}
}
