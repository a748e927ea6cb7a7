package services

import (
	"context"
	"testing"
	"time"
)

func TestTaskTypeMail_Constant(t *testing.T) {
	if TaskTypeMail != "mail:send" {
		t.Errorf("TaskTypeMail = %q, expected %q", TaskTypeMail, "mail:send")
	}
}

func TestSyncQueue_IsAsync(t *testing.T) {
	q := NewSyncQueue()
	if q.IsAsync() {
		t.Error("SyncQueue should not report async")
	}
}

func TestSyncQueue_EnqueueWithoutProcessor(t *testing.T) {
	q := NewSyncQueue()

	// Dropping silently is the contract; side effects are best-effort
	if err := q.Enqueue(&MailTask{To: []string{"a@example.com"}}); err != nil {
		t.Errorf("Enqueue without processor should not error, got %v", err)
	}
}

func TestSyncQueue_EnqueueProcessesTask(t *testing.T) {
	q := NewSyncQueue()

	processed := make(chan *MailTask, 1)
	q.SetProcessor(func(_ context.Context, task *MailTask) error {
		processed <- task
		return nil
	})

	task := &MailTask{
		To:      []string{"invitee@example.com"},
		Subject: "[JobKit] You have been invited",
		Body:    "<p>hello</p>",
	}
	if err := q.Enqueue(task); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	select {
	case got := <-processed:
		if got.Subject != task.Subject {
			t.Errorf("Subject = %q, expected %q", got.Subject, task.Subject)
		}
		if len(got.To) != 1 || got.To[0] != "invitee@example.com" {
			t.Errorf("To = %v, expected the invitee address", got.To)
		}
	case <-time.After(time.Second):
		t.Fatal("processor was not invoked")
	}
}

func TestSyncQueue_Close(t *testing.T) {
	q := NewSyncQueue()
	if err := q.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
