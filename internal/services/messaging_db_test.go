package services

import (
	"testing"

	"github.com/jobkit/jobkit/internal/models"
)

func seedConversation(t *testing.T, svc *MessagingService) (*models.Company, *models.User, *models.Job) {
	t.Helper()
	company := seedCompany(t, svc.db)
	applicant := models.User{Email: "seeker@test.dev", Name: "Sam Seeker", Kind: models.UserKindSeeker}
	if err := svc.db.Create(&applicant).Error; err != nil {
		t.Fatalf("seed applicant: %v", err)
	}
	job := models.Job{CompanyID: company.ID, Title: "Go Engineer", Status: models.JobStatusOpen}
	if err := svc.db.Create(&job).Error; err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return company, &applicant, &job
}

func TestMessagingService_GetOrCreateThread_Deduplicates(t *testing.T) {
	db := openTestDB(t)
	svc := NewMessagingService(db, nil)
	company, applicant, job := seedConversation(t, svc)

	req := &ThreadRequest{
		CompanyID:   company.ID,
		ApplicantID: applicant.ID,
		JobID:       job.ID,
		Message:     "Hi, I just applied for this role.",
	}

	first, err := svc.GetOrCreateThread(applicant.ID, req, true)
	if err != nil {
		t.Fatalf("first GetOrCreateThread failed: %v", err)
	}
	if !first.Created {
		t.Error("first call should create the thread")
	}
	if first.Thread.LastMessage != req.Message {
		t.Errorf("thread preview = %q, want the seed text", first.Thread.LastMessage)
	}

	second, err := svc.GetOrCreateThread(applicant.ID, req, true)
	if err != nil {
		t.Fatalf("second GetOrCreateThread failed: %v", err)
	}
	if second.Created {
		t.Error("second call must not create a new thread")
	}
	if second.Thread.ID != first.Thread.ID {
		t.Errorf("thread ids differ: %d vs %d", first.Thread.ID, second.Thread.ID)
	}

	var count int64
	db.Model(&models.MessageThread{}).Count(&count)
	if count != 1 {
		t.Errorf("thread count = %d, want 1", count)
	}

	// The application-driven create seeds one applicant message.
	var msgCount int64
	db.Model(&models.Message{}).Where("thread_id = ?", first.Thread.ID).Count(&msgCount)
	if msgCount != 1 {
		t.Errorf("seed message count = %d, want 1", msgCount)
	}
}

func TestMessagingService_GetOrCreateThread_RejectsOutsider(t *testing.T) {
	db := openTestDB(t)
	svc := NewMessagingService(db, nil)
	company, applicant, job := seedConversation(t, svc)

	outsider := models.User{Email: "other@test.dev", Name: "Outsider"}
	if err := db.Create(&outsider).Error; err != nil {
		t.Fatalf("seed outsider: %v", err)
	}

	_, err := svc.GetOrCreateThread(outsider.ID, &ThreadRequest{
		CompanyID:   company.ID,
		ApplicantID: applicant.ID,
		JobID:       job.ID,
		Message:     "hello",
	}, false)
	wantStatus(t, err, 403)
}

func TestMessagingService_SendMessage_FlagsThreadUnread(t *testing.T) {
	db := openTestDB(t)
	svc := NewMessagingService(db, nil)
	company, applicant, job := seedConversation(t, svc)

	created, err := svc.GetOrCreateThread(applicant.ID, &ThreadRequest{
		CompanyID:   company.ID,
		ApplicantID: applicant.ID,
		JobID:       job.ID,
		Message:     "Hi there",
	}, true)
	if err != nil {
		t.Fatalf("GetOrCreateThread failed: %v", err)
	}

	if _, err := svc.SendMessage(applicant.ID, created.Thread.ID, &SendMessageRequest{Content: "Following up"}); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	var thread models.MessageThread
	if err := db.First(&thread, created.Thread.ID).Error; err != nil {
		t.Fatalf("reload thread: %v", err)
	}
	if thread.CompanyRead {
		t.Error("an applicant message should flag the thread unread for the company")
	}
	if thread.LastMessage != "Following up" {
		t.Errorf("preview = %q, want latest message", thread.LastMessage)
	}
}

func TestMessagingService_ListMessages_MarksCallerSideRead(t *testing.T) {
	db := openTestDB(t)
	svc := NewMessagingService(db, nil)
	company, applicant, job := seedConversation(t, svc)

	created, err := svc.GetOrCreateThread(applicant.ID, &ThreadRequest{
		CompanyID:   company.ID,
		ApplicantID: applicant.ID,
		JobID:       job.ID,
		Message:     "Hello!",
	}, true)
	if err != nil {
		t.Fatalf("GetOrCreateThread failed: %v", err)
	}

	if _, err := svc.ListMessages(company.OwnerID, created.Thread.ID, &MessageListRequest{}); err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}

	var thread models.MessageThread
	if err := db.First(&thread, created.Thread.ID).Error; err != nil {
		t.Fatalf("reload thread: %v", err)
	}
	if !thread.CompanyRead {
		t.Error("listing as the company should mark the thread read for the company side")
	}

	var unread int64
	db.Model(&models.Message{}).
		Where("thread_id = ? AND receiver_id = ? AND is_read = ?", created.Thread.ID, company.OwnerID, false).
		Count(&unread)
	if unread != 0 {
		t.Errorf("unread message count for the company owner = %d, want 0", unread)
	}
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	db := openTestDB(t)
	svc := NewNotificationService(db, nil)

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(&CreateNotificationParams{
			UserID:  7,
			Type:    models.NotificationTypeSystem,
			Title:   "Heads up",
			Message: "something happened",
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	if err := svc.MarkAllRead(7); err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}

	resp, err := svc.List(7, &NotificationListRequest{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if resp.UnreadCount != 0 {
		t.Errorf("unread count = %d, want 0", resp.UnreadCount)
	}
	for _, n := range resp.Items {
		if !n.IsRead {
			t.Errorf("notification %d still unread after MarkAllRead", n.ID)
		}
	}
}

func TestNotificationService_Create_RequiresFields(t *testing.T) {
	db := openTestDB(t)
	svc := NewNotificationService(db, nil)

	_, err := svc.Create(&CreateNotificationParams{UserID: 1, Type: models.NotificationTypeSystem})
	wantStatus(t, err, 400)
}
