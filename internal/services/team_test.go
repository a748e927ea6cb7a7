package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jobkit/jobkit/internal/models"
	"github.com/jobkit/jobkit/pkg/response"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := models.MigrateAll(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", status)
	}
	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.HTTPStatus != status {
		t.Errorf("expected status %d, got %d (%s)", status, appErr.HTTPStatus, appErr.Message)
	}
}

func seedCompany(t *testing.T, db *gorm.DB) *models.Company {
	t.Helper()
	owner := models.User{Email: "owner@acme.test", Name: "Owner", Kind: models.UserKindCompany}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	company := models.Company{Name: "Acme", OwnerID: owner.ID}
	if err := db.Create(&company).Error; err != nil {
		t.Fatalf("seed company: %v", err)
	}
	return &company
}

func TestTeamService_Invite_HRDefaults(t *testing.T) {
	db := openTestDB(t)
	company := seedCompany(t, db)
	svc := NewTeamService(db, nil, nil)

	member, err := svc.Invite(company.ID, &InviteRequest{Email: "alice@co.com", Role: models.RoleHR})
	if err != nil {
		t.Fatalf("Invite failed: %v", err)
	}

	if member.Status != models.InviteStatusPending {
		t.Errorf("status = %s, want PENDING", member.Status)
	}
	if member.InviteToken == "" {
		t.Error("expected a non-empty invite token")
	}
	got := member.PermissionSet()
	want := models.Permissions{CreateJobs: true, EditJobs: true, ReviewApps: true}
	if got != want {
		t.Errorf("HR capabilities = %+v, want %+v", got, want)
	}

	listed, err := svc.List(company.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed) != 1 || listed[0].PermissionSet() != want {
		t.Errorf("listed member does not carry the HR defaults: %+v", listed)
	}
}

func TestTeamService_Invite_DuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	company := seedCompany(t, db)
	svc := NewTeamService(db, nil, nil)

	if _, err := svc.Invite(company.ID, &InviteRequest{Email: "bob@co.com", Role: models.RoleViewer}); err != nil {
		t.Fatalf("first Invite failed: %v", err)
	}
	_, err := svc.Invite(company.ID, &InviteRequest{Email: "bob@co.com", Role: models.RoleHR})
	wantStatus(t, err, 409)
}

func TestTeamService_Invite_UnknownRole(t *testing.T) {
	db := openTestDB(t)
	company := seedCompany(t, db)
	svc := NewTeamService(db, nil, nil)

	_, err := svc.Invite(company.ID, &InviteRequest{Email: "x@co.com", Role: "INTERN"})
	wantStatus(t, err, 400)
}

func TestTeamService_Update_OverrideWinsOverRoleDefault(t *testing.T) {
	db := openTestDB(t)
	company := seedCompany(t, db)
	svc := NewTeamService(db, nil, nil)

	member, err := svc.Invite(company.ID, &InviteRequest{Email: "carol@co.com", Role: models.RoleHR})
	if err != nil {
		t.Fatalf("Invite failed: %v", err)
	}

	viewer := models.RoleViewer
	review := true
	updated, err := svc.Update(company.ID, member.ID, &UpdateMemberRequest{
		Role:          &viewer,
		CanReviewApps: &review,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got := updated.PermissionSet()
	want := models.Permissions{ReviewApps: true}
	if got != want {
		t.Errorf("capabilities = %+v, want VIEWER defaults with reviewApps override %+v", got, want)
	}
}

func TestTeamService_ReinviteAfterRemove(t *testing.T) {
	db := openTestDB(t)
	company := seedCompany(t, db)
	svc := NewTeamService(db, nil, nil)

	member, err := svc.Invite(company.ID, &InviteRequest{Email: "erin@co.com", Role: models.RoleViewer})
	if err != nil {
		t.Fatalf("Invite failed: %v", err)
	}
	if err := svc.Remove(company.ID, member.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	// The (company, email) slot must be free again after removal.
	readded, err := svc.Invite(company.ID, &InviteRequest{Email: "erin@co.com", Role: models.RoleHR})
	if err != nil {
		t.Fatalf("re-invite after remove failed: %v", err)
	}
	if readded.Role != models.RoleHR {
		t.Errorf("re-invited role = %s, want HR", readded.Role)
	}

	members, err := svc.List(company.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(members) != 1 {
		t.Errorf("member count = %d, want 1", len(members))
	}
}

func TestTeamService_Update_SameRoleResetsOverrides(t *testing.T) {
	db := openTestDB(t)
	company := seedCompany(t, db)
	svc := NewTeamService(db, nil, nil)

	member, err := svc.Invite(company.ID, &InviteRequest{Email: "frank@co.com", Role: models.RoleHR})
	if err != nil {
		t.Fatalf("Invite failed: %v", err)
	}

	deleteJobs := true
	if _, err := svc.Update(company.ID, member.ID, &UpdateMemberRequest{CanDeleteJobs: &deleteJobs}); err != nil {
		t.Fatalf("override Update failed: %v", err)
	}

	// Re-supplying the current role still resets every flag to its defaults.
	hr := models.RoleHR
	updated, err := svc.Update(company.ID, member.ID, &UpdateMemberRequest{Role: &hr})
	if err != nil {
		t.Fatalf("role Update failed: %v", err)
	}
	got := updated.PermissionSet()
	want := models.Permissions{CreateJobs: true, EditJobs: true, ReviewApps: true}
	if got != want {
		t.Errorf("capabilities = %+v, want HR defaults %+v", got, want)
	}
}

func TestTeamService_Update_SoleAdminDowngradeRejected(t *testing.T) {
	db := openTestDB(t)
	company := seedCompany(t, db)
	svc := NewTeamService(db, nil, nil)

	admin, err := svc.Invite(company.ID, &InviteRequest{Email: "admin@co.com", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("Invite failed: %v", err)
	}

	hr := models.RoleHR
	_, err = svc.Update(company.ID, admin.ID, &UpdateMemberRequest{Role: &hr})
	wantStatus(t, err, 409)
}

func TestTeamService_Remove_LastAdminRejected(t *testing.T) {
	db := openTestDB(t)
	company := seedCompany(t, db)
	svc := NewTeamService(db, nil, nil)

	admin, err := svc.Invite(company.ID, &InviteRequest{Email: "admin@co.com", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("Invite failed: %v", err)
	}

	wantStatus(t, svc.Remove(company.ID, admin.ID), 409)

	// The member must persist after the rejected removal.
	members, err := svc.List(company.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(members) != 1 {
		t.Errorf("expected the sole admin to persist, got %d members", len(members))
	}
}

func TestTeamService_Remove_WithSecondAdmin(t *testing.T) {
	db := openTestDB(t)
	company := seedCompany(t, db)
	svc := NewTeamService(db, nil, nil)

	first, err := svc.Invite(company.ID, &InviteRequest{Email: "a1@co.com", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("Invite failed: %v", err)
	}
	if _, err := svc.Invite(company.ID, &InviteRequest{Email: "a2@co.com", Role: models.RoleAdmin}); err != nil {
		t.Fatalf("Invite failed: %v", err)
	}

	if err := svc.Remove(company.ID, first.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	members, err := svc.List(company.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(members) != 1 || members[0].Email != "a2@co.com" {
		t.Errorf("expected only the second admin to remain, got %+v", members)
	}
}

func TestTeamService_AcceptInvite(t *testing.T) {
	db := openTestDB(t)
	company := seedCompany(t, db)
	svc := NewTeamService(db, nil, nil)

	member, err := svc.Invite(company.ID, &InviteRequest{Email: "dave@co.com", Role: models.RoleRecruiter})
	if err != nil {
		t.Fatalf("Invite failed: %v", err)
	}

	user := models.User{Email: "dave@co.com", Name: "Dave", Kind: models.UserKindCompany}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	accepted, err := svc.Accept(member.InviteToken, user.ID)
	if err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if accepted.Status != models.InviteStatusAccepted {
		t.Errorf("status = %s, want ACCEPTED", accepted.Status)
	}
	if accepted.UserID == nil || *accepted.UserID != user.ID {
		t.Error("accepted invite not linked to the accepting user")
	}

	// A used token is no longer pending.
	if _, err := svc.Accept(member.InviteToken, user.ID); err == nil {
		t.Error("expected second Accept on the same token to fail")
	}
}
