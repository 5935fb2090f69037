package service

import (
	"context"
	"errors"
	"testing"

	"humansonly/internal/pkg"
)

func TestKickSelfRejected(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin")
	comm := seedCommunity(t, db, "golang", admin.ID)

	svc := NewModerationService(db)
	if err := svc.Kick(context.Background(), admin.ID, admin.ID, comm.ID); err == nil {
		t.Fatal("self kick accepted")
	}
}

func TestBanSelfRejected(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin")
	comm := seedCommunity(t, db, "golang", admin.ID)

	svc := NewModerationService(db)
	if err := svc.Ban(context.Background(), admin.ID, admin.ID, comm.ID, "x"); err == nil {
		t.Fatal("self ban accepted")
	}
}

func TestUpdateDescriptionRequiresAdmin(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	admin := seedUser(t, db, "admin")
	member := seedUser(t, db, "member")
	comm := seedCommunity(t, db, "golang", admin.ID)

	commSvc := NewCommunityService(db)
	if _, err := commSvc.JoinCommunity(ctx, member.ID, comm.ID); err != nil {
		t.Fatalf("join: %v", err)
	}

	svc := NewModerationService(db)
	if err := svc.UpdateDescription(ctx, member.ID, comm.ID, "hijack"); !errors.Is(err, pkg.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if err := svc.UpdateDescription(ctx, admin.ID, comm.ID, "better words"); err != nil {
		t.Fatalf("admin update: %v", err)
	}
	got, err := commSvc.GetBySlug(ctx, "golang")
	if err != nil || got.Description != "better words" {
		t.Fatalf("description: %q err=%v", got.Description, err)
	}
}
