package service

import (
	"context"
	"errors"
	"testing"

	"humansonly/internal/model"
	"humansonly/internal/pkg"
)

func TestCreateCommunityValidatesSlug(t *testing.T) {
	db := newTestDB(t)
	creator := seedUser(t, db, "creator")

	svc := NewCommunityService(db)
	bad := []string{"", "a", "ab", "-startdash", "enddash-", "UPPER", "has space", "中文"}
	for _, slug := range bad {
		if _, err := svc.CreateCommunity(context.Background(), creator.ID, slug, "name", ""); err == nil {
			t.Fatalf("slug %q accepted", slug)
		}
	}

	good := []string{"abc", "go-lang", "a_b_c", "rust2026"}
	for i, slug := range good {
		if _, err := svc.CreateCommunity(context.Background(), creator.ID, slug, "name", ""); err != nil {
			t.Fatalf("slug %q rejected: %v (case %d)", slug, err, i)
		}
	}
}

func TestCommunityLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	creator := seedUser(t, db, "creator")
	member := seedUser(t, db, "member")

	svc := NewCommunityService(db)
	comm, err := svc.CreateCommunity(ctx, creator.ID, "golang", "Go", "all things go")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	role, ok, err := svc.MyRole(ctx, creator.ID, comm.ID)
	if err != nil || !ok || role != model.RoleAdmin {
		t.Fatalf("creator role: role=%d ok=%v err=%v", role, ok, err)
	}

	res, err := svc.JoinCommunity(ctx, member.ID, comm.ID)
	if err != nil || !res.Changed || res.MemberCount != 2 {
		t.Fatalf("join: res=%+v err=%v", res, err)
	}

	got, err := svc.GetBySlug(ctx, "golang")
	if err != nil || got.ID != comm.ID {
		t.Fatalf("get by slug: %v", err)
	}
	if _, err = svc.GetBySlug(ctx, "missing"); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	res, err = svc.LeaveCommunity(ctx, member.ID, comm.ID)
	if err != nil || !res.Changed || res.MemberCount != 1 {
		t.Fatalf("leave: res=%+v err=%v", res, err)
	}
}
