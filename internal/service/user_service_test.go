package service

import (
	"context"
	"testing"
)

func TestRegisterNormalizesAndRejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	svc := NewUserService(db, nil)
	if err := svc.Register(ctx, "Alice", "password1", "Alice@Example.com", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	u, err := svc.GetProfileByUsername(ctx, "ALICE")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if u.Username != "alice" || u.Email != "alice@example.com" {
		t.Fatalf("not normalized: %q %q", u.Username, u.Email)
	}
	if u.Password == "password1" {
		t.Fatal("password stored in plaintext")
	}

	// 用户名重复
	if err = svc.Register(ctx, "alice", "password2", "other@example.com", ""); err == nil {
		t.Fatal("duplicate username accepted")
	}
	// 邮箱重复
	if err = svc.Register(ctx, "bob", "password2", "alice@example.com", ""); err == nil {
		t.Fatal("duplicate email accepted")
	}
}

func TestVerifyHumanSetsFlag(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "alice")

	svc := NewUserService(db, nil)
	if err := svc.VerifyHuman(ctx, u.ID); err != nil {
		t.Fatalf("verify: %v", err)
	}

	got, err := svc.GetProfile(ctx, u.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if !got.IsVerifiedHuman {
		t.Fatal("flag not set")
	}

	// 不存在的用户
	if err = svc.VerifyHuman(ctx, 9999); err == nil {
		t.Fatal("missing user accepted")
	}
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "alice")

	svc := NewUserService(db, nil)
	if err := svc.UpdateProfile(ctx, u.ID, "Alice L", "gopher"); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := svc.GetProfile(ctx, u.ID)
	if got.DisplayName != "Alice L" || got.Bio != "gopher" {
		t.Fatalf("profile: %+v", got)
	}
}
