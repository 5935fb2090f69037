package mysql

import (
	"context"
	"errors"
	"testing"

	"humansonly/internal/model"
	"humansonly/internal/pkg"
)

func TestChangeRoleRequiresAdmin(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	admin := seedUser(t, db, "admin")
	member := seedUser(t, db, "member")
	target := seedUser(t, db, "target")
	comm := seedCommunity(t, db, "golang", admin.ID)

	memberRepo := &CommunityMemberRepository{DB: db}
	modRepo := &ModerationRepository{DB: db}
	for _, u := range []uint64{member.ID, target.ID} {
		if _, err := memberRepo.Join(ctx, u, comm.ID); err != nil {
			t.Fatalf("join: %v", err)
		}
	}

	// 普通成员没权限
	if err := modRepo.ChangeRole(ctx, member.ID, target.ID, comm.ID, model.RoleModerator); !errors.Is(err, pkg.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for member, got %v", err)
	}

	// admin可以提拔
	if err := modRepo.ChangeRole(ctx, admin.ID, target.ID, comm.ID, model.RoleModerator); err != nil {
		t.Fatalf("promote: %v", err)
	}
	role, ok, _ := memberRepo.RoleOf(ctx, comm.ID, target.ID)
	if !ok || role != model.RoleModerator {
		t.Fatalf("expected moderator, got role=%d ok=%v", role, ok)
	}
}

func TestChangeRoleNonMemberTarget(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	admin := seedUser(t, db, "admin")
	outsider := seedUser(t, db, "outsider")
	comm := seedCommunity(t, db, "golang", admin.ID)

	modRepo := &ModerationRepository{DB: db}
	if err := modRepo.ChangeRole(ctx, admin.ID, outsider.ID, comm.ID, model.RoleModerator); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLastAdminCannotDemoteSelf(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	admin := seedUser(t, db, "admin")
	other := seedUser(t, db, "other")
	comm := seedCommunity(t, db, "golang", admin.ID)

	memberRepo := &CommunityMemberRepository{DB: db}
	modRepo := &ModerationRepository{DB: db}
	if _, err := memberRepo.Join(ctx, other.ID, comm.ID); err != nil {
		t.Fatalf("join: %v", err)
	}

	// 唯一admin不能给自己降级
	if err := modRepo.ChangeRole(ctx, admin.ID, admin.ID, comm.ID, model.RoleMember); !errors.Is(err, pkg.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// 提拔第二个admin后就可以了
	if err := modRepo.ChangeRole(ctx, admin.ID, other.ID, comm.ID, model.RoleAdmin); err != nil {
		t.Fatalf("promote second admin: %v", err)
	}
	if err := modRepo.ChangeRole(ctx, admin.ID, admin.ID, comm.ID, model.RoleMember); err != nil {
		t.Fatalf("self demote with backup admin: %v", err)
	}
}

func TestKickByModerator(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	admin := seedUser(t, db, "admin")
	mod := seedUser(t, db, "mod")
	target := seedUser(t, db, "target")
	comm := seedCommunity(t, db, "golang", admin.ID)

	memberRepo := &CommunityMemberRepository{DB: db}
	modRepo := &ModerationRepository{DB: db}
	for _, u := range []uint64{mod.ID, target.ID} {
		if _, err := memberRepo.Join(ctx, u, comm.ID); err != nil {
			t.Fatalf("join: %v", err)
		}
	}
	if err := modRepo.ChangeRole(ctx, admin.ID, mod.ID, comm.ID, model.RoleModerator); err != nil {
		t.Fatalf("promote: %v", err)
	}

	if err := modRepo.Kick(ctx, mod.ID, target.ID, comm.ID); err != nil {
		t.Fatalf("kick: %v", err)
	}

	ok, err := memberRepo.IsMember(ctx, comm.ID, target.ID)
	if err != nil || ok {
		t.Fatalf("target still member after kick: ok=%v err=%v", ok, err)
	}
	var c model.Community
	db.First(&c, comm.ID)
	if c.MemberCount != 2 {
		t.Fatalf("member_count after kick: %d", c.MemberCount)
	}

	// 踢出不封禁，可以再加入
	if _, err = memberRepo.Join(ctx, target.ID, comm.ID); err != nil {
		t.Fatalf("rejoin after kick: %v", err)
	}
}

func TestKickRequiresModerator(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	admin := seedUser(t, db, "admin")
	member := seedUser(t, db, "member")
	target := seedUser(t, db, "target")
	comm := seedCommunity(t, db, "golang", admin.ID)

	memberRepo := &CommunityMemberRepository{DB: db}
	modRepo := &ModerationRepository{DB: db}
	for _, u := range []uint64{member.ID, target.ID} {
		if _, err := memberRepo.Join(ctx, u, comm.ID); err != nil {
			t.Fatalf("join: %v", err)
		}
	}

	if err := modRepo.Kick(ctx, member.ID, target.ID, comm.ID); !errors.Is(err, pkg.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestKickNonMemberTarget(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	admin := seedUser(t, db, "admin")
	outsider := seedUser(t, db, "outsider")
	comm := seedCommunity(t, db, "golang", admin.ID)

	modRepo := &ModerationRepository{DB: db}
	if err := modRepo.Kick(ctx, admin.ID, outsider.ID, comm.ID); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBanRemovesMembershipAtomically(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	admin := seedUser(t, db, "admin")
	target := seedUser(t, db, "target")
	comm := seedCommunity(t, db, "golang", admin.ID)

	memberRepo := &CommunityMemberRepository{DB: db}
	modRepo := &ModerationRepository{DB: db}
	if _, err := memberRepo.Join(ctx, target.ID, comm.ID); err != nil {
		t.Fatalf("join: %v", err)
	}

	if err := modRepo.Ban(ctx, admin.ID, target.ID, comm.ID, "spam"); err != nil {
		t.Fatalf("ban: %v", err)
	}

	ok, _ := memberRepo.IsMember(ctx, comm.ID, target.ID)
	if ok {
		t.Fatal("banned user still member")
	}
	bans, err := modRepo.ListBans(ctx, comm.ID)
	if err != nil || len(bans) != 1 {
		t.Fatalf("expected 1 ban, got %d err=%v", len(bans), err)
	}
	if bans[0].UserID != target.ID || bans[0].BannedBy != admin.ID || bans[0].Reason != "spam" {
		t.Fatalf("ban row: %+v", bans[0])
	}

	var c model.Community
	db.First(&c, comm.ID)
	if c.MemberCount != 1 {
		t.Fatalf("member_count after ban: %d", c.MemberCount)
	}
}

func TestBanRequiresAdmin(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	admin := seedUser(t, db, "admin")
	mod := seedUser(t, db, "mod")
	target := seedUser(t, db, "target")
	comm := seedCommunity(t, db, "golang", admin.ID)

	memberRepo := &CommunityMemberRepository{DB: db}
	modRepo := &ModerationRepository{DB: db}
	for _, u := range []uint64{mod.ID, target.ID} {
		if _, err := memberRepo.Join(ctx, u, comm.ID); err != nil {
			t.Fatalf("join: %v", err)
		}
	}
	if err := modRepo.ChangeRole(ctx, admin.ID, mod.ID, comm.ID, model.RoleModerator); err != nil {
		t.Fatalf("promote: %v", err)
	}

	// moderator只能踢不能封
	if err := modRepo.Ban(ctx, mod.ID, target.ID, comm.ID, "x"); !errors.Is(err, pkg.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestBanNonMemberTarget(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	admin := seedUser(t, db, "admin")
	outsider := seedUser(t, db, "outsider")
	comm := seedCommunity(t, db, "golang", admin.ID)

	modRepo := &ModerationRepository{DB: db}
	if err := modRepo.Ban(ctx, admin.ID, outsider.ID, comm.ID, "x"); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUnbanIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	admin := seedUser(t, db, "admin")
	target := seedUser(t, db, "target")
	comm := seedCommunity(t, db, "golang", admin.ID)

	modRepo := &ModerationRepository{DB: db}
	// 没有封禁记录时解封不报错
	if err := modRepo.Unban(ctx, admin.ID, target.ID, comm.ID); err != nil {
		t.Fatalf("unban without ban: %v", err)
	}
}
