package mysql

import (
	"context"
	"testing"

	"humansonly/internal/model"
)

func TestRealKarmaFromVoteTables(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "author")
	v1 := seedUser(t, db, "v1")
	v2 := seedUser(t, db, "v2")
	comm := seedCommunity(t, db, "golang", author.ID)
	post := seedPost(t, db, comm.ID, author.ID)
	comment := seedComment(t, db, post.ID, author.ID)

	voteRepo := &VoteRepository{DB: db}
	if _, err := voteRepo.VotePost(ctx, v1.ID, post.ID, 1); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if _, err := voteRepo.VotePost(ctx, v2.ID, post.ID, -1); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if _, err := voteRepo.VoteComment(ctx, v1.ID, comment.ID, 1); err != nil {
		t.Fatalf("vote comment: %v", err)
	}

	repo := &CounterReconcilerRepo{DB: db}
	realPost, err := repo.RealPostKarma(ctx, author.ID)
	if err != nil || realPost != 0 {
		t.Fatalf("real post karma: %d err=%v", realPost, err)
	}
	realComment, err := repo.RealCommentKarma(ctx, author.ID)
	if err != nil || realComment != 1 {
		t.Fatalf("real comment karma: %d err=%v", realComment, err)
	}
}

func TestFixKarmaRestoresBuckets(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "author")
	voter := seedUser(t, db, "voter")
	comm := seedCommunity(t, db, "golang", author.ID)
	post := seedPost(t, db, comm.ID, author.ID)

	voteRepo := &VoteRepository{DB: db}
	if _, err := voteRepo.VotePost(ctx, voter.ID, post.ID, 1); err != nil {
		t.Fatalf("vote: %v", err)
	}

	// 人为把计数写坏
	if err := db.Model(&model.User{}).Where("id = ?", author.ID).
		UpdateColumns(map[string]any{"karma": 100, "post_karma": 42}).Error; err != nil {
		t.Fatalf("corrupt: %v", err)
	}

	repo := &CounterReconcilerRepo{DB: db}
	realPost, _ := repo.RealPostKarma(ctx, author.ID)
	realComment, _ := repo.RealCommentKarma(ctx, author.ID)
	if err := repo.FixKarma(ctx, author.ID, realPost, realComment); err != nil {
		t.Fatalf("fix: %v", err)
	}

	k, pk, ck := userKarma(t, db, author.ID)
	if pk != 1 || ck != 0 || k != 1 {
		t.Fatalf("after fix: karma=%d post=%d comment=%d", k, pk, ck)
	}
}

func TestFixMemberCount(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	creator := seedUser(t, db, "creator")
	member := seedUser(t, db, "member")
	comm := seedCommunity(t, db, "golang", creator.ID)

	memberRepo := &CommunityMemberRepository{DB: db}
	if _, err := memberRepo.Join(ctx, member.ID, comm.ID); err != nil {
		t.Fatalf("join: %v", err)
	}

	if err := db.Model(&model.Community{}).Where("id = ?", comm.ID).
		UpdateColumn("member_count", 99).Error; err != nil {
		t.Fatalf("corrupt: %v", err)
	}

	repo := &CounterReconcilerRepo{DB: db}
	real, err := repo.RealMemberCount(ctx, comm.ID)
	if err != nil || real != 2 {
		t.Fatalf("real member count: %d err=%v", real, err)
	}
	if err = repo.FixMemberCount(ctx, comm.ID, real); err != nil {
		t.Fatalf("fix: %v", err)
	}

	var c model.Community
	db.First(&c, comm.ID)
	if c.MemberCount != 2 {
		t.Fatalf("after fix: %d", c.MemberCount)
	}
}

func TestListUsersCursor(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	for _, name := range []string{"u1", "u2", "u3"} {
		seedUser(t, db, name)
	}

	repo := &CounterReconcilerRepo{DB: db}
	var lastID uint64
	var total int
	for {
		users, next, err := repo.ListUsers(ctx, 2, lastID)
		if err != nil {
			t.Fatalf("list users: %v", err)
		}
		if len(users) == 0 {
			break
		}
		total += len(users)
		lastID = next
	}
	if total != 3 {
		t.Fatalf("expected 3 users over batches, got %d", total)
	}
}
