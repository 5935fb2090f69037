package service

import (
	"context"
	"testing"
)

func TestVotePostRejectsBadValue(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "author")
	voter := seedUser(t, db, "voter")
	comm := seedCommunity(t, db, "golang", author.ID)
	post := seedPost(t, db, comm.ID, author.ID)

	svc := NewVoteServiceWithCache(db, nil, nil)
	for _, v := range []int8{0, 2, -2, 5} {
		if _, err := svc.VotePost(context.Background(), voter.ID, post.ID, v); err == nil {
			t.Fatalf("value %d accepted", v)
		}
	}
}

func TestVotePostFullCycleWithoutCache(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "author")
	voter := seedUser(t, db, "voter")
	comm := seedCommunity(t, db, "golang", author.ID)
	post := seedPost(t, db, comm.ID, author.ID)

	svc := NewVoteServiceWithCache(db, nil, nil)

	res, err := svc.VotePost(ctx, voter.ID, post.ID, 1)
	if err != nil || res.Upvotes != 1 || res.MyVote != 1 {
		t.Fatalf("up: res=%+v err=%v", res, err)
	}

	up, down, err := svc.GetPostScore(ctx, voter.ID, post.ID)
	if err != nil || up != 1 || down != 0 {
		t.Fatalf("score: up=%d down=%d err=%v", up, down, err)
	}

	v, err := svc.MyPostVote(ctx, voter.ID, post.ID)
	if err != nil || v != 1 {
		t.Fatalf("my vote: %d err=%v", v, err)
	}

	res, err = svc.VotePost(ctx, voter.ID, post.ID, 1)
	if err != nil || res.Upvotes != 0 || res.MyVote != 0 {
		t.Fatalf("toggle off: res=%+v err=%v", res, err)
	}
}

func TestVoteCommentRejectsZeroIDs(t *testing.T) {
	db := newTestDB(t)
	svc := NewVoteServiceWithCache(db, nil, nil)
	if _, err := svc.VoteComment(context.Background(), 0, 1, 1); err == nil {
		t.Fatal("zero user id accepted")
	}
	if _, err := svc.VoteComment(context.Background(), 1, 0, 1); err == nil {
		t.Fatal("zero comment id accepted")
	}
}
