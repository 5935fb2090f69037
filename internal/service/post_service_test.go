package service

import (
	"context"
	"errors"
	"testing"

	"humansonly/internal/pkg"
)

func TestCreatePostRequiresMembership(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	creator := seedUser(t, db, "creator")
	outsider := seedUser(t, db, "outsider")
	comm := seedCommunity(t, db, "golang", creator.ID)

	svc := NewPostService(db)
	if _, err := svc.CreatePost(ctx, outsider.ID, comm.ID, "hi", ""); !errors.Is(err, pkg.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for outsider, got %v", err)
	}

	post, err := svc.CreatePost(ctx, creator.ID, comm.ID, "hi", "body")
	if err != nil {
		t.Fatalf("member post: %v", err)
	}
	if post.ID == 0 {
		t.Fatal("post id not assigned")
	}
}

func TestDeletePostIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	creator := seedUser(t, db, "creator")
	comm := seedCommunity(t, db, "golang", creator.ID)

	svc := NewPostService(db)
	post, err := svc.CreatePost(ctx, creator.ID, comm.ID, "hi", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err = svc.DeletePost(ctx, creator.ID, post.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// 再删一次幂等
	if err = svc.DeletePost(ctx, creator.ID, post.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if _, err = svc.GetPost(ctx, post.ID); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("deleted post readable: %v", err)
	}
}

func TestDeletePostByStrangerForbidden(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	creator := seedUser(t, db, "creator")
	stranger := seedUser(t, db, "stranger")
	comm := seedCommunity(t, db, "golang", creator.ID)

	svc := NewPostService(db)
	post, err := svc.CreatePost(ctx, creator.ID, comm.ID, "hi", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err = svc.DeletePost(ctx, stranger.ID, post.ID); !errors.Is(err, pkg.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err = svc.GetPost(ctx, post.ID); err != nil {
		t.Fatalf("post should survive: %v", err)
	}
}

func TestListByCommunityOrdering(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	creator := seedUser(t, db, "creator")
	comm := seedCommunity(t, db, "golang", creator.ID)

	svc := NewPostService(db)
	for _, title := range []string{"one", "two", "three"} {
		if _, err := svc.CreatePost(ctx, creator.ID, comm.ID, title, ""); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}

	list, err := svc.ListByCommunity(ctx, comm.ID, 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(list))
	}
	// 时间倒序，最后发的排最前
	if list[0].Title != "three" {
		t.Fatalf("ordering: first is %q", list[0].Title)
	}
}
