package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"humansonly/internal/model"
	"humansonly/internal/pkg"
)

type VoteRepository struct {
	DB *gorm.DB
}

// VoteResult 返回事务后的最新计数，调用方无需再查一次
type VoteResult struct {
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
	MyVote    int8  `json:"my_vote"` // 0=无投票
	AuthorID  uint64
	Karma     int64 // 作者相关karma桶的净变化
}

// VotePost 对帖子投票，三种分支在同一事务内完成：
// 无行则插入；同方向则删除（再点一次=撤销）；反方向则原地改值。
// 计数与作者karma在同一事务内按差值调整，绝不出现中间状态。
func (r *VoteRepository) VotePost(ctx context.Context, userID, postID uint64, value int8) (*VoteResult, error) {
	res := &VoteResult{}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.Select("id", "author_id", "upvotes", "downvotes").
			First(&post, "id = ? AND status = 0", postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkg.ErrNotFound
			}
			return err
		}

		var upDelta, downDelta int64
		var vote model.PostVote
		err := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&vote).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// 新投票
			if err = tx.Create(&model.PostVote{UserID: userID, PostID: postID, Value: value}).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return pkg.ErrConflict
				}
				return err
			}
			upDelta, downDelta = deltas(value, 1)
			res.MyVote = value
			res.Karma = int64(value)
		case err != nil:
			return err
		case vote.Value == value:
			// 同方向重复点击=撤销；带值条件删除，并发丢失方affected=0
			del := tx.Where("id = ? AND value = ?", vote.ID, value).Delete(&model.PostVote{})
			if del.Error != nil {
				return del.Error
			}
			if del.RowsAffected == 0 {
				return pkg.ErrConflict
			}
			upDelta, downDelta = deltas(value, -1)
			res.MyVote = 0
			res.Karma = int64(-value)
		default:
			// 反方向=原地切换，旧计数-1新计数+1一次提交
			upd := tx.Model(&model.PostVote{}).
				Where("id = ? AND value = ?", vote.ID, vote.Value).
				Update("value", value)
			if upd.Error != nil {
				return upd.Error
			}
			if upd.RowsAffected == 0 {
				return pkg.ErrConflict
			}
			up1, down1 := deltas(vote.Value, -1)
			up2, down2 := deltas(value, 1)
			upDelta, downDelta = up1+up2, down1+down2
			res.MyVote = value
			res.Karma = int64(2 * value)
		}

		if err = tx.Model(&model.Post{}).Where("id = ?", postID).
			UpdateColumns(map[string]any{
				"upvotes":   gorm.Expr("upvotes + ?", upDelta),
				"downvotes": gorm.Expr("downvotes + ?", downDelta),
			}).Error; err != nil {
			return err
		}

		// 作者karma在同一事务内同步调整
		if err = tx.Model(&model.User{}).Where("id = ?", post.AuthorID).
			UpdateColumns(map[string]any{
				"post_karma": gorm.Expr("post_karma + ?", res.Karma),
				"karma":      gorm.Expr("karma + ?", res.Karma),
			}).Error; err != nil {
			return err
		}

		event := "vote"
		if res.MyVote == 0 {
			event = "unvote"
		}
		if err = insertOutbox(tx, event, userID, postID, map[string]any{
			"kind": "post", "post_id": postID, "value": res.MyVote,
		}); err != nil {
			return err
		}

		res.Upvotes = post.Upvotes + upDelta
		res.Downvotes = post.Downvotes + downDelta
		res.AuthorID = post.AuthorID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// VoteComment 对评论投票，逻辑与VotePost一致，票表和karma桶独立
func (r *VoteRepository) VoteComment(ctx context.Context, userID, commentID uint64, value int8) (*VoteResult, error) {
	res := &VoteResult{}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment model.Comment
		if err := tx.Select("id", "author_id", "upvotes", "downvotes").
			First(&comment, "id = ? AND status = 0", commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkg.ErrNotFound
			}
			return err
		}

		var upDelta, downDelta int64
		var vote model.CommentVote
		err := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).First(&vote).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err = tx.Create(&model.CommentVote{UserID: userID, CommentID: commentID, Value: value}).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return pkg.ErrConflict
				}
				return err
			}
			upDelta, downDelta = deltas(value, 1)
			res.MyVote = value
			res.Karma = int64(value)
		case err != nil:
			return err
		case vote.Value == value:
			del := tx.Where("id = ? AND value = ?", vote.ID, value).Delete(&model.CommentVote{})
			if del.Error != nil {
				return del.Error
			}
			if del.RowsAffected == 0 {
				return pkg.ErrConflict
			}
			upDelta, downDelta = deltas(value, -1)
			res.MyVote = 0
			res.Karma = int64(-value)
		default:
			upd := tx.Model(&model.CommentVote{}).
				Where("id = ? AND value = ?", vote.ID, vote.Value).
				Update("value", value)
			if upd.Error != nil {
				return upd.Error
			}
			if upd.RowsAffected == 0 {
				return pkg.ErrConflict
			}
			up1, down1 := deltas(vote.Value, -1)
			up2, down2 := deltas(value, 1)
			upDelta, downDelta = up1+up2, down1+down2
			res.MyVote = value
			res.Karma = int64(2 * value)
		}

		if err = tx.Model(&model.Comment{}).Where("id = ?", commentID).
			UpdateColumns(map[string]any{
				"upvotes":   gorm.Expr("upvotes + ?", upDelta),
				"downvotes": gorm.Expr("downvotes + ?", downDelta),
			}).Error; err != nil {
			return err
		}

		if err = tx.Model(&model.User{}).Where("id = ?", comment.AuthorID).
			UpdateColumns(map[string]any{
				"comment_karma": gorm.Expr("comment_karma + ?", res.Karma),
				"karma":         gorm.Expr("karma + ?", res.Karma),
			}).Error; err != nil {
			return err
		}

		event := "vote"
		if res.MyVote == 0 {
			event = "unvote"
		}
		if err = insertOutbox(tx, event, userID, commentID, map[string]any{
			"kind": "comment", "comment_id": commentID, "value": res.MyVote,
		}); err != nil {
			return err
		}

		res.Upvotes = comment.Upvotes + upDelta
		res.Downvotes = comment.Downvotes + downDelta
		res.AuthorID = comment.AuthorID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// MyPostVote 查询当前投票状态，0表示没投
func (r *VoteRepository) MyPostVote(ctx context.Context, userID, postID uint64) (int8, error) {
	var vote model.PostVote
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return vote.Value, nil
}

func (r *VoteRepository) MyCommentVote(ctx context.Context, userID, commentID uint64) (int8, error) {
	var vote model.CommentVote
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND comment_id = ?", userID, commentID).First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return vote.Value, nil
}

// deltas 把一次票变化换算成up/down两列的差值
func deltas(value int8, sign int64) (up, down int64) {
	if value > 0 {
		return sign, 0
	}
	return 0, sign
}
