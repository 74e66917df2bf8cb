package votes

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/echoverse/backend/internal/models"
)

// Counts are the persisted per-post vote tallies.
type Counts struct {
	Up   int `json:"upVoteCount"`
	Down int `json:"downVoteCount"`
}

// Ledger applies vote requests to posts. Every mutation for a post runs in a
// single transaction that holds a row lock on the post, so concurrent casts on
// the same post serialize and the stored counters always match the vote rows.
// Casts on different posts never block each other.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// CastVote applies one voter's direction request to a post and returns the
// updated tallies. Errors: ErrInvalidDirection, ErrPostNotFound,
// ErrAlreadyVoted, or a wrapped storage error (state unchanged on rollback).
func (l *Ledger) CastVote(ctx context.Context, postID int, voterID string, direction Direction) (Counts, error) {
	if _, err := ParseDirection(string(direction)); err != nil {
		return Counts{}, err
	}

	var counts Counts
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return fmt.Errorf("loading post %d: %w", postID, err)
		}

		existing := Direction("")
		var current models.Vote
		err := tx.Where("post_id = ? AND voter_id = ?", postID, voterID).First(&current).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// voter has no entry on this post yet
		case err != nil:
			return fmt.Errorf("loading vote: %w", err)
		default:
			existing = Direction(current.Direction)
		}

		op, err := resolve(existing, direction)
		if err != nil {
			return err
		}

		switch op {
		case opKeep:
			// retracting a vote that was never cast
			counts = Counts{Up: post.UpVoteCount, Down: post.DownVoteCount}
			return nil
		case opInsert:
			vote := models.Vote{PostID: postID, VoterID: voterID, Direction: string(direction)}
			if err := tx.Create(&vote).Error; err != nil {
				return fmt.Errorf("recording vote: %w", err)
			}
		case opDelete:
			if err := tx.Delete(&current).Error; err != nil {
				return fmt.Errorf("removing vote: %w", err)
			}
		case opSwitch:
			current.Direction = string(direction)
			if err := tx.Save(&current).Error; err != nil {
				return fmt.Errorf("switching vote: %w", err)
			}
		}

		tallied, err := tally(tx, postID)
		if err != nil {
			return err
		}

		update := map[string]interface{}{
			"up_vote_count":   tallied.Up,
			"down_vote_count": tallied.Down,
		}
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Updates(update).Error; err != nil {
			return fmt.Errorf("updating counters: %w", err)
		}

		counts = tallied
		return nil
	})
	if err != nil {
		return Counts{}, err
	}

	return counts, nil
}

// tally recounts the vote rows for a post. Runs inside the cast transaction so
// the persisted counters cannot drift from the rows.
func tally(tx *gorm.DB, postID int) (Counts, error) {
	var up, down int64
	if err := tx.Model(&models.Vote{}).Where("post_id = ? AND direction = ?", postID, DirectionUp).Count(&up).Error; err != nil {
		return Counts{}, fmt.Errorf("counting upvotes: %w", err)
	}
	if err := tx.Model(&models.Vote{}).Where("post_id = ? AND direction = ?", postID, DirectionDown).Count(&down).Error; err != nil {
		return Counts{}, fmt.Errorf("counting downvotes: %w", err)
	}
	return Counts{Up: int(up), Down: int(down)}, nil
}
