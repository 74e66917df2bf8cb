package feed

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/echoverse/backend/internal/models"
)

const (
	SortRecent  = "recent"
	SortPopular = "popular"

	defaultPage        = 1
	defaultPageSize    = 5
	defaultAuthorLimit = 10
)

// Query names the feed window a client asked for. Zero values mean defaults.
// Search (substring match on tag) wins over Tag (exact match) when both are set.
type Query struct {
	Search   string
	Tag      string
	Sort     string
	Page     int
	PageSize int
}

// Item is a post projection enriched with its comment count. The raw comment
// list is never attached, only the count.
type Item struct {
	models.Post
	CommentCount   int64 `json:"commentCount"`
	VoteDifference int   `json:"voteDifference"`
}

// Page is one window of the feed.
type Page struct {
	TotalCount  int64  `json:"totalCount"`
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
	Posts       []Item `json:"posts"`
}

// Assembler builds paginated feed views over posts. It is a pure read path:
// nothing is locked and nothing is mutated, so it is safe to call concurrently
// with vote casts.
type Assembler struct {
	db *gorm.DB
}

func NewAssembler(db *gorm.DB) *Assembler {
	return &Assembler{db: db}
}

// ListPosts returns one page of the filtered, sorted feed. Empty results are a
// page with zero counts and an empty posts array, never an error.
func (a *Assembler) ListPosts(ctx context.Context, q Query) (Page, error) {
	page, size := normalizeWindow(q.Page, q.PageSize)

	var total int64
	if err := a.filtered(ctx, q).Count(&total).Error; err != nil {
		return Page{}, fmt.Errorf("counting posts: %w", err)
	}

	var posts []models.Post
	err := a.filtered(ctx, q).
		Order(orderClause(q.Sort)).
		Offset((page - 1) * size).
		Limit(size).
		Find(&posts).Error
	if err != nil {
		return Page{}, fmt.Errorf("querying posts: %w", err)
	}

	items, err := a.enrich(ctx, posts)
	if err != nil {
		return Page{}, err
	}

	return Page{
		TotalCount:  total,
		CurrentPage: page,
		TotalPages:  totalPages(total, size),
		Posts:       items,
	}, nil
}

// ListPostsByAuthor returns an author's newest posts, comment counts attached,
// as a single window of at most limit entries.
func (a *Assembler) ListPostsByAuthor(ctx context.Context, email string, limit int) ([]Item, error) {
	if limit < 1 {
		limit = defaultAuthorLimit
	}

	var posts []models.Post
	err := a.db.WithContext(ctx).
		Where("author_email = ?", email).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("querying author posts: %w", err)
	}

	return a.enrich(ctx, posts)
}

// filtered returns a fresh post query with the filter applied.
func (a *Assembler) filtered(ctx context.Context, q Query) *gorm.DB {
	db := a.db.WithContext(ctx).Model(&models.Post{})
	switch {
	case q.Search != "":
		db = db.Where("tag ILIKE ?", "%"+escapeLike(q.Search)+"%")
	case q.Tag != "":
		db = db.Where("tag = ?", q.Tag)
	}
	return db
}

// enrich attaches comment counts with one grouped query over the page's ids.
func (a *Assembler) enrich(ctx context.Context, posts []models.Post) ([]Item, error) {
	items := make([]Item, 0, len(posts))
	if len(posts) == 0 {
		return items, nil
	}

	ids := make([]int, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	type countRow struct {
		PostID int
		Total  int64
	}
	var rows []countRow
	err := a.db.WithContext(ctx).Model(&models.Comment{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("counting comments: %w", err)
	}

	counts := make(map[int]int64, len(rows))
	for _, r := range rows {
		counts[r.PostID] = r.Total
	}

	for _, p := range posts {
		items = append(items, Item{
			Post:           p,
			CommentCount:   counts[p.ID],
			VoteDifference: p.UpVoteCount - p.DownVoteCount,
		})
	}
	return items, nil
}

func normalizeWindow(page, size int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if size < 1 {
		size = defaultPageSize
	}
	return page, size
}

func totalPages(total int64, size int) int {
	return int((total + int64(size) - 1) / int64(size))
}

// orderClause maps a sort name to its SQL ordering. The id tiebreak keeps
// pagination stable for posts that compare equal on the primary key.
func orderClause(sort string) string {
	if sort == SortPopular {
		return "(up_vote_count - down_vote_count) DESC, id DESC"
	}
	return "created_at DESC, id DESC"
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
