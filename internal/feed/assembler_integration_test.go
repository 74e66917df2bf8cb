package feed

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/echoverse/backend/internal/models"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	flag.Parse()

	// Skip container setup if running in short mode
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("echoverse_test"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start postgres container: %v\n", err)
		os.Exit(1)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get connection string: %v\n", err)
		os.Exit(1)
	}

	db, err := gorm.Open(pgdriver.Open(connStr), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to test database: %v\n", err)
		os.Exit(1)
	}

	if err := db.AutoMigrate(&models.Post{}, &models.Vote{}, &models.Comment{}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to migrate test database: %v\n", err)
		os.Exit(1)
	}

	testDB = db
	code := m.Run()

	if err := container.Terminate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to terminate postgres container: %v\n", err)
	}

	os.Exit(code)
}

func resetTables(t *testing.T) {
	t.Helper()
	require.NoError(t, testDB.Exec("TRUNCATE votes, comments, posts RESTART IDENTITY CASCADE").Error)
}

func seedPost(t *testing.T, tag, authorEmail string, created time.Time, up, down int) models.Post {
	t.Helper()
	post := models.Post{
		Title:         "post " + created.Format(time.RFC3339),
		Tag:           tag,
		AuthorEmail:   authorEmail,
		UpVoteCount:   up,
		DownVoteCount: down,
		CreatedAt:     created,
	}
	require.NoError(t, testDB.Create(&post).Error)
	return post
}

func seedComments(t *testing.T, postID, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		comment := models.Comment{
			PostID:      postID,
			Body:        fmt.Sprintf("comment %d", i),
			AuthorEmail: "commenter@example.com",
		}
		require.NoError(t, testDB.Create(&comment).Error)
	}
}

func TestListPosts_RecentPagination(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	resetTables(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		seedPost(t, "rust", "a@example.com", base.Add(time.Duration(i)*time.Hour), 0, 0)
	}

	assembler := NewAssembler(testDB)
	ctx := context.Background()

	first, err := assembler.ListPosts(ctx, Query{Tag: "rust", Sort: SortRecent, Page: 1, PageSize: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 7, first.TotalCount)
	assert.Equal(t, 1, first.CurrentPage)
	assert.Equal(t, 2, first.TotalPages)
	require.Len(t, first.Posts, 5)

	// newest first
	for i := 1; i < len(first.Posts); i++ {
		assert.True(t, !first.Posts[i-1].CreatedAt.Before(first.Posts[i].CreatedAt),
			"posts must be ordered newest first")
	}

	second, err := assembler.ListPosts(ctx, Query{Tag: "rust", Sort: SortRecent, Page: 2, PageSize: 5})
	require.NoError(t, err)
	assert.Len(t, second.Posts, 2)

	// the two windows tile the whole set
	assert.EqualValues(t, first.TotalCount, len(first.Posts)+len(second.Posts))
}

func TestListPosts_PopularOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	resetTables(t)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedPost(t, "go", "a@example.com", now, 6, 1)             // diff 5
	seedPost(t, "go", "a@example.com", now.Add(time.Hour), 0, 1) // diff -1
	seedPost(t, "go", "a@example.com", now.Add(2*time.Hour), 3, 0) // diff 3

	assembler := NewAssembler(testDB)
	page, err := assembler.ListPosts(context.Background(), Query{Sort: SortPopular})
	require.NoError(t, err)
	require.Len(t, page.Posts, 3)

	diffs := []int{page.Posts[0].VoteDifference, page.Posts[1].VoteDifference, page.Posts[2].VoteDifference}
	assert.Equal(t, []int{5, 3, -1}, diffs)
}

func TestListPosts_SearchBeatsExactTag(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	resetTables(t)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedPost(t, "golang", "a@example.com", now, 0, 0)
	seedPost(t, "rust", "a@example.com", now, 0, 0)

	assembler := NewAssembler(testDB)

	// search matches by substring, case-insensitive, and wins over tag
	page, err := assembler.ListPosts(context.Background(), Query{Search: "GOLA", Tag: "rust"})
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "golang", page.Posts[0].Tag)
}

func TestListPosts_ExactTagFilter(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	resetTables(t)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedPost(t, "go", "a@example.com", now, 0, 0)
	seedPost(t, "golang", "a@example.com", now, 0, 0)

	assembler := NewAssembler(testDB)
	page, err := assembler.ListPosts(context.Background(), Query{Tag: "go"})
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "go", page.Posts[0].Tag)
}

func TestListPosts_CommentCounts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	resetTables(t)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	commented := seedPost(t, "go", "a@example.com", now.Add(time.Hour), 0, 0)
	quiet := seedPost(t, "go", "a@example.com", now, 0, 0)
	seedComments(t, commented.ID, 3)

	assembler := NewAssembler(testDB)
	page, err := assembler.ListPosts(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)

	byID := map[int]int64{}
	for _, item := range page.Posts {
		byID[item.ID] = item.CommentCount
	}
	assert.EqualValues(t, 3, byID[commented.ID])
	assert.EqualValues(t, 0, byID[quiet.ID])
}

func TestListPosts_EmptyResult(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	resetTables(t)

	assembler := NewAssembler(testDB)
	page, err := assembler.ListPosts(context.Background(), Query{Tag: "nothing-here"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, page.TotalCount)
	assert.Equal(t, 0, page.TotalPages)
	assert.NotNil(t, page.Posts)
	assert.Empty(t, page.Posts)
}

func TestListPosts_InvalidWindowFallsBack(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	resetTables(t)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		seedPost(t, "go", "a@example.com", now.Add(time.Duration(i)*time.Minute), 0, 0)
	}

	assembler := NewAssembler(testDB)
	page, err := assembler.ListPosts(context.Background(), Query{Page: -1, PageSize: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Len(t, page.Posts, 5)
	assert.Equal(t, 2, page.TotalPages)
}

func TestListPostsByAuthor(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	resetTables(t)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		seedPost(t, "go", "jane@example.com", now.Add(time.Duration(i)*time.Hour), 0, 0)
	}
	seedPost(t, "go", "other@example.com", now, 0, 0)

	assembler := NewAssembler(testDB)
	items, err := assembler.ListPostsByAuthor(context.Background(), "jane@example.com", 3)
	require.NoError(t, err)
	require.Len(t, items, 3)

	for i, item := range items {
		assert.Equal(t, "jane@example.com", item.AuthorEmail)
		if i > 0 {
			assert.True(t, !items[i-1].CreatedAt.Before(item.CreatedAt), "newest first")
		}
	}
}
