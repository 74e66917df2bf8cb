package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echoverse/backend/internal/feed"
	"github.com/echoverse/backend/internal/votes"
)

type fakeCaster struct {
	counts votes.Counts
	err    error

	gotPostID    int
	gotVoterID   string
	gotDirection votes.Direction
}

func (f *fakeCaster) CastVote(_ context.Context, postID int, voterID string, direction votes.Direction) (votes.Counts, error) {
	f.gotPostID = postID
	f.gotVoterID = voterID
	f.gotDirection = direction
	return f.counts, f.err
}

type fakeLister struct {
	page  feed.Page
	items []feed.Item
	err   error

	gotQuery feed.Query
	gotEmail string
	gotLimit int
}

func (f *fakeLister) ListPosts(_ context.Context, q feed.Query) (feed.Page, error) {
	f.gotQuery = q
	return f.page, f.err
}

func (f *fakeLister) ListPostsByAuthor(_ context.Context, email string, limit int) ([]feed.Item, error) {
	f.gotEmail = email
	f.gotLimit = limit
	return f.items, f.err
}

func setupPostRouter(caster VoteCaster, lister FeedLister) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	h := NewPostHandler(nil, caster, lister)

	// stand-in for the auth middleware
	authed := func(c *gin.Context) {
		c.Set("email", "voter@example.com")
		c.Next()
	}

	r.GET("/api/posts", h.GetPosts)
	r.GET("/api/authors/:email/posts", h.GetPostsByAuthor)
	r.PATCH("/api/posts/:id/vote", authed, h.VotePost)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(method, path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestVotePost_Success(t *testing.T) {
	caster := &fakeCaster{counts: votes.Counts{Up: 1, Down: 0}}
	r := setupPostRouter(caster, &fakeLister{})

	w := doJSON(t, r, http.MethodPatch, "/api/posts/42/vote", `{"direction":"up"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"upVoteCount":1,"downVoteCount":0}`, w.Body.String())
	assert.Equal(t, 42, caster.gotPostID)
	assert.Equal(t, "voter@example.com", caster.gotVoterID)
	assert.Equal(t, votes.DirectionUp, caster.gotDirection)
}

func TestVotePost_MatchingVoterIDAccepted(t *testing.T) {
	caster := &fakeCaster{counts: votes.Counts{Up: 0, Down: 1}}
	r := setupPostRouter(caster, &fakeLister{})

	w := doJSON(t, r, http.MethodPatch, "/api/posts/7/vote",
		`{"voterId":"voter@example.com","direction":"down"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, votes.DirectionDown, caster.gotDirection)
}

func TestVotePost_MismatchedVoterIDForbidden(t *testing.T) {
	caster := &fakeCaster{}
	r := setupPostRouter(caster, &fakeLister{})

	w := doJSON(t, r, http.MethodPatch, "/api/posts/7/vote",
		`{"voterId":"somebody@else.com","direction":"up"}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, caster.gotPostID, "ledger must not be called")
}

func TestVotePost_InvalidPostID(t *testing.T) {
	r := setupPostRouter(&fakeCaster{}, &fakeLister{})

	w := doJSON(t, r, http.MethodPatch, "/api/posts/abc/vote", `{"direction":"up"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVotePost_MissingDirection(t *testing.T) {
	r := setupPostRouter(&fakeCaster{}, &fakeLister{})

	w := doJSON(t, r, http.MethodPatch, "/api/posts/1/vote", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVotePost_UnknownDirection(t *testing.T) {
	r := setupPostRouter(&fakeCaster{}, &fakeLister{})

	w := doJSON(t, r, http.MethodPatch, "/api/posts/1/vote", `{"direction":"sideways"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVotePost_PostNotFound(t *testing.T) {
	r := setupPostRouter(&fakeCaster{err: votes.ErrPostNotFound}, &fakeLister{})

	w := doJSON(t, r, http.MethodPatch, "/api/posts/999/vote", `{"direction":"up"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVotePost_RepeatedVoteConflicts(t *testing.T) {
	r := setupPostRouter(&fakeCaster{err: votes.ErrAlreadyVoted}, &fakeLister{})

	w := doJSON(t, r, http.MethodPatch, "/api/posts/1/vote", `{"direction":"up"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestVotePost_StorageFailure(t *testing.T) {
	r := setupPostRouter(&fakeCaster{err: errors.New("connection reset")}, &fakeLister{})

	w := doJSON(t, r, http.MethodPatch, "/api/posts/1/vote", `{"direction":"up"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetPosts_PassesQueryThrough(t *testing.T) {
	lister := &fakeLister{page: feed.Page{CurrentPage: 3, TotalPages: 4, TotalCount: 25, Posts: []feed.Item{}}}
	r := setupPostRouter(&fakeCaster{}, lister)

	w := doJSON(t, r, http.MethodGet, "/api/posts?search=go&tag=rust&sort=popular&page=3&pageSize=7", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, feed.Query{Search: "go", Tag: "rust", Sort: feed.SortPopular, Page: 3, PageSize: 7}, lister.gotQuery)
	assert.Contains(t, w.Body.String(), `"totalCount":25`)
}

func TestGetPosts_DefaultsSortToRecent(t *testing.T) {
	lister := &fakeLister{page: feed.Page{Posts: []feed.Item{}}}
	r := setupPostRouter(&fakeCaster{}, lister)

	w := doJSON(t, r, http.MethodGet, "/api/posts", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, feed.SortRecent, lister.gotQuery.Sort)
	assert.Zero(t, lister.gotQuery.Page, "missing params reach the assembler as zero and default there")
}

func TestGetPosts_NonNumericWindowFallsBack(t *testing.T) {
	lister := &fakeLister{page: feed.Page{Posts: []feed.Item{}}}
	r := setupPostRouter(&fakeCaster{}, lister)

	w := doJSON(t, r, http.MethodGet, "/api/posts?page=two&pageSize=five", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, lister.gotQuery.Page)
	assert.Zero(t, lister.gotQuery.PageSize)
}

func TestGetPosts_StorageFailure(t *testing.T) {
	lister := &fakeLister{err: errors.New("connection reset")}
	r := setupPostRouter(&fakeCaster{}, lister)

	w := doJSON(t, r, http.MethodGet, "/api/posts", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetPostsByAuthor(t *testing.T) {
	lister := &fakeLister{items: []feed.Item{}}
	r := setupPostRouter(&fakeCaster{}, lister)

	w := doJSON(t, r, http.MethodGet, "/api/authors/jane@example.com/posts?limit=3", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jane@example.com", lister.gotEmail)
	assert.Equal(t, 3, lister.gotLimit)
	assert.JSONEq(t, `{"posts":[]}`, w.Body.String())
}
