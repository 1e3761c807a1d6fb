package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regcomments/registry-comments/domain"
)

func TestCommentPaths(t *testing.T) {
	tests := []struct {
		owner      string
		id         int64
		wantPath   string
		wantParent string
	}{
		{"/c/docs", 7, "/c/docs/comments:7", "/c/docs/comments"},
		{"/c/docs/", 7, "/c/docs/comments:7", "/c/docs/comments"},
		{"/", 1, "/comments:1", "/comments"},
		{"/c/docs/readme.txt;version:3", 12, "/c/docs/readme.txt;version:3/comments:12", "/c/docs/readme.txt;version:3/comments"},
	}
	for _, tt := range tests {
		t.Run(tt.owner, func(t *testing.T) {
			path, parent := domain.CommentPaths(tt.owner, tt.id)
			assert.Equal(t, tt.wantPath, path)
			assert.Equal(t, tt.wantParent, parent)
		})
	}
}

func TestSplitCommentPath(t *testing.T) {
	owner, id, ok := domain.SplitCommentPath("/c/docs/readme.txt/comments:12")
	require.True(t, ok)
	assert.Equal(t, "/c/docs/readme.txt", owner)
	assert.Equal(t, int64(12), id)

	owner, id, ok = domain.SplitCommentPath("/comments:3")
	require.True(t, ok)
	assert.Equal(t, "/", owner)
	assert.Equal(t, int64(3), id)

	for _, bad := range []string{"", "/c/docs", "/c/docs/comments", "/c/docs/comments:abc"} {
		_, id, ok := domain.SplitCommentPath(bad)
		assert.False(t, ok, bad)
		assert.Equal(t, domain.NoCommentID, id)
	}
}

func TestCommentPathsRoundTrip(t *testing.T) {
	path, _ := domain.CommentPaths("/c/comments/archive", 99)
	owner, id, ok := domain.SplitCommentPath(path)
	require.True(t, ok)
	assert.Equal(t, "/c/comments/archive", owner)
	assert.Equal(t, int64(99), id)
}

func TestResourceName(t *testing.T) {
	assert.Nil(t, domain.ResourceID{PathID: 1, Name: "ignored", Collection: true}.ResourceName())

	name := domain.ResourceID{PathID: 1, Name: "readme.txt"}.ResourceName()
	require.NotNil(t, name)
	assert.Equal(t, "readme.txt", *name)
}

func TestSameOwner(t *testing.T) {
	docs := domain.ResourceID{PathID: 42, Collection: true}
	readme := domain.ResourceID{PathID: 42, Name: "readme.txt"}

	assert.True(t, docs.SameOwner(domain.ResourceID{PathID: 42, Name: "other", Collection: true}))
	assert.False(t, docs.SameOwner(readme))
	assert.True(t, readme.SameOwner(domain.ResourceID{PathID: 42, Name: "readme.txt"}))
	assert.False(t, readme.SameOwner(domain.ResourceID{PathID: 43, Name: "readme.txt"}))

	withPath := domain.ResourceID{PathID: 1, Path: "/c/docs"}
	assert.True(t, withPath.SameOwner(domain.ResourceID{PathID: 2, Path: "/c/docs"}))
}

func TestResourceIDString(t *testing.T) {
	assert.Equal(t, "/c/docs", domain.ResourceID{PathID: 42, Path: "/c/docs"}.String())
	assert.Equal(t, "path#42", domain.ResourceID{PathID: 42, Collection: true}.String())
	assert.Equal(t, "path#42/readme.txt", domain.ResourceID{PathID: 42, Name: "readme.txt"}.String())
}

func TestStorageError(t *testing.T) {
	cause := errors.New("deadlock found")
	err := fmt.Errorf("purge: %w", domain.NewStorageError("remove comments on", "/c/docs", cause))

	assert.ErrorIs(t, err, domain.ErrCommentOperation)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, domain.ErrNotFound)

	var storageErr *domain.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "remove comments on", storageErr.Op)
	assert.Equal(t, "comment operation failed: remove comments on /c/docs: deadlock found", storageErr.Error())

	noTarget := domain.NewStorageError("get the resources of comments", "", domain.ErrNoGeneratedID)
	assert.Equal(t, "comment operation failed: get the resources of comments: no identifier was generated for the comment", noTarget.Error())
	assert.ErrorIs(t, noTarget, domain.ErrNoGeneratedID)
}
