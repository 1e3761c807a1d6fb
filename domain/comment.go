package domain

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// NoCommentID is returned by CreateComment when no identifier was assigned.
const NoCommentID int64 = 0

const (
	pathSeparator   = "/"
	commentsSegment = "comments"
)

// Comment is a user annotation attached to a resource or collection.
// Path and ParentPath are derived from ResourcePath and ID and never stored.
type Comment struct {
	ID           int64     `json:"id"`
	Text         string    `json:"text"`
	User         string    `json:"user"`
	CreatedAt    time.Time `json:"created_at"`
	ResourcePath string    `json:"resource_path"`
	Path         string    `json:"path"`
	ParentPath   string    `json:"parent_path"`
}

// NewComment is the text and author of a comment that has not been stored yet.
type NewComment struct {
	Text string
	User string
}

// ResourceID describes the owner of a set of comments.
type ResourceID struct {
	PathID     int64  // id of the collection path the owner lives in
	Name       string // resource name, ignored for collections
	Path       string // display path, used for virtual paths and diagnostics
	Collection bool   // true when the owner is the collection itself
	Version    int64  // historical version the links belong to, 0 for none
}

// ResourceName returns the value stored in the link row's resource name
// column. Collections are stored with a NULL name.
func (r ResourceID) ResourceName() *string {
	if r.Collection {
		return nil
	}
	name := r.Name
	return &name
}

// SameOwner reports whether r and o address the same owner.
func (r ResourceID) SameOwner(o ResourceID) bool {
	if r.Path != "" && o.Path != "" {
		return r.Path == o.Path
	}
	if r.PathID != o.PathID || r.Collection != o.Collection {
		return false
	}
	return r.Collection || r.Name == o.Name
}

// String is used in log lines and error messages.
func (r ResourceID) String() string {
	if r.Path != "" {
		return r.Path
	}
	if r.Collection {
		return "path#" + strconv.FormatInt(r.PathID, 10)
	}
	return "path#" + strconv.FormatInt(r.PathID, 10) + pathSeparator + r.Name
}

// CommentLink binds a comment to its owner.
type CommentLink struct {
	CommentID    int64
	PathID       int64
	ResourceName *string
	TenantID     int64
	Version      *int64
}

// CommentPaths builds the virtual path of a comment and its parent from the
// owner path. The root collection does not get a doubled separator.
func CommentPaths(ownerPath string, id int64) (path, parentPath string) {
	base := strings.TrimSuffix(ownerPath, pathSeparator)
	parentPath = base + pathSeparator + commentsSegment
	path = parentPath + ":" + strconv.FormatInt(id, 10)
	return path, parentPath
}

// CommentRepository persists comments and their links. Every call is scoped
// to the tenant of ctx and runs on the connection bound to ctx.
type CommentRepository interface {
	// CreateComment stores a comment and links it to owner.
	// Returns the id allocated by the database.
	CreateComment(ctx context.Context, owner ResourceID, userID, text string) (int64, error)

	// CreateComments stores and links every comment in sequence.
	CreateComments(ctx context.Context, owner ResourceID, comments []NewComment) error

	// CopyComments duplicates the comments of source onto target with fresh ids.
	// Nil or identical owners are a no-op.
	CopyComments(ctx context.Context, source, target *ResourceID) error

	// UpdateComment rewrites the text and refreshes the timestamp.
	// Unknown ids are silently ignored.
	UpdateComment(ctx context.Context, id int64, text string) error

	// DeleteComment removes the links of a comment, then the comment.
	// Unknown ids are silently ignored.
	DeleteComment(ctx context.Context, id int64) error

	// RemoveComments deletes every comment of owner as one batch.
	RemoveComments(ctx context.Context, owner ResourceID) error

	// RemoveVersionComments deletes every comment linked under a version.
	RemoveVersionComments(ctx context.Context, version int64) error

	// GetComment returns nil, nil when the comment does not exist.
	GetComment(ctx context.Context, id int64, ownerPath string) (*Comment, error)

	// GetComments returns the comments of owner in database order.
	GetComments(ctx context.Context, owner ResourceID) ([]Comment, error)

	// GetResourcePathsOfComments returns one virtual path per id, in input
	// order, with a nil entry for ids whose owner cannot be resolved.
	GetResourcePathsOfComments(ctx context.Context, ids []int64) ([]*string, error)

	// MoveComments repoints the links of source to target.
	MoveComments(ctx context.Context, source, target ResourceID) error

	// MoveCommentPaths repoints every link under the path id of source.
	MoveCommentPaths(ctx context.Context, source, target ResourceID) error
}

// CommentUsecase is the resource management side that drives the store.
type CommentUsecase interface {
	AddComment(ctx context.Context, owner ResourceID, userID, text string) (*Comment, error)
	GetComment(ctx context.Context, id int64) (*Comment, error)
	ListComments(ctx context.Context, owner ResourceID) ([]Comment, error)
	EditComment(ctx context.Context, id int64, text string) (*Comment, error)
	DeleteComment(ctx context.Context, id int64) error
	CopyResourceComments(ctx context.Context, source, target ResourceID) error
	MoveResourceComments(ctx context.Context, source, target ResourceID) error
	MovePathComments(ctx context.Context, source, target ResourceID) error
	PurgeResourceComments(ctx context.Context, owner ResourceID) error
	PurgeVersionComments(ctx context.Context, version int64) error
	ResolveCommentPaths(ctx context.Context, ids []int64) ([]*string, error)
}

// SplitCommentPath is the inverse of CommentPaths.
func SplitCommentPath(path string) (ownerPath string, id int64, ok bool) {
	marker := pathSeparator + commentsSegment + ":"
	i := strings.LastIndex(path, marker)
	if i < 0 {
		return "", NoCommentID, false
	}
	id, err := strconv.ParseInt(path[i+len(marker):], 10, 64)
	if err != nil {
		return "", NoCommentID, false
	}
	ownerPath = path[:i]
	if ownerPath == "" {
		ownerPath = pathSeparator
	}
	return ownerPath, id, true
}
