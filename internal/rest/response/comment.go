package response

import "github.com/regcomments/registry-comments/domain"

const DateTimeFormat = "2006-01-02 15:04:05"

type Comment struct {
	ID           int64  `json:"id"`
	Text         string `json:"text"`
	User         string `json:"user"`
	CreatedAt    string `json:"created_at"`
	ResourcePath string `json:"resource_path"`
	Path         string `json:"path"`
	ParentPath   string `json:"parent_path"`
}

// NewCommentFromDomain: Domain -> Response
func NewCommentFromDomain(c *domain.Comment) *Comment {
	if c == nil {
		return nil
	}
	return &Comment{
		ID:           c.ID,
		Text:         c.Text,
		User:         c.User,
		CreatedAt:    c.CreatedAt.Format(DateTimeFormat),
		ResourcePath: c.ResourcePath,
		Path:         c.Path,
		ParentPath:   c.ParentPath,
	}
}

func NewCommentsFromDomain(list []domain.Comment) []*Comment {
	res := make([]*Comment, len(list))
	for i := range list {
		res[i] = NewCommentFromDomain(&list[i])
	}
	return res
}
