package request

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/regcomments/registry-comments/domain"
)

// Comment is the body of a new comment. An empty name addresses the
// collection itself.
type Comment struct {
	Text string `json:"text" binding:"required,max=500"`
	Name string `json:"name" binding:"omitempty,max=256,resourcename"`
}

// EditComment replaces the text of a comment.
type EditComment struct {
	Text string `json:"text" binding:"required,max=500"`
}

// Relocate names the owner comments are copied or moved to.
type Relocate struct {
	SourceName   string `json:"source_name" binding:"omitempty,max=256,resourcename"`
	TargetPathID int64  `json:"target_path_id" binding:"required,gt=0"`
	TargetName   string `json:"target_name" binding:"omitempty,max=256,resourcename"`
	PathsOnly    bool   `json:"paths_only"`
}

// CommentPaths asks for the virtual paths of a set of comments.
type CommentPaths struct {
	IDs []int64 `json:"ids" binding:"required,min=1,max=500"`
}

// Owner builds the owner descriptor of pathID and name.
func Owner(pathID int64, name string) domain.ResourceID {
	return domain.ResourceID{
		PathID:     pathID,
		Name:       name,
		Collection: name == "",
	}
}

func (r *Relocate) Source(pathID int64) domain.ResourceID {
	return Owner(pathID, r.SourceName)
}

func (r *Relocate) Target() domain.ResourceID {
	return Owner(r.TargetPathID, r.TargetName)
}

// RegisterValidators adds the custom tags used by the request bodies to
// gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("resourcename", validResourceName)
}

// validResourceName rejects names that would read as a path or a version.
func validResourceName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	return !strings.ContainsAny(name, "/;")
}
