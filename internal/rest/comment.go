package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/regcomments/registry-comments/domain"
	"github.com/regcomments/registry-comments/internal/rest/request"
	"github.com/regcomments/registry-comments/internal/rest/response"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// CommentHandler represent the httphandler for comments
type CommentHandler struct {
	Service domain.CommentUsecase
}

func NewCommentHandler(svc domain.CommentUsecase) *CommentHandler {
	return &CommentHandler{
		Service: svc,
	}
}

// RegisterCommentRoutes mounts the comment endpoints on r.
func RegisterCommentRoutes(r gin.IRouter, h *CommentHandler) {
	r.POST("/paths/:pathID/comments", h.CreateComment)
	r.GET("/paths/:pathID/comments", h.FetchComments)
	r.DELETE("/paths/:pathID/comments", h.PurgeComments)
	r.POST("/paths/:pathID/comments/copy", h.CopyComments)
	r.POST("/paths/:pathID/comments/move", h.MoveComments)

	r.GET("/comments/:id", h.GetComment)
	r.PUT("/comments/:id", h.EditComment)
	r.DELETE("/comments/:id", h.DeleteComment)
	r.POST("/comments/paths", h.ResolvePaths)

	r.DELETE("/versions/:version/comments", h.PurgeVersionComments)
}

// CreateComment adds a comment to the collection or named resource
func (h *CommentHandler) CreateComment(c *gin.Context) {
	pathID, ok := int64Param(c, "pathID")
	if !ok {
		return
	}

	var req request.Comment
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}

	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ResponseError{Message: "User not authenticated"})
		return
	}

	comment, err := h.Service.AddComment(c.Request.Context(), request.Owner(pathID, req.Name), userID, req.Text)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, response.NewCommentFromDomain(comment))
}

// FetchComments lists the comments of the collection, or of the resource
// named by ?name=
func (h *CommentHandler) FetchComments(c *gin.Context) {
	pathID, ok := int64Param(c, "pathID")
	if !ok {
		return
	}

	comments, err := h.Service.ListComments(c.Request.Context(), request.Owner(pathID, c.Query("name")))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": response.NewCommentsFromDomain(comments)})
}

func (h *CommentHandler) PurgeComments(c *gin.Context) {
	pathID, ok := int64Param(c, "pathID")
	if !ok {
		return
	}

	if err := h.Service.PurgeResourceComments(c.Request.Context(), request.Owner(pathID, c.Query("name"))); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CommentHandler) CopyComments(c *gin.Context) {
	pathID, ok := int64Param(c, "pathID")
	if !ok {
		return
	}

	var req request.Relocate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}

	if err := h.Service.CopyResourceComments(c.Request.Context(), req.Source(pathID), req.Target()); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// MoveComments repoints the comments of an owner, or with paths_only every
// comment under the path id
func (h *CommentHandler) MoveComments(c *gin.Context) {
	pathID, ok := int64Param(c, "pathID")
	if !ok {
		return
	}

	var req request.Relocate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}

	ctx := c.Request.Context()
	var err error
	if req.PathsOnly {
		err = h.Service.MovePathComments(ctx, req.Source(pathID), req.Target())
	} else {
		err = h.Service.MoveResourceComments(ctx, req.Source(pathID), req.Target())
	}
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CommentHandler) GetComment(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}

	comment, err := h.Service.GetComment(c.Request.Context(), id)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.NewCommentFromDomain(comment))
}

func (h *CommentHandler) EditComment(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}

	var req request.EditComment
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}

	comment, err := h.Service.EditComment(c.Request.Context(), id, req.Text)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.NewCommentFromDomain(comment))
}

// DeleteComment succeeds for ids that are already gone
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}

	if err := h.Service.DeleteComment(c.Request.Context(), id); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CommentHandler) ResolvePaths(c *gin.Context) {
	var req request.CommentPaths
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}

	paths, err := h.Service.ResolveCommentPaths(c.Request.Context(), req.IDs)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"paths": paths})
}

func (h *CommentHandler) PurgeVersionComments(c *gin.Context) {
	version, ok := int64Param(c, "version")
	if !ok {
		return
	}

	if err := h.Service.PurgeVersionComments(c.Request.Context(), version); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func int64Param(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return 0, false
	}
	return v, true
}

// getStatusCode maps the errors of domain.CommentUsecase to a status code
func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBadParamInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	}

	// storage failures were logged by the store already
	if !errors.Is(err, domain.ErrCommentOperation) {
		logrus.Error(err)
	}
	return http.StatusInternalServerError
}
