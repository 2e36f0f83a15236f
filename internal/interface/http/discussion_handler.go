package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yogapw/forumgo/internal/application"
	"github.com/yogapw/forumgo/pkg/response"
	"github.com/yogapw/forumgo/pkg/validation"
)

type DiscussionHandler struct {
	Svc    *application.DiscussionService
	Logger *logrus.Logger
}

func NewDiscussionHandler(svc *application.DiscussionService, logger *logrus.Logger) *DiscussionHandler {
	return &DiscussionHandler{Svc: svc, Logger: logger}
}

type createDiscussionRequest struct {
	Title string `json:"title" binding:"required,min=3,max=200"`
	Body  string `json:"body" binding:"required"`
}

type addCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

func (h *DiscussionHandler) Create(c *gin.Context) {
	var req createDiscussionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	d, err := h.Svc.Create(c.Request.Context(), c.GetString("userID"), req.Title, req.Body)
	if err != nil {
		h.Logger.WithError(err).Error("create discussion failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to create discussion", nil)
		return
	}
	response.Success(c, http.StatusCreated, discussionView(d), "discussion created", nil)
}

func (h *DiscussionHandler) Get(c *gin.Context) {
	d, comments, err := h.Svc.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrDiscussionNotFound) {
			response.Error[any](c, http.StatusNotFound, "discussion not found", nil)
			return
		}
		h.Logger.WithError(err).Error("get discussion failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to load discussion", nil)
		return
	}

	views := make([]gin.H, 0, len(comments))
	for _, cm := range comments {
		views = append(views, commentView(cm))
	}
	v := discussionView(d)
	v["comments"] = views
	response.Success(c, http.StatusOK, v, "discussion", nil)
}

func (h *DiscussionHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	list, err := h.Svc.ListRecent(limit)
	if err != nil {
		h.Logger.WithError(err).Error("list discussions failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to list discussions", nil)
		return
	}
	views := make([]gin.H, 0, len(list))
	for _, d := range list {
		views = append(views, discussionView(d))
	}
	response.Success(c, http.StatusOK, views, "discussions", nil)
}

func (h *DiscussionHandler) AddComment(c *gin.Context) {
	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	cm, err := h.Svc.AddComment(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Body)
	if err != nil {
		if errors.Is(err, application.ErrDiscussionNotFound) {
			response.Error[any](c, http.StatusNotFound, "discussion not found", nil)
			return
		}
		h.Logger.WithError(err).Error("add comment failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to add comment", nil)
		return
	}
	response.Success(c, http.StatusCreated, commentView(cm), "comment added", nil)
}

func (h *DiscussionHandler) Follow(c *gin.Context) {
	h.toggleFollow(c, true)
}

func (h *DiscussionHandler) Unfollow(c *gin.Context) {
	h.toggleFollow(c, false)
}

func (h *DiscussionHandler) toggleFollow(c *gin.Context, follow bool) {
	uid := c.GetString("userID")
	id := c.Param("id")

	var (
		ids []string
		err error
	)
	if follow {
		ids, err = h.Svc.Follow(c.Request.Context(), uid, id)
	} else {
		ids, err = h.Svc.Unfollow(c.Request.Context(), uid, id)
	}
	if err != nil {
		if errors.Is(err, application.ErrDiscussionNotFound) {
			response.Error[any](c, http.StatusNotFound, "discussion not found", nil)
			return
		}
		h.Logger.WithError(err).Error("follow toggle failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to update follows", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"follow_ids": ids}, "follows updated", nil)
}

func (h *DiscussionHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Error("discussion search failed")
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", nil)
}
