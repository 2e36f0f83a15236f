package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yogapw/forumgo/internal/application"
	"github.com/yogapw/forumgo/pkg/response"
	"github.com/yogapw/forumgo/pkg/validation"
)

type UserHandler struct {
	Svc        *application.Service
	Profiles   *application.ProfileService
	Logger     *logrus.Logger
	UploadsDir string
}

func NewUserHandler(svc *application.Service, profiles *application.ProfileService, logger *logrus.Logger, uploadsDir string) *UserHandler {
	return &UserHandler{Svc: svc, Profiles: profiles, Logger: logger, UploadsDir: uploadsDir}
}

type updateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,pwd"`
}

// Update handles PUT /users/:id. JSON bodies carry field updates only;
// multipart bodies may additionally carry the media slots "profileImg" and
// "coverImg".
func (h *UserHandler) Update(c *gin.Context) {
	targetID := c.Param("id")
	callerID := c.GetString("userID")
	isAdmin := c.GetBool("isAdmin")

	var in application.UpdateUserInput
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req updateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
			return
		}
		in = application.UpdateUserInput{Username: req.Username, Email: req.Email, Password: req.Password}
	} else {
		in = application.UpdateUserInput{
			Username: c.PostForm("username"),
			Email:    c.PostForm("email"),
			Password: c.PostForm("password"),
		}
		var err error
		if in.ProfileImage, err = h.stageFile(c, "profileImg"); err != nil {
			response.Error[any](c, http.StatusInternalServerError, "failed to stage upload", nil)
			return
		}
		if in.CoverImage, err = h.stageFile(c, "coverImg"); err != nil {
			h.discardStaged(in.ProfileImage)
			response.Error[any](c, http.StatusInternalServerError, "failed to stage upload", nil)
			return
		}
	}

	u, err := h.Svc.UpdateUser(c.Request.Context(), callerID, isAdmin, targetID, in)
	if err != nil {
		h.writeMutationError(c, err, "update")
		return
	}
	response.Success(c, http.StatusOK, userView(u), "user updated", nil)
}

// Delete handles DELETE /users/:id under the same ownership rule as Update.
func (h *UserHandler) Delete(c *gin.Context) {
	targetID := c.Param("id")
	callerID := c.GetString("userID")
	isAdmin := c.GetBool("isAdmin")

	if err := h.Svc.DeleteUser(c.Request.Context(), callerID, isAdmin, targetID); err != nil {
		h.writeMutationError(c, err, "delete")
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "user deleted", nil)
}

// GetProfile handles GET /users/:id. Viewing your own id redirects to the
// dedicated own-profile route.
func (h *UserHandler) GetProfile(c *gin.Context) {
	targetID := c.Param("id")
	if targetID == c.GetString("userID") {
		c.Redirect(http.StatusFound, "/api/profile")
		return
	}
	h.writeSnapshot(c, targetID)
}

// MyProfile handles GET /profile for the authenticated caller.
func (h *UserHandler) MyProfile(c *gin.Context) {
	h.writeSnapshot(c, c.GetString("userID"))
}

func (h *UserHandler) writeSnapshot(c *gin.Context, profileID string) {
	followIDs := c.GetStringSlice("followIDs")
	snap, err := h.Profiles.Aggregate(profileID, followIDs)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("profile_id", profileID).Error("profile aggregation failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to load profile", nil)
		return
	}
	response.Success(c, http.StatusOK, snapshotView(snap), "profile", nil)
}

// stageFile saves one multipart media slot into the uploads directory and
// describes it for the media pipeline. A missing slot is not an error.
func (h *UserHandler) stageFile(c *gin.Context, field string) (*application.MediaUpload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	return h.saveStaged(c, fh)
}

func (h *UserHandler) saveStaged(c *gin.Context, fh *multipart.FileHeader) (*application.MediaUpload, error) {
	dst := filepath.Join(h.UploadsDir, uuid.NewString()+filepath.Ext(fh.Filename))
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return nil, err
	}
	return &application.MediaUpload{
		LocalPath:   dst,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
	}, nil
}

// discardStaged drops a staged file that will never reach the media pipeline.
func (h *UserHandler) discardStaged(up *application.MediaUpload) {
	if up == nil {
		return
	}
	if err := os.Remove(up.LocalPath); err != nil && !os.IsNotExist(err) {
		h.Logger.WithError(err).WithField("path", up.LocalPath).Warn("failed to remove staged upload")
	}
}

func (h *UserHandler) writeMutationError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, application.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "you are not allowed to "+op+" this user", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
	default:
		h.Logger.WithError(err).WithField("op", op).Error("user mutation failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to "+op+" user", nil)
	}
}
