package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/yogapw/forumgo/internal/application"
	"github.com/yogapw/forumgo/pkg/helpers"
	"github.com/yogapw/forumgo/pkg/response"
)

// Auth validates the access token and ensures an active session exists in
// Redis. On success it sets userID, isAdmin, and followIDs (the viewer's
// followed-discussion ids) in the Gin context.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", err.Error())
			c.Abort()
			return
		}

		key := "user:session:" + claims.UserID
		data, err := rdb.HGetAll(c.Request.Context(), key).Result()
		if err != nil || len(data) == 0 {
			response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
			c.Abort()
			return
		}

		isAdmin, _ := strconv.ParseBool(data["is_admin"])

		c.Set("userID", data["user_id"])
		c.Set("isAdmin", isAdmin)
		c.Set("followIDs", application.DecodeFollowIDs(data["follow_ids"]))
		c.Next()
	}
}
