package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/moazrana/CBMS-sub001/dto"
	"github.com/moazrana/CBMS-sub001/rbac"
	"github.com/moazrana/CBMS-sub001/utils"
)

// Login checks email, password and pin in order, failing fast with one
// generic message so the response never reveals which factor was wrong.
// The response carries the role name only; permissions are always obtained
// through Validate so they are never baked into a long-lived credential.
func Login(store rbac.Store, secret string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		email := strings.ToLower(strings.TrimSpace(body.Email))

		user, err := store.UserByEmail(c.Request.Context(), email)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		if err := utils.CheckPassword(user.PasswordHash, body.Password); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		if err := utils.CheckPassword(user.PinHash, body.Pin); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		roleName := ""
		if user.HasRole() {
			role, err := store.RoleByID(c.Request.Context(), user.Role)
			if err != nil && !errors.Is(err, rbac.ErrNotFound) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
				return
			}
			if role != nil {
				roleName = role.Name
			}
		}

		accessToken, err := utils.GenerateAccessToken(user.ID.Hex(), user.Email, roleName, ttl, secret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate access token"})
			return
		}

		logrus.WithField("email", user.Email).Info("login succeeded")

		c.JSON(http.StatusOK, gin.H{
			"access_token": accessToken,
			"user": gin.H{
				"id":    user.ID.Hex(),
				"name":  user.Name,
				"email": user.Email,
				"role":  roleName,
			},
		})
	}
}

// Validate re-derives the caller's role and permission set from storage.
// A user deleted after token issuance gets a 401 here, so revocation takes
// effect on the next protected call rather than at token expiry.
func Validate(store rbac.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDStr, ok := c.Get("userID")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			return
		}

		userID, err := bson.ObjectIDFromHex(userIDStr.(string))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid auth context"})
			return
		}

		res, err := rbac.Resolve(c.Request.Context(), store, userID)
		if errors.Is(err, rbac.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user no longer exists"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "validation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"valid": true,
			"user": gin.H{
				"_id":   res.User.ID.Hex(),
				"email": res.User.Email,
				"name":  res.User.Name,
				"role":  res.RoleName(),
			},
			"permissions": res.Permissions,
			"message":     "token is valid",
		})
	}
}
