package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/moazrana/CBMS-sub001/policy"
	"github.com/moazrana/CBMS-sub001/rbac"
)

// Require enforces a policy requirement. The user and role are fetched
// fresh from storage on every invocation so role and permission edits take
// effect on the next request, with no cache to invalidate.
func Require(store rbac.Store, req policy.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, ok := resolveCaller(c, store)
		if !ok {
			return
		}

		if err := res.CheckRoles(req.Roles); err != nil {
			denyRole(c, err)
			return
		}
		if err := res.CheckAllPermissions(req.Permissions); err != nil {
			denyPermission(c, err)
			return
		}

		c.Next()
	}
}

// resolveCaller reads the authenticated user id set by AuthMiddleware and
// resolves the live user, role and permission set.
func resolveCaller(c *gin.Context, store rbac.Store) (*rbac.Resolution, bool) {
	userIDStr, ok := c.Get("userID")
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
		return nil, false
	}

	userID, err := bson.ObjectIDFromHex(userIDStr.(string))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid auth context"})
		return nil, false
	}

	res, err := rbac.Resolve(c.Request.Context(), store, userID)
	if errors.Is(err, rbac.ErrNotFound) {
		// Deleted after token issuance: revoke on the spot.
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user no longer exists"})
		return nil, false
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "authorization check failed"})
		return nil, false
	}
	return res, true
}

func denyRole(c *gin.Context, err error) {
	if errors.Is(err, rbac.ErrNoRole) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "user has no role assigned"})
		return
	}
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
}

func denyPermission(c *gin.Context, err error) {
	if errors.Is(err, rbac.ErrNoRole) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "user has no role assigned"})
		return
	}

	var fe *rbac.ForbiddenError
	if errors.As(err, &fe) {
		logrus.WithFields(logrus.Fields{
			"path":    c.FullPath(),
			"missing": fe.Missing,
		}).Warn("permission denied")
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":   "insufficient permissions",
			"missing": fe.Missing,
		})
		return
	}
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
}
