package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/moazrana/CBMS-sub001/database"
	"github.com/moazrana/CBMS-sub001/dto"
	"github.com/moazrana/CBMS-sub001/models"
	"github.com/moazrana/CBMS-sub001/utils"
)

func CreatePermission() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("permissions")

		var body dto.CreatePermissionDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		now := time.Now().UTC()
		perm := models.Permission{
			ID:          bson.NewObjectID(),
			Name:        strings.TrimSpace(body.Name),
			Description: body.Description,
			Module:      strings.TrimSpace(body.Module),
			Action:      strings.TrimSpace(body.Action),
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if _, err := col.InsertOne(ctx, perm); err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "permission name already exists", "field": "name"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, perm)
	}
}

func GetPermissions() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("permissions")

		filter := bson.M{}
		if module := strings.TrimSpace(c.Query("module")); module != "" {
			filter["module"] = module
		}

		opts := options.Find().SetSort(bson.D{{Key: "module", Value: 1}, {Key: "action", Value: 1}})
		cursor, err := col.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		items := make([]models.Permission, 0)
		for cursor.Next(ctx) {
			var p models.Permission
			if err := cursor.Decode(&p); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			items = append(items, p)
		}
		if err := cursor.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
	}
}

func GetPermission() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("permissions")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var p models.Permission
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "permission not found"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// UpdatePermission edits the canonical record only. Roles that embedded a
// snapshot keep the old copy until a resync runs.
func UpdatePermission() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("permissions")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var body dto.UpdatePermissionDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		set := bson.M{"updatedAt": time.Now().UTC()}
		if body.Description != nil {
			set["description"] = *body.Description
		}
		if body.Module != nil {
			set["module"] = strings.TrimSpace(*body.Module)
		}
		if body.Action != nil {
			set["action"] = strings.TrimSpace(*body.Action)
		}

		res, err := col.UpdateByID(ctx, id, bson.M{"$set": set})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "permission not found"})
			return
		}

		var p models.Permission
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func DeletePermission() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("permissions")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		res, err := col.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "permission not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// ResyncPermissions re-embeds the canonical permission definitions into
// every role. This is the explicit counterpart to snapshot drift: canonical
// edits never propagate implicitly.
func ResyncPermissions() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		updated, err := utils.ResyncRolePermissions(ctx,
			database.OpenCollection("roles"),
			database.OpenCollection("permissions"),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		logrus.WithField("rolesUpdated", updated).Info("permission resync complete")
		c.JSON(http.StatusOK, gin.H{"ok": true, "rolesUpdated": updated})
	}
}
