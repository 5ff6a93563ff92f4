package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/moazrana/CBMS-sub001/database"
	"github.com/moazrana/CBMS-sub001/dto"
	"github.com/moazrana/CBMS-sub001/models"
	"github.com/moazrana/CBMS-sub001/utils"
)

// snapshotsFromNames embeds the current canonical definition of each named
// permission. Unknown names are rejected so a role can never hold a
// snapshot that has no canonical counterpart.
func snapshotsFromNames(ctx context.Context, names []string) ([]models.PermissionSnapshot, []string, error) {
	permsCol := database.OpenCollection("permissions")

	snapshots := make([]models.PermissionSnapshot, 0, len(names))
	unknown := make([]string, 0)
	for _, name := range names {
		var p models.Permission
		err := permsCol.FindOne(ctx, bson.M{"name": name}).Decode(&p)
		if errors.Is(err, mongo.ErrNoDocuments) {
			unknown = append(unknown, name)
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		snapshots = append(snapshots, p.Snapshot())
	}
	return models.DedupeSnapshots(snapshots), unknown, nil
}

func CreateRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("roles")

		var body dto.CreateRoleDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		snapshots, unknown, err := snapshotsFromNames(ctx, body.Permissions)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if len(unknown) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown permissions", "unknown": unknown})
			return
		}

		now := time.Now().UTC()
		role := models.Role{
			ID:          bson.NewObjectID(),
			Name:        strings.TrimSpace(body.Name),
			Description: body.Description,
			IsDefault:   body.IsDefault,
			Permissions: snapshots,
			Version:     1,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if _, err := col.InsertOne(ctx, role); err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "role name already exists", "field": "name"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, role)
	}
}

func GetRoles() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("roles")

		opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
		cursor, err := col.Find(ctx, bson.M{}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		items := make([]models.Role, 0)
		for cursor.Next(ctx) {
			var role models.Role
			if err := cursor.Decode(&role); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			items = append(items, role)
		}
		if err := cursor.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
	}
}

func GetRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("roles")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var role models.Role
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&role); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "role not found"})
			return
		}
		c.JSON(http.StatusOK, role)
	}
}

func GetRoleByName() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("roles")

		var role models.Role
		if err := col.FindOne(ctx, bson.M{"name": c.Param("name")}).Decode(&role); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "role not found"})
			return
		}
		c.JSON(http.StatusOK, role)
	}
}

// UpdateRole replaces the embedded permission list wholesale. The caller
// must supply the version it read; a mismatch means another edit landed
// first and the write is rejected with 409.
func UpdateRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("roles")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var body dto.UpdateRoleDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		snapshots, unknown, err := snapshotsFromNames(ctx, body.Permissions)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if len(unknown) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown permissions", "unknown": unknown})
			return
		}

		set := bson.M{
			"permissions": snapshots,
			"updatedAt":   time.Now().UTC(),
		}
		if body.Description != nil {
			set["description"] = *body.Description
		}
		if body.IsDefault != nil {
			set["isDefault"] = *body.IsDefault
		}

		res, err := col.UpdateOne(ctx,
			bson.M{"_id": id, "version": body.Version},
			bson.M{"$set": set, "$inc": bson.M{"version": 1}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			// Distinguish missing role from a stale version.
			if err := col.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "role not found"})
				return
			}
			c.JSON(http.StatusConflict, gin.H{"error": "role was modified by another request, re-read and retry"})
			return
		}

		var role models.Role
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&role); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, role)
	}
}

func DeleteRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("roles")

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
			c.JSON(http.StatusNotFound, gin.H{"error": "role not found"})
			return
		}
		// Users still referencing the role resolve to zero permissions on
		// their next request.
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
