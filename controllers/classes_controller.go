package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/moazrana/CBMS-sub001/database"
	"github.com/moazrana/CBMS-sub001/dto"
	"github.com/moazrana/CBMS-sub001/models"
	"github.com/moazrana/CBMS-sub001/utils"
)

func CreateClass() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("classes")

		var body dto.CreateClassDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		name := strings.TrimSpace(body.Name)
		slug := strings.TrimSpace(body.Slug)
		if slug == "" {
			slug = utils.GenerateSlug(name)
		}

		now := time.Now().UTC()
		class := models.SchoolClass{
			ID:        bson.NewObjectID(),
			Name:      name,
			Slug:      slug,
			YearGroup: body.YearGroup,
			Capacity:  body.Capacity,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if body.Teacher != "" {
			teacherID, err := bson.ObjectIDFromHex(body.Teacher)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid teacher id"})
				return
			}
			class.Teacher = teacherID
		}

		if _, err := col.InsertOne(ctx, class); err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "slug already exists", "field": "slug"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, class)
	}
}

func GetClasses() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("classes")

		filter := bson.M{}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			filter["name"] = bson.M{"$regex": q, "$options": "i"}
		}
		if year := strings.TrimSpace(c.Query("yearGroup")); year != "" {
			filter["yearGroup"] = year
		}

		opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
		cursor, err := col.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		items := make([]models.SchoolClass, 0)
		for cursor.Next(ctx) {
			var cl models.SchoolClass
			if err := cursor.Decode(&cl); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			items = append(items, cl)
		}
		if err := cursor.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
	}
}

// GetClass serves both /classes/:id and /classes/slug/:slug.
func GetClass() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("classes")

		var filter bson.M
		if slug := c.Param("slug"); slug != "" {
			filter = bson.M{"slug": slug}
		} else {
			id, err := bson.ObjectIDFromHex(c.Param("id"))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
				return
			}
			filter = bson.M{"_id": id}
		}

		var cl models.SchoolClass
		if err := col.FindOne(ctx, filter).Decode(&cl); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "class not found"})
			return
		}
		c.JSON(http.StatusOK, cl)
	}
}

func UpdateClass() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("classes")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var body dto.UpdateClassDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		set := bson.M{"updatedAt": time.Now().UTC()}
		if body.Name != nil {
			set["name"] = strings.TrimSpace(*body.Name)
		}
		if body.YearGroup != nil {
			set["yearGroup"] = *body.YearGroup
		}
		if body.Capacity != nil {
			set["capacity"] = *body.Capacity
		}
		if body.Teacher != nil {
			teacherID, err := bson.ObjectIDFromHex(*body.Teacher)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid teacher id"})
				return
			}
			set["teacher"] = teacherID
		}

		res, err := col.UpdateByID(ctx, id, bson.M{"$set": set})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "class not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func DeleteClass() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("classes")

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
			c.JSON(http.StatusNotFound, gin.H{"error": "class not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
