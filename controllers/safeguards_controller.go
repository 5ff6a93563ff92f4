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

func CreateSafeguard() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("safeguards")

		var body dto.CreateSafeguardDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		studentID, err := bson.ObjectIDFromHex(body.Student)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid student id"})
			return
		}

		userIDStr, _ := c.Get("userID")
		raisedBy, err := bson.ObjectIDFromHex(userIDStr.(string))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid auth context"})
			return
		}

		now := time.Now().UTC()
		record := models.Safeguard{
			ID:        bson.NewObjectID(),
			Student:   studentID,
			Category:  strings.TrimSpace(body.Category),
			Concern:   body.Concern,
			Status:    "open",
			RaisedBy:  raisedBy,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if _, err := col.InsertOne(ctx, record); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, record)
	}
}

func GetSafeguards() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("safeguards")

		filter := bson.M{}
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			filter["status"] = status
		}
		if student := strings.TrimSpace(c.Query("student")); student != "" {
			studentID, err := bson.ObjectIDFromHex(student)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid student id"})
				return
			}
			filter["student"] = studentID
		}

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := col.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		items := make([]models.Safeguard, 0)
		for cursor.Next(ctx) {
			var s models.Safeguard
			if err := cursor.Decode(&s); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			items = append(items, s)
		}
		if err := cursor.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
	}
}

func GetSafeguard() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("safeguards")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var s models.Safeguard
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "safeguarding record not found"})
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

func UpdateSafeguard() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("safeguards")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var body dto.UpdateSafeguardDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		set := bson.M{"updatedAt": time.Now().UTC()}
		if body.Category != nil {
			set["category"] = strings.TrimSpace(*body.Category)
		}
		if body.Concern != nil {
			set["concern"] = *body.Concern
		}
		if body.ActionTaken != nil {
			set["actionTaken"] = *body.ActionTaken
		}
		if body.Status != nil {
			set["status"] = *body.Status
		}

		res, err := col.UpdateByID(ctx, id, bson.M{"$set": set})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "safeguarding record not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// AddSafeguardEvidence uploads an evidence file (pdf or image) to GCS and
// appends its metadata to the record.
func AddSafeguardEvidence(v *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("safeguards")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		if err := col.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "safeguarding record not found"})
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
			return
		}

		if _, err := v.ValidateFile(fileHeader); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		gcs, bucket, err := utils.NewGCSClient(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
			return
		}
		defer gcs.Close()

		attachment, err := utils.UploadEvidenceToGCS(ctx, gcs, bucket, id.Hex(), fileHeader)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		_, err = col.UpdateByID(ctx, id, bson.M{
			"$push": bson.M{"evidence": attachment},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, attachment)
	}
}

func DeleteSafeguard() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("safeguards")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var record models.Safeguard
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&record); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "safeguarding record not found"})
			return
		}

		if _, err := col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// best effort cleanup of stored evidence
		if len(record.Evidence) > 0 {
			if gcs, bucket, err := utils.NewGCSClient(c); err == nil {
				defer gcs.Close()
				names := make([]string, 0, len(record.Evidence))
				for _, e := range record.Evidence {
					names = append(names, e.ObjectName)
				}
				_ = utils.DeleteGCSObjects(ctx, gcs, bucket, names)
			}
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
