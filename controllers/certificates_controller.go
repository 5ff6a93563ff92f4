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

func CreateCertificate() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("certificates")

		var body dto.CreateCertificateDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		staffID, err := bson.ObjectIDFromHex(body.Staff)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid staff id"})
			return
		}

		now := time.Now().UTC()
		cert := models.Certificate{
			ID:        bson.NewObjectID(),
			Staff:     staffID,
			Title:     strings.TrimSpace(body.Title),
			Issuer:    body.Issuer,
			IssuedAt:  body.IssuedAt,
			ExpiresAt: body.ExpiresAt,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if _, err := col.InsertOne(ctx, cert); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, cert)
	}
}

func GetCertificates() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("certificates")

		filter := bson.M{}
		if staff := strings.TrimSpace(c.Query("staff")); staff != "" {
			staffID, err := bson.ObjectIDFromHex(staff)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid staff id"})
				return
			}
			filter["staff"] = staffID
		}
		// expiring=true keeps only certificates lapsing within 90 days
		if expiring, err := utils.ParseBoolQuery(c.Query("expiring")); err == nil && expiring != nil && *expiring {
			filter["expiresAt"] = bson.M{
				"$ne":  nil,
				"$lte": time.Now().UTC().Add(90 * 24 * time.Hour),
			}
		}

		opts := options.Find().SetSort(bson.D{{Key: "expiresAt", Value: 1}})
		cursor, err := col.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		items := make([]models.Certificate, 0)
		for cursor.Next(ctx) {
			var cert models.Certificate
			if err := cursor.Decode(&cert); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			items = append(items, cert)
		}
		if err := cursor.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
	}
}

func GetCertificate() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("certificates")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var cert models.Certificate
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&cert); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "certificate not found"})
			return
		}
		c.JSON(http.StatusOK, cert)
	}
}

func UpdateCertificate() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("certificates")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var body dto.UpdateCertificateDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		set := bson.M{"updatedAt": time.Now().UTC()}
		if body.Title != nil {
			set["title"] = strings.TrimSpace(*body.Title)
		}
		if body.Issuer != nil {
			set["issuer"] = *body.Issuer
		}
		if body.IssuedAt != nil {
			set["issuedAt"] = *body.IssuedAt
		}
		if body.ExpiresAt != nil {
			set["expiresAt"] = *body.ExpiresAt
		}

		res, err := col.UpdateByID(ctx, id, bson.M{"$set": set})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "certificate not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// UploadCertificateFile attaches the certificate document (PDF) stored in
// GCS. An existing file is replaced and the old object removed.
func UploadCertificateFile() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("certificates")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var cert models.Certificate
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&cert); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "certificate not found"})
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
			return
		}

		gcs, bucket, err := utils.NewGCSClient(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
			return
		}
		defer gcs.Close()

		file, err := utils.UploadCertificateFileToGCS(ctx, gcs, bucket, id.Hex(), fileHeader)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		_, err = col.UpdateByID(ctx, id, bson.M{
			"$set": bson.M{"file": file, "updatedAt": time.Now().UTC()},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if cert.File != nil {
			_ = utils.DeleteGCSObjects(ctx, gcs, bucket, []string{cert.File.ObjectName})
		}

		c.JSON(http.StatusCreated, file)
	}
}

func DeleteCertificate() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("certificates")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var cert models.Certificate
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&cert); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "certificate not found"})
			return
		}

		if _, err := col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if cert.File != nil {
			if gcs, bucket, err := utils.NewGCSClient(c); err == nil {
				defer gcs.Close()
				_ = utils.DeleteGCSObjects(ctx, gcs, bucket, []string{cert.File.ObjectName})
			}
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
