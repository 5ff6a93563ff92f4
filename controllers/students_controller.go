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

func CreateStudent() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("students")

		var body dto.CreateStudentDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		student := models.Student{
			ID:              bson.NewObjectID(),
			AdmissionNumber: strings.TrimSpace(body.AdmissionNumber),
			FirstName:       strings.TrimSpace(body.FirstName),
			LastName:        strings.TrimSpace(body.LastName),
			DateOfBirth:     body.DateOfBirth,
			GuardianName:    body.GuardianName,
			GuardianPhone:   body.GuardianPhone,
			GuardianEmail:   body.GuardianEmail,
			Notes:           body.Notes,
			CreatedAt:       time.Now().UTC(),
			UpdatedAt:       time.Now().UTC(),
		}

		if body.Class != "" {
			classID, err := bson.ObjectIDFromHex(body.Class)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid class id"})
				return
			}
			student.Class = classID
		}

		if _, err := col.InsertOne(ctx, student); err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "admission number already exists", "field": "admissionNumber"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, student)
	}
}

func GetStudents() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("students")

		page := utils.ParseIntDefault(c.Query("page"), 1)
		limit := utils.ParseIntDefault(c.Query("limit"), 50)
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 50
		}
		if limit > 200 {
			limit = 200
		}
		skip := int64((page - 1) * limit)

		filter := bson.M{}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			filter["$or"] = []bson.M{
				{"firstName": bson.M{"$regex": q, "$options": "i"}},
				{"lastName": bson.M{"$regex": q, "$options": "i"}},
				{"admissionNumber": bson.M{"$regex": q, "$options": "i"}},
			}
		}
		if class := strings.TrimSpace(c.Query("class")); class != "" {
			classID, err := bson.ObjectIDFromHex(class)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid class id"})
				return
			}
			filter["class"] = classID
		}

		opts := options.Find().
			SetSkip(skip).
			SetLimit(int64(limit)).
			SetSort(bson.D{{Key: "lastName", Value: 1}, {Key: "firstName", Value: 1}})

		cursor, err := col.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		items := make([]models.Student, 0)
		for cursor.Next(ctx) {
			var s models.Student
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

		total, err := col.CountDocuments(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"items": items,
			"page":  page,
			"limit": limit,
			"total": total,
		})
	}
}

func GetStudent() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("students")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var s models.Student
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

func UpdateStudent() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("students")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var body dto.UpdateStudentDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		set := bson.M{"updatedAt": time.Now().UTC()}
		if body.FirstName != nil {
			set["firstName"] = strings.TrimSpace(*body.FirstName)
		}
		if body.LastName != nil {
			set["lastName"] = strings.TrimSpace(*body.LastName)
		}
		if body.DateOfBirth != nil {
			set["dateOfBirth"] = *body.DateOfBirth
		}
		if body.Class != nil {
			classID, err := bson.ObjectIDFromHex(*body.Class)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid class id"})
				return
			}
			set["class"] = classID
		}
		if body.GuardianName != nil {
			set["guardianName"] = *body.GuardianName
		}
		if body.GuardianPhone != nil {
			set["guardianPhone"] = *body.GuardianPhone
		}
		if body.GuardianEmail != nil {
			set["guardianEmail"] = *body.GuardianEmail
		}
		if body.Notes != nil {
			set["notes"] = *body.Notes
		}

		res, err := col.UpdateByID(ctx, id, bson.M{"$set": set})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func DeleteStudent() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("students")

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
			c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
