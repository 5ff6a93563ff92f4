package main

import (
	"context"
	"net/http"
	"time"
	"unicode"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/moazrana/CBMS-sub001/config"
	"github.com/moazrana/CBMS-sub001/controllers"
	"github.com/moazrana/CBMS-sub001/database"
	"github.com/moazrana/CBMS-sub001/middleware"
	"github.com/moazrana/CBMS-sub001/models"
	"github.com/moazrana/CBMS-sub001/policy"
	"github.com/moazrana/CBMS-sub001/rbac"
	"github.com/moazrana/CBMS-sub001/utils"
)

// pinRule accepts 3 to 8 digits.
func pinRule(fl validator.FieldLevel) bool {
	pin := fl.Field().String()
	if len(pin) < 3 || len(pin) > 8 {
		return false
	}
	for _, r := range pin {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}

	if _, err := database.Connect(cfg.MongoURI, cfg.DatabaseName); err != nil {
		logrus.Fatal(err)
	}

	ctx := context.Background()
	if err := database.EnsureIndexes(ctx); err != nil {
		logrus.Fatal(err)
	}

	permsCol := database.OpenCollection("permissions")
	rolesCol := database.OpenCollection("roles")
	usersCol := database.OpenCollection("users")

	if err := utils.SeedPermissions(ctx, permsCol); err != nil {
		logrus.Fatal(err)
	}
	if err := utils.SeedRoles(ctx, rolesCol, permsCol); err != nil {
		logrus.Fatal(err)
	}
	if err := utils.SeedAdminUser(ctx, usersCol, rolesCol, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminPin); err != nil {
		logrus.Fatal(err)
	}

	// Fail the boot on a policy table typo, not a request.
	roleNames := []string{models.RoleAdmin, models.RoleStaff, models.RoleTeacher, models.RoleStudent}
	if err := policy.Check(roleNames, utils.PermissionCatalogNames()); err != nil {
		logrus.Fatal(err)
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("pin", pinRule); err != nil {
			logrus.Fatal(err)
		}
	}

	store := rbac.NewMongoStore(usersCol, rolesCol)
	fileValidator := utils.NewPDFOrImageValidator()

	r := gin.New()

	allowedOrigins := map[string]bool{}
	for _, origin := range cfg.AllowedOrigins {
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	r.POST("/auth/login", controllers.Login(store, cfg.JWTSecret, cfg.AccessTokenTTL))

	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	{
		auth.GET("/auth/validate", controllers.Validate(store))
		auth.POST("/users/me/password", controllers.ChangeMyPassword())

		guard := func(route string) gin.HandlerFunc {
			return middleware.Require(store, policy.MustFor(route))
		}

		auth.GET("/roles", guard("GET /roles"), controllers.GetRoles())
		auth.POST("/roles", guard("POST /roles"), controllers.CreateRole())
		auth.GET("/roles/:id", guard("GET /roles/:id"), controllers.GetRole())
		auth.PATCH("/roles/:id", guard("PATCH /roles/:id"), controllers.UpdateRole())
		auth.DELETE("/roles/:id", guard("DELETE /roles/:id"), controllers.DeleteRole())
		auth.GET("/roles/name/:name", guard("GET /roles/name/:name"), controllers.GetRoleByName())

		auth.GET("/permissions", guard("GET /permissions"), controllers.GetPermissions())
		auth.POST("/permissions", guard("POST /permissions"), controllers.CreatePermission())
		auth.GET("/permissions/:id", guard("GET /permissions/:id"), controllers.GetPermission())
		auth.PATCH("/permissions/:id", guard("PATCH /permissions/:id"), controllers.UpdatePermission())
		auth.DELETE("/permissions/:id", guard("DELETE /permissions/:id"), controllers.DeletePermission())
		auth.POST("/permissions/resync", guard("POST /permissions/resync"), controllers.ResyncPermissions())

		auth.GET("/users", guard("GET /users"), controllers.GetUsers())
		auth.POST("/users", guard("POST /users"), controllers.CreateUser())
		auth.GET("/users/:id", guard("GET /users/:id"), controllers.GetUser())
		auth.PATCH("/users/:id", guard("PATCH /users/:id"), controllers.UpdateUser())
		auth.DELETE("/users/:id", guard("DELETE /users/:id"), controllers.DeleteUser())

		auth.GET("/students", guard("GET /students"), controllers.GetStudents())
		auth.POST("/students", guard("POST /students"), controllers.CreateStudent())
		auth.GET("/students/:id", guard("GET /students/:id"), controllers.GetStudent())
		auth.PATCH("/students/:id", guard("PATCH /students/:id"), controllers.UpdateStudent())
		auth.DELETE("/students/:id", guard("DELETE /students/:id"), controllers.DeleteStudent())

		auth.GET("/staff", guard("GET /staff"), controllers.GetStaffList())
		auth.POST("/staff", guard("POST /staff"), controllers.CreateStaff())
		auth.GET("/staff/:id", guard("GET /staff/:id"), controllers.GetStaff())
		auth.PATCH("/staff/:id", guard("PATCH /staff/:id"), controllers.UpdateStaff())
		auth.DELETE("/staff/:id", guard("DELETE /staff/:id"), controllers.DeleteStaff())

		auth.GET("/classes", guard("GET /classes"), controllers.GetClasses())
		auth.POST("/classes", guard("POST /classes"), controllers.CreateClass())
		auth.GET("/classes/:id", guard("GET /classes/:id"), controllers.GetClass())
		auth.GET("/classes/slug/:slug", guard("GET /classes/slug/:slug"), controllers.GetClass())
		auth.PATCH("/classes/:id", guard("PATCH /classes/:id"), controllers.UpdateClass())
		auth.DELETE("/classes/:id", guard("DELETE /classes/:id"), controllers.DeleteClass())

		auth.GET("/attendance", guard("GET /attendance"), controllers.GetAttendanceRecords())
		auth.POST("/attendance", guard("POST /attendance"), controllers.CreateAttendance())
		auth.GET("/attendance/:id", guard("GET /attendance/:id"), controllers.GetAttendanceRecord())
		auth.PATCH("/attendance/:id", guard("PATCH /attendance/:id"), controllers.UpdateAttendance())
		auth.DELETE("/attendance/:id", guard("DELETE /attendance/:id"), controllers.DeleteAttendance())

		auth.GET("/incidents", guard("GET /incidents"), controllers.GetIncidents())
		auth.POST("/incidents", guard("POST /incidents"), controllers.CreateIncident())
		auth.GET("/incidents/:id", guard("GET /incidents/:id"), controllers.GetIncident())
		auth.PATCH("/incidents/:id", guard("PATCH /incidents/:id"), controllers.UpdateIncident())
		auth.DELETE("/incidents/:id", guard("DELETE /incidents/:id"), controllers.DeleteIncident())
		auth.POST("/incidents/:id/notes", guard("POST /incidents/:id/notes"), controllers.AddIncidentNote())

		auth.GET("/safeguards", guard("GET /safeguards"), controllers.GetSafeguards())
		auth.POST("/safeguards", guard("POST /safeguards"), controllers.CreateSafeguard())
		auth.GET("/safeguards/:id", guard("GET /safeguards/:id"), controllers.GetSafeguard())
		auth.PATCH("/safeguards/:id", guard("PATCH /safeguards/:id"), controllers.UpdateSafeguard())
		auth.DELETE("/safeguards/:id", guard("DELETE /safeguards/:id"), controllers.DeleteSafeguard())
		auth.POST("/safeguards/:id/evidence", guard("POST /safeguards/:id/evidence"), controllers.AddSafeguardEvidence(fileValidator))

		auth.GET("/certificates", guard("GET /certificates"), controllers.GetCertificates())
		auth.POST("/certificates", guard("POST /certificates"), controllers.CreateCertificate())
		auth.GET("/certificates/:id", guard("GET /certificates/:id"), controllers.GetCertificate())
		auth.PATCH("/certificates/:id", guard("PATCH /certificates/:id"), controllers.UpdateCertificate())
		auth.DELETE("/certificates/:id", guard("DELETE /certificates/:id"), controllers.DeleteCertificate())
		auth.POST("/certificates/:id/file", guard("POST /certificates/:id/file"), controllers.UploadCertificateFile())
	}

	if err := r.Run(cfg.Addr); err != nil {
		logrus.Fatal(err)
	}
}
