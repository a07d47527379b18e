package main

import (
	"deskly/src/boot"
	"deskly/src/config"
	"deskly/src/db"
	"deskly/src/middlewares"
	"deskly/src/models"
	"deskly/src/types"
	"errors"
	"log"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

const apiPrefix = "/api/v1"

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

// reservableDate accepts plain calendar dates; the business rules about the
// date values live in the admission engine.
var reservableDate validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := time.Parse(config.DATE_PARSE_FORMAT, date)
	return err == nil
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("reservabledate", reservableDate)
	}
}

func generateJWT(email string, id uint, isAdmin bool) (string, error) {
	now := time.Now()
	claims := &types.Claims{
		Email:   email,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(id)),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// abortWithError maps the error taxonomy onto HTTP statuses. Nothing below
// the business layer leaks to callers.
func abortWithError(ctx *gin.Context, err error) {
	if ve, ok := types.IsValidationError(err); ok {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": ve.Error(), "errors": ve.Errors})
		return
	}
	if errors.Is(err, types.ErrForbidden) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": types.ErrForbidden.Error()})
		return
	}
	if errors.Is(err, types.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": types.ErrNotFound.Error()})
		return
	}
	if errors.Is(err, types.ErrConflict) {
		ctx.JSON(http.StatusConflict, gin.H{"error": types.ErrConflict.Error()})
		return
	}
	log.Printf("Could not complete request: %s\n", err.Error())
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error while processing request"})
}

func pageLinks(ctx *gin.Context, meta types.PageMeta) gin.H {
	base := ctx.Request.URL.Path
	link := func(page int) string {
		q := ctx.Request.URL.Query()
		q.Set("page", strconv.Itoa(page))
		return base + "?" + q.Encode()
	}
	links := gin.H{"first": link(1), "last": link(meta.LastPage), "prev": nil, "next": nil}
	if meta.CurrentPage > 1 {
		links["prev"] = link(meta.CurrentPage - 1)
	}
	if meta.CurrentPage < meta.LastPage {
		links["next"] = link(meta.CurrentPage + 1)
	}
	return links
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	return router
}

func corsMiddleware() gin.HandlerFunc {
	origins := os.Getenv("CORS_ORIGINS")
	cfg := cors.DefaultConfig()
	if origins == "" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = strings.Split(origins, ",")
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	return cors.New(cfg)
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

func guestAuthRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	guest := apiv1.Group("/auth")
	guest.POST("/login", func(ctx *gin.Context) {
		var body struct {
			Email string `json:"email" binding:"required,email"`
		}
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		d := db.GetDb()
		var user models.User
		err := d.Where(&models.User{Email: body.Email}).First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.Status(http.StatusNotFound)
				return
			}
			abortWithError(ctx, err)
			return
		}
		token, err := generateJWT(user.Email, user.ID, user.IsAdmin)
		if err != nil {
			abortWithError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"token": token})
	})
	return guest
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			log.Printf("No .env file loaded: %s\n", err.Error())
		}
	}
	registerValidators()

	boot.InitDb()
	boot.InitScheduler()
	defer boot.StopScheduler()

	router := setupRouter()
	router.Use(corsMiddleware())

	guestAuthRoutes(router)

	public := apiv1Group(router)
	public.Use(middlewares.OptionalAuthMiddleware)
	tagHandlers(public)
	publicOfficeHandlers(public)

	authed := apiv1Group(router)
	authed.Use(middlewares.AuthMiddleware)
	officeHandlers(authed)
	reservationHandlers(authed)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server stopped: %s\n", err.Error())
	}
}
