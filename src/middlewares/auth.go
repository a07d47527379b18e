package middlewares

import (
	"deskly/src/db"
	"deskly/src/models"
	"deskly/src/types"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func resolveUser(ctx *gin.Context) (*models.User, bool) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer") {
		return nil, false
	}
	reqToken := strings.Split(bearerToken, " ")[1]
	if reqToken == "" {
		return nil, false
	}
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
		return jwtKey, nil
	})
	if err != nil || !tkn.Valid {
		if err != nil {
			log.Printf("token error: %s\n", err.Error())
		}
		return nil, false
	}
	uid, err := strconv.Atoi(claims.Subject)
	if err != nil {
		log.Println("error parsing claims:", err.Error())
		return nil, false
	}
	db := db.GetDb()
	var user models.User
	if err := db.Model(&models.User{}).Where(&models.User{ID: uint(uid)}).First(&user).Error; err != nil {
		return nil, false
	}
	return &user, true
}

func setIdentity(ctx *gin.Context, user *models.User) {
	ctx.Set("id", user.ID)
	ctx.Set("email", user.Email)
	ctx.Set("is_admin", user.IsAdmin)
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(ctx *gin.Context) {
	user, ok := resolveUser(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	setIdentity(ctx, user)
}

// OptionalAuthMiddleware resolves the caller's identity when a token is
// supplied but lets anonymous requests through. Public office listings need
// it so owners can see their own hidden and pending offices.
func OptionalAuthMiddleware(ctx *gin.Context) {
	if user, ok := resolveUser(ctx); ok {
		setIdentity(ctx, user)
	}
}
