package main

import (
	"context"
	"deskly/src/db"
	"deskly/src/lib"
	"deskly/src/models"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const tagsCacheKey = "tags"

func tagHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.GET("/tags", func(ctx *gin.Context) {
		var tags []models.Tag
		rd := lib.GetRedisClient()
		if rd != nil {
			if val := rd.Get(context.Background(), tagsCacheKey).Val(); val != "" {
				if err := json.Unmarshal([]byte(val), &tags); err == nil {
					ctx.JSON(http.StatusOK, gin.H{"data": tags})
					return
				}
			}
		}
		db := db.GetDb()
		if err := db.Find(&tags).Error; err != nil {
			abortWithError(ctx, err)
			return
		}
		if rd != nil {
			if b, err := json.Marshal(&tags); err == nil {
				if err := rd.Set(context.Background(), tagsCacheKey, string(b), time.Hour).Err(); err != nil {
					log.Printf("Failed to cache tags: %s\n", err.Error())
				}
			}
		}
		ctx.JSON(http.StatusOK, gin.H{"data": tags})
	})
	return g
}
