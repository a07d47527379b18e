package main

import (
	"deskly/src/common"
	"deskly/src/types"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

func publicOfficeHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/offices", func(ctx *gin.Context) {
			var filters types.OfficeQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if len(filters.Tags) == 0 {
				filters.Tags = types.ParseUintList(ctx.Query("tags"))
			}
			authUserID := ctx.GetUint("id")
			offices, meta, err := common.ListOffices(&filters, authUserID)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"data":  offices,
				"meta":  meta,
				"links": pageLinks(ctx, meta),
			})
		}).
		GET("/offices/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			office, err := common.GetOffice(params.ID)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": office})
		})
	return g
}

func officeHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/offices", func(ctx *gin.Context) {
			var body types.CreateOfficeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			office, err := common.CreateOffice(&body, userId)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": office})
		}).
		PUT("/offices/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateOfficeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			office, err := common.UpdateOffice(params.ID, &body, userId)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": office})
		}).
		DELETE("/offices/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			if err := common.DeleteOffice(params.ID, userId); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		POST("/offices/:id/images", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			fileHeader, err := ctx.FormFile("image")
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "The image field is required."})
				return
			}
			file, err := fileHeader.Open()
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			defer file.Close()
			data, err := io.ReadAll(file)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			contentType := fileHeader.Header.Get("Content-Type")
			image, err := common.AddOfficeImage(params.ID, fileHeader.Filename, data, contentType, userId)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": image})
		}).
		DELETE("/offices/:id/images/:imageId", func(ctx *gin.Context) {
			var params types.OfficeImageURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			if err := common.DeleteOfficeImage(params.OfficeID, params.ImageID, userId); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
