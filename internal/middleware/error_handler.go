package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"propman-be-svc/pkg/utils"
)

// ErrorHandler recovers from panics and turns them into a clean 500
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				utils.InternalServerErrorResponse(c, "Internal server error", fmt.Errorf("%v", r))
				c.Abort()
			}
		}()
		c.Next()
	}
}

// NoRouteHandler responds to unknown paths
func NoRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.NotFoundResponse(c, "Route not found", nil)
	}
}

// NoMethodHandler responds to known paths with the wrong verb
func NoMethodHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.BadRequestResponse(c, "Method not allowed", nil)
	}
}
