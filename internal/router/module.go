package router

import "github.com/gin-gonic/gin"

// Module owns one slice of the API (a role's routes, the public catalog,
// the shop) and mounts it on the /api group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
