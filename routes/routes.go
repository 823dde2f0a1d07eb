package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/Akhalfstar/Realeaste-bakend/handlers"
	"github.com/Akhalfstar/Realeaste-bakend/middleware"
	"github.com/Akhalfstar/Realeaste-bakend/utils"
)

type Controllers struct {
	Property *handlers.PropertyController
	User     *handlers.UserController
	Like     *handlers.LikeController
	Admin    *handlers.AdminController
}

func RegisterRoutes(e *echo.Echo, ctrl Controllers, tokens *utils.TokenManager) {
	e.GET("/health", handlers.HealthCheck)

	auth := middleware.JWT(tokens)
	api := e.Group("/api/v1")

	users := api.Group("/users")
	users.POST("/register", ctrl.User.Register)
	users.POST("/login", ctrl.User.Login)
	users.GET("/current-user", ctrl.User.GetProfile, auth)
	users.PATCH("/update-account", ctrl.User.UpdateProfile, auth)
	users.DELETE("/delete-account", ctrl.User.DeleteAccount, auth)

	property := api.Group("/property")
	property.POST("/createProperty", ctrl.Property.CreateProperty, auth)
	property.GET("/search", ctrl.Property.SearchProperties)
	property.GET("/searchOne", ctrl.Property.GetProperty)
	property.POST("/update/:id", ctrl.Property.UpdateProperty, auth)
	property.POST("/deleteOne/:id", ctrl.Property.DeleteProperty, auth)
	property.GET("/searchNear", ctrl.Property.NearbyProperties)
	property.GET("/propertyStatus", ctrl.Property.PropertyStats)
	property.GET("/myProperties", ctrl.Property.MyProperties, auth)

	like := api.Group("/like", auth)
	like.POST("/update", ctrl.Like.ToggleLike)
	like.POST("/status", ctrl.Like.LikeStatus)
	like.GET("/likes", ctrl.Like.UserLikes)

	admin := api.Group("/admin", auth)
	admin.GET("/users", ctrl.Admin.GetAllUsers)
	admin.PATCH("/users/:userId/role", ctrl.Admin.ToggleUserRole)
	admin.GET("/stats", ctrl.Admin.GetUserStats)
}
