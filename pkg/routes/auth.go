package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/multipoly/multipoly-backend/app/controllers"
)

func AuthRoutes(a *fiber.App) {
	route := a.Group("/user")

	route.Post("login", controllers.Login)
}
