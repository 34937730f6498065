package routes

import (
	"github.com/gofiber/fiber/v2"

	"CookShare-Backend/internal/api/handlers"
	"CookShare-Backend/internal/middleware"
	"CookShare-Backend/pkg/jwt"
)

type Config struct {
	App            *fiber.App
	UserHandler    handlers.UserHandler
	RecipeHandler  handlers.RecipeHandler
	ProductHandler handlers.ProductHandler
	StatsHandler   handlers.StatsHandler
	Middleware     middleware.Middleware
	JWTService     jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Recipes()
	c.Products()
	c.Stats()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/auto-login", c.UserHandler.TryAutoLogin)
		user.Post("/forget", c.UserHandler.ForgotPassword)
		user.Post("/reset", c.UserHandler.ResetPassword)
		user.Get("/me", auth, c.UserHandler.Me)
		user.Get("/session", c.UserHandler.IsSessionKept)
		user.Post("/session/keep", auth, c.UserHandler.AlternateKeepSession)
		user.Post("/logout", auth, c.UserHandler.Logout)
		user.Patch("/update", auth, c.UserHandler.UpdateUser)
		user.Patch("/password", auth, c.UserHandler.UpdatePassword)
		user.Patch("/email", auth, c.UserHandler.UpdateEmail)
		user.Post("/picture", auth, c.UserHandler.UploadProfilePicture)
		user.Delete("/account", auth, c.UserHandler.DeleteAccount)
		user.Get("/inactive", auth, c.Middleware.AdminMiddleware(), c.UserHandler.GetInactiveUsers)
		user.Get("/:username", c.UserHandler.GetUserByName)
	}
}

func (c *Config) Recipes() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	recipes := c.App.Group("/api/v1/recipes")
	{
		recipes.Get("", c.RecipeHandler.GetRecipes)
		recipes.Get("/filter", c.RecipeHandler.FilterRecipes)
		recipes.Get("/:id", c.RecipeHandler.GetRecipeDetail)
		recipes.Post("", auth, c.RecipeHandler.SaveRecipe)
		recipes.Delete("/:id", auth, c.RecipeHandler.DeleteRecipe)
		recipes.Post("/favourite", auth, c.RecipeHandler.AlternateFavourite)
		recipes.Post("/comments", auth, c.RecipeHandler.PostComment)
		recipes.Delete("/comments", auth, c.RecipeHandler.DeleteComment)
	}
}

func (c *Config) Products() {
	products := c.App.Group("/api/v1/products", c.Middleware.AuthMiddleware(c.JWTService))
	products.Get("/:barcode", c.ProductHandler.GetProduct)
}

func (c *Config) Stats() {
	stats := c.App.Group(
		"/api/v1/stats",
		c.Middleware.AuthMiddleware(c.JWTService),
		c.Middleware.AdminMiddleware(),
	)
	stats.Get("", c.StatsHandler.GetStats)
	stats.Get("/report", c.StatsHandler.GetActivityReport)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
