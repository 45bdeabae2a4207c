package controllers

import (
	"os"
	"strings"

	jwt "github.com/form3tech-oss/jwt-go"
	"github.com/gofiber/fiber/v2"

	"github.com/multipoly/multipoly-backend/app/models"
	"github.com/multipoly/multipoly-backend/platform/database"
	"github.com/multipoly/multipoly-backend/platform/queries"
)

func JwtSecret() []byte {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return []byte(secret)
	}
	return []byte("secret")
}

// Login exchanges a wallet address for an access token. Key custody and
// signature verification belong to the wallet provider in front of us; the
// address is the stable player identity on this side.
func Login(c *fiber.Ctx) error {
	db := database.PostgreSQLConnection()
	defer db.Close()

	userDto := new(models.UserDto)
	if err := c.BodyParser(userDto); err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	wallet := strings.ToLower(strings.TrimSpace(userDto.Wallet))
	if wallet == "" {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	user, err := queries.GetOrCreateUser(wallet, db)
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = user.Id
	claims["wallet"] = user.Wallet
	t, err := token.SignedString(JwtSecret())
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(fiber.Map{"access_token": t})
}

func Cur(c *fiber.Ctx) error {
	user := c.Locals("user").(*jwt.Token)
	claims := user.Claims.(jwt.MapClaims)
	user_id := claims["user_id"].(string)
	return c.SendString(user_id)
}
