package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/invoicer/internal/config"
	"github.com/example/invoicer/internal/metrics"
	"github.com/example/invoicer/internal/models"
	"github.com/example/invoicer/internal/services"
	"github.com/example/invoicer/internal/utils"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
	sms services.SMSSender
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, sms services.SMSSender) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, sms: sms}
}

type signupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
	Name        string `json:"name"`
}

// Signup creates a new user account. A two-factor secret is generated
// unconditionally so the account works if 2FA is enabled later.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	var existing models.User
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusBadRequest, "email already exists")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	secret, err := utils.GenerateTwoFactorSecret(req.Email)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate two-factor secret")
	}

	user := models.User{
		Email:           req.Email,
		PasswordHash:    passwordHash,
		PhoneNumber:     req.PhoneNumber,
		Name:            req.Name,
		TwoFactorSecret: secret,
	}

	if err := h.db.Create(&user).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"userId":  user.ID,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials. With 2FA disabled a session token is
// returned directly. With 2FA enabled a challenge code is sent to the
// user's phone and no token is issued until the code is verified; a
// gateway failure also yields no token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	if h.cfg.Enable2FA {
		code, err := utils.GenerateTwoFactorCode(user.TwoFactorSecret)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to generate 2FA code")
		}

		if err := h.sms.SendSMS(user.PhoneNumber, "Your 2FA code is: "+code); err != nil {
			metrics.ObserveChallengeSend("failure")
			return fiber.NewError(fiber.StatusBadGateway, "error sending 2FA code")
		}
		metrics.ObserveChallengeSend("success")

		return c.JSON(fiber.Map{
			"userId":  user.ID,
			"message": "2FA code sent to your phone",
		})
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"auth":  true,
		"token": token,
	})
}

type verify2FARequest struct {
	UserID string `json:"userId"`
	Code   string `json:"code"`
}

// Verify2FA checks a challenge code against the user's secret and
// completes the login by issuing a session token.
func (h *AuthHandler) Verify2FA(c *fiber.Ctx) error {
	if !h.cfg.Enable2FA {
		return fiber.NewError(fiber.StatusBadRequest, "2FA is currently disabled")
	}

	var req verify2FARequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	if !utils.VerifyTwoFactorCode(user.TwoFactorSecret, req.Code) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid 2FA code")
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"auth":  true,
		"token": token,
	})
}
