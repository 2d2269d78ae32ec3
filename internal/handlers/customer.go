package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/invoicer/internal/middleware"
	"github.com/example/invoicer/internal/models"
)

// CustomerHandler manages owner-scoped customer endpoints.
type CustomerHandler struct {
	db *gorm.DB
}

// NewCustomerHandler constructs CustomerHandler.
func NewCustomerHandler(db *gorm.DB) *CustomerHandler {
	return &CustomerHandler{db: db}
}

// ListCustomers returns the authenticated user's customers.
func (h *CustomerHandler) ListCustomers(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	customers := []models.Customer{}
	if err := h.db.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&customers).Error; err != nil {
		return err
	}

	return c.JSON(customers)
}

type createCustomerRequest struct {
	Name        string `json:"name"`
	CompanyName string `json:"companyName"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	Address     string `json:"address"`
}

// CreateCustomer creates a customer owned by the authenticated user.
func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	customer := models.Customer{
		UserID:      userID,
		Name:        req.Name,
		CompanyName: req.CompanyName,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Address:     req.Address,
	}

	if err := h.db.Create(&customer).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(customer)
}

type updateCustomerRequest struct {
	Name        *string `json:"name"`
	CompanyName *string `json:"companyName"`
	PhoneNumber *string `json:"phoneNumber"`
	Email       *string `json:"email"`
	Address     *string `json:"address"`
}

// UpdateCustomer patches a customer owned by the authenticated user.
func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	customerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var customer models.Customer
	if err := h.db.First(&customer, "id = ? AND user_id = ?", customerID, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "customer not found")
		}
		return err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.CompanyName != nil {
		updates["company_name"] = *req.CompanyName
	}
	if req.PhoneNumber != nil {
		updates["phone_number"] = *req.PhoneNumber
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}

	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	if err := h.db.Model(&customer).Updates(updates).Error; err != nil {
		return err
	}

	return c.JSON(customer)
}

// DeleteCustomer removes a customer owned by the authenticated user.
func (h *CustomerHandler) DeleteCustomer(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	customerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result := h.db.Where("id = ? AND user_id = ?", customerID, userID).
		Delete(&models.Customer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "customer not found")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
