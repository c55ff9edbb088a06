package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopdesk-api/internal/application/service"
	"github.com/sangkips/shopdesk-api/internal/domain/repository"
	"github.com/sangkips/shopdesk-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopdesk-api/internal/presentation/http/dto/response"
)

// ShopHandler handles shop-related HTTP requests
type ShopHandler struct {
	shopService *service.ShopService
}

// NewShopHandler creates a new shop handler
func NewShopHandler(shopService *service.ShopService) *ShopHandler {
	return &ShopHandler{shopService: shopService}
}

// List handles listing shops
// @Summary List Shops
// @Tags shops
// @Security BearerAuth
// @Param search query string false "Name, owner, username or phone"
// @Param district query string false "District"
// @Success 200 {object} response.APIResponse
// @Router /shops [get]
func (h *ShopHandler) List(c *gin.Context) {
	result, err := h.shopService.ListShops(c.Request.Context(), pageParams(c), repository.ShopFilter{
		Search:   c.Query("search"),
		District: c.Query("district"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, "Shops retrieved successfully", result)
}

// Create handles registering a shop
// @Summary Create Shop
// @Tags shops
// @Security BearerAuth
// @Accept json
// @Param request body request.CreateShopRequest true "Shop"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /shops [post]
func (h *ShopHandler) Create(c *gin.Context) {
	var req request.CreateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	shop, err := h.shopService.CreateShop(c.Request.Context(), &service.CreateShopInput{
		Name:      req.Name,
		OwnerName: req.OwnerName,
		NIC:       req.NIC,
		Address:   req.Address,
		District:  req.District,
		Area:      req.Area,
		Email:     req.Email,
		Phone:     req.Phone,
		WhatsApp:  req.WhatsApp,
		Username:  req.Username,
		Password:  req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Shop created successfully", shop)
}

// Get handles getting a single shop
func (h *ShopHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id", "shop")
	if !ok {
		return
	}

	shop, err := h.shopService.GetShop(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Shop retrieved successfully", shop)
}

// Update handles a partial shop update
func (h *ShopHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id", "shop")
	if !ok {
		return
	}

	var req request.UpdateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	shop, err := h.shopService.UpdateShop(c.Request.Context(), &service.UpdateShopInput{
		ID:        id,
		Name:      req.Name,
		OwnerName: req.OwnerName,
		NIC:       req.NIC,
		Address:   req.Address,
		District:  req.District,
		Area:      req.Area,
		Email:     req.Email,
		Phone:     req.Phone,
		WhatsApp:  req.WhatsApp,
		Username:  req.Username,
		Password:  req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Shop updated successfully", shop)
}

// Delete handles removing a shop
func (h *ShopHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id", "shop")
	if !ok {
		return
	}

	if err := h.shopService.DeleteShop(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Shop deleted successfully", nil)
}

// UploadLogo stores the multipart "logo" file as the shop's logo
func (h *ShopHandler) UploadLogo(c *gin.Context) {
	id, ok := paramID(c, "id", "shop")
	if !ok {
		return
	}

	header, err := c.FormFile("logo")
	if err != nil {
		response.BadRequest(c, "logo file is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, err)
		return
	}

	shop, err := h.shopService.UploadLogo(c.Request.Context(), id, data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Logo uploaded successfully", shop)
}
