package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopdesk-api/internal/presentation/http/dto/response"
	"github.com/sangkips/shopdesk-api/pkg/locations"
)

// LocationHandler serves the district and town pick-lists
type LocationHandler struct{}

func NewLocationHandler() *LocationHandler {
	return &LocationHandler{}
}

// Districts lists every district
func (h *LocationHandler) Districts(c *gin.Context) {
	response.OK(c, "Districts retrieved successfully", locations.Districts())
}

// Towns lists the towns of one district
func (h *LocationHandler) Towns(c *gin.Context) {
	district, ok := locations.Canonical(c.Param("district"))
	if !ok {
		response.NotFound(c, "District not found")
		return
	}
	towns, _ := locations.Towns(district)
	response.OK(c, "Towns retrieved successfully", gin.H{
		"district": district,
		"towns":    towns,
	})
}
