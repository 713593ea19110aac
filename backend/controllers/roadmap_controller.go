package controllers

import (
	"strconv"

	"roadmap/backend/models"
	"roadmap/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type RoadmapController struct {
	Catalog *models.Catalog
}

func NewRoadmapController(catalog *models.Catalog) *RoadmapController {
	return &RoadmapController{Catalog: catalog}
}

// GetRoadmap godoc
// @Summary Get the roadmap
// @Description Returns every phase with its steps in display order
// @Tags roadmap
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /roadmap [get]
func (rc *RoadmapController) GetRoadmap(c *fiber.Ctx) error {
	return utils.OK(c, rc.Catalog, fiber.Map{
		"phases":      len(rc.Catalog.Phases),
		"total_steps": rc.Catalog.TotalSteps(),
	})
}

// GetPhase godoc
// @Summary Get one phase
// @Tags roadmap
// @Produce json
// @Param phase path int true "Phase number"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /roadmap/phases/{phase} [get]
func (rc *RoadmapController) GetPhase(c *fiber.Ctx) error {
	number, err := strconv.Atoi(c.Params("phase"))
	if err != nil {
		return utils.BadRequest(c, "Invalid phase number")
	}

	phase, ok := rc.Catalog.Phase(number)
	if !ok {
		return utils.NotFound(c, "Phase not found")
	}
	return utils.OK(c, phase)
}
