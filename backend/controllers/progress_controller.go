package controllers

import (
	"strconv"

	"roadmap/backend/store"
	"roadmap/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ProgressController struct {
	Store *store.Store
}

func NewProgressController(s *store.Store) *ProgressController {
	return &ProgressController{Store: s}
}

// GetProgress godoc
// @Summary Get completed steps
// @Description Returns the completed step numbers keyed by phase number
// @Tags progress
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /progress [get]
func (pc *ProgressController) GetProgress(c *fiber.Ctx) error {
	return utils.OK(c, pc.Store.Snapshot())
}

// GetProgressOverview godoc
// @Summary Get progress overview
// @Description Returns per-phase and overall completion percentages
// @Tags progress
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /progress/overview [get]
func (pc *ProgressController) GetProgressOverview(c *fiber.Ctx) error {
	return utils.OK(c, pc.Store.Overview())
}

// GetPhaseProgress godoc
// @Summary Get progress of one phase
// @Tags progress
// @Produce json
// @Param phase path int true "Phase number"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /progress/phases/{phase} [get]
func (pc *ProgressController) GetPhaseProgress(c *fiber.Ctx) error {
	phase, err := strconv.Atoi(c.Params("phase"))
	if err != nil {
		return utils.BadRequest(c, "Invalid phase number")
	}

	overview, ok := pc.Store.Overview().Phase(phase)
	if !ok {
		return utils.NotFound(c, "Phase not found")
	}
	return utils.OK(c, overview)
}

// ToggleStep godoc
// @Summary Toggle a step
// @Description Marks a step complete, or incomplete if it already was, and returns the new overview.
// @Description Steps outside the roadmap are recorded as well.
// @Tags progress
// @Produce json
// @Param phase path int true "Phase number"
// @Param step path int true "Step number"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /progress/phases/{phase}/steps/{step}/toggle [post]
func (pc *ProgressController) ToggleStep(c *fiber.Ctx) error {
	phase, err := strconv.Atoi(c.Params("phase"))
	if err != nil {
		return utils.BadRequest(c, "Invalid phase number")
	}
	step, err := strconv.Atoi(c.Params("step"))
	if err != nil {
		return utils.BadRequest(c, "Invalid step number")
	}

	state := pc.Store.Toggle(c.UserContext(), phase, step)

	return utils.OK(c, fiber.Map{
		"phase":     phase,
		"step":      step,
		"completed": state.IsCompleted(phase, step),
		"overview":  pc.Store.Overview(),
	})
}
