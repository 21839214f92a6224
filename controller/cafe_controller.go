package controller

import (
	"cafehere/dto"
	"cafehere/service"
	"cafehere/utils"

	"github.com/gin-gonic/gin"
)

type CafeController struct {
	cafes *service.CafeService
}

func NewCafeController(cafes *service.CafeService) *CafeController {
	return &CafeController{cafes: cafes}
}

// List returns only the caller's cafes.
func (cc *CafeController) List(c *gin.Context) {
	cafes, err := cc.cafes.List(c.Request.Context(), utils.CurrentUser(c))
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, dto.NewCafeListResponse(cafes))
}

func (cc *CafeController) Create(c *gin.Context) {
	var req dto.CafeRequest
	if err := utils.Bind(c, &req); err != nil {
		utils.Error(c, err)
		return
	}
	cafe, err := cc.cafes.Create(c.Request.Context(), utils.CurrentUser(c), req)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Created(c, dto.NewCafeResponse(cafe))
}

func (cc *CafeController) Get(c *gin.Context) {
	utils.OK(c, dto.NewCafeResponse(utils.CurrentCafe(c)))
}

func (cc *CafeController) Update(c *gin.Context) {
	var req dto.CafeRequest
	if err := utils.Bind(c, &req); err != nil {
		utils.Error(c, err)
		return
	}
	cafe, err := cc.cafes.Update(c.Request.Context(), utils.CurrentCafe(c), req)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, dto.NewCafeResponse(cafe))
}

func (cc *CafeController) Delete(c *gin.Context) {
	if err := cc.cafes.Delete(c.Request.Context(), utils.CurrentCafe(c)); err != nil {
		utils.Error(c, err)
		return
	}
	utils.NoContent(c)
}
