package controller

import (
	"cafehere/apperr"
	"cafehere/dto"
	"cafehere/service"
	"cafehere/utils"

	"github.com/gin-gonic/gin"
)

const msgNotFound = "Not found."

type CategoryController struct {
	categories *service.CategoryService
}

func NewCategoryController(categories *service.CategoryService) *CategoryController {
	return &CategoryController{categories: categories}
}

func (cc *CategoryController) List(c *gin.Context) {
	categories, err := cc.categories.List(c.Request.Context(), utils.CurrentCafe(c))
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, dto.NewCategoryListResponse(categories))
}

func (cc *CategoryController) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if err := utils.Bind(c, &req); err != nil {
		utils.Error(c, err)
		return
	}
	category, err := cc.categories.Create(c.Request.Context(), utils.CurrentCafe(c), req)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Created(c, dto.NewCategoryResponse(category))
}

func (cc *CategoryController) Get(c *gin.Context) {
	id, ok := pathID(c, "category_id")
	if !ok {
		return
	}
	category, err := cc.categories.Get(c.Request.Context(), utils.CurrentCafe(c), id)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, dto.NewCategoryResponse(category))
}

func (cc *CategoryController) Update(c *gin.Context) {
	id, ok := pathID(c, "category_id")
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if err := utils.Bind(c, &req); err != nil {
		utils.Error(c, err)
		return
	}
	category, err := cc.categories.Update(c.Request.Context(), utils.CurrentCafe(c), id, req)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, dto.NewCategoryResponse(category))
}

func (cc *CategoryController) Delete(c *gin.Context) {
	id, ok := pathID(c, "category_id")
	if !ok {
		return
	}
	if err := cc.categories.Delete(c.Request.Context(), utils.CurrentCafe(c), id); err != nil {
		utils.Error(c, err)
		return
	}
	utils.NoContent(c)
}

// pathID parses a numeric path parameter, writing a 404 when it is not one.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, ok := utils.ParseID(c.Param(name))
	if !ok {
		utils.Error(c, apperr.NotFound(msgNotFound))
	}
	return id, ok
}
