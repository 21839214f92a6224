package controller

import (
	"cafehere/dto"
	"cafehere/service"
	"cafehere/utils"

	"github.com/gin-gonic/gin"
)

type OptionGroupController struct {
	groups *service.OptionGroupService
}

func NewOptionGroupController(groups *service.OptionGroupService) *OptionGroupController {
	return &OptionGroupController{groups: groups}
}

func (oc *OptionGroupController) List(c *gin.Context) {
	groups, err := oc.groups.List(c.Request.Context(), utils.CurrentCafe(c))
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, dto.NewOptionGroupListResponse(groups))
}

func (oc *OptionGroupController) Create(c *gin.Context) {
	var req dto.OptionGroupRequest
	if err := utils.Bind(c, &req); err != nil {
		utils.Error(c, err)
		return
	}
	group, err := oc.groups.Create(c.Request.Context(), utils.CurrentCafe(c), req)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Created(c, dto.NewOptionGroupResponse(group))
}

func (oc *OptionGroupController) Get(c *gin.Context) {
	id, ok := pathID(c, "option_group_id")
	if !ok {
		return
	}
	group, err := oc.groups.Get(c.Request.Context(), utils.CurrentCafe(c), id)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, dto.NewOptionGroupResponse(group))
}

// Update replaces the option set: options missing from the payload are removed.
func (oc *OptionGroupController) Update(c *gin.Context) {
	id, ok := pathID(c, "option_group_id")
	if !ok {
		return
	}
	var req dto.OptionGroupRequest
	if err := utils.Bind(c, &req); err != nil {
		utils.Error(c, err)
		return
	}
	group, err := oc.groups.Update(c.Request.Context(), utils.CurrentCafe(c), id, req)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, dto.NewOptionGroupResponse(group))
}

func (oc *OptionGroupController) Delete(c *gin.Context) {
	id, ok := pathID(c, "option_group_id")
	if !ok {
		return
	}
	if err := oc.groups.Delete(c.Request.Context(), utils.CurrentCafe(c), id); err != nil {
		utils.Error(c, err)
		return
	}
	utils.NoContent(c)
}
