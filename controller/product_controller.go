package controller

import (
	"path/filepath"
	"strings"

	"cafehere/apperr"
	"cafehere/dto"
	"cafehere/model"
	"cafehere/service"
	"cafehere/utils"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	products *service.ProductService
}

func NewProductController(products *service.ProductService) *ProductController {
	return &ProductController{products: products}
}

func (pc *ProductController) response(c *gin.Context, p *model.Product) dto.ProductResponse {
	return dto.NewProductResponse(p, pc.products.ImageURL(c.Request.Context(), p))
}

// List supports ?search= (name or initial consonants) and ?category= (exact name).
func (pc *ProductController) List(c *gin.Context) {
	var q dto.ProductListQuery
	if err := utils.BindQuery(c, &q); err != nil {
		utils.Error(c, err)
		return
	}
	products, err := pc.products.List(c.Request.Context(), utils.CurrentCafe(c), q)
	if err != nil {
		utils.Error(c, err)
		return
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, pc.response(c, &products[i]))
	}
	utils.OK(c, out)
}

func (pc *ProductController) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := utils.Bind(c, &req); err != nil {
		utils.Error(c, err)
		return
	}
	p, err := pc.products.Create(c.Request.Context(), utils.CurrentCafe(c), req)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Created(c, pc.response(c, p))
}

func (pc *ProductController) Get(c *gin.Context) {
	id, ok := pathID(c, "product_id")
	if !ok {
		return
	}
	p, err := pc.products.Get(c.Request.Context(), utils.CurrentCafe(c), id)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, pc.response(c, p))
}

func (pc *ProductController) Update(c *gin.Context) {
	id, ok := pathID(c, "product_id")
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if err := utils.Bind(c, &req); err != nil {
		utils.Error(c, err)
		return
	}
	p, err := pc.products.Update(c.Request.Context(), utils.CurrentCafe(c), id, req)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, pc.response(c, p))
}

func (pc *ProductController) Delete(c *gin.Context) {
	id, ok := pathID(c, "product_id")
	if !ok {
		return
	}
	if err := pc.products.Delete(c.Request.Context(), utils.CurrentCafe(c), id); err != nil {
		utils.Error(c, err)
		return
	}
	utils.NoContent(c)
}

// UploadImage takes a multipart "image" (jpg, jpeg or png).
func (pc *ProductController) UploadImage(c *gin.Context) {
	id, ok := pathID(c, "product_id")
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.Error(c, apperr.Field("image", "No file was submitted."))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.Error(c, apperr.Internal(err))
		return
	}
	defer file.Close()

	p, err := pc.products.SetImage(c.Request.Context(), utils.CurrentCafe(c), id, fileHeader.Filename, fileHeader.Size, file)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, pc.response(c, p))
}

// Import takes a multipart "file" holding an .xlsx workbook.
func (pc *ProductController) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.Error(c, apperr.Field("file", "Excel file is required"))
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".xlsx") {
		utils.Error(c, apperr.Field("file", "Only .xlsx files are supported"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.Error(c, apperr.Internal(err))
		return
	}
	defer file.Close()

	result, err := pc.products.Import(c.Request.Context(), utils.CurrentCafe(c), file)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Created(c, result)
}
