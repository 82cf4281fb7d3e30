package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appCategory "github.com/xiebiao/bookshop/internal/application/category"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/response"
)

// CategoryHandler 分类接口
type CategoryHandler struct {
	categoryUseCase *appCategory.CategoryUseCase
}

// NewCategoryHandler 创建分类接口
func NewCategoryHandler(categoryUseCase *appCategory.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{categoryUseCase: categoryUseCase}
}

// Create 创建分类
// @Summary      创建分类
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateCategoryRequest true "分类信息"
// @Success      201 {object} response.Response{data=dto.CategoryResponse}
// @Failure      400 {object} response.Response
// @Router       /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "请求参数格式错误")
		return
	}

	cat, err := h.categoryUseCase.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.FromCategory(cat))
}

// Get 查询分类
// @Summary      查询分类
// @Tags         categories
// @Produce      json
// @Param        id path int true "分类ID"
// @Success      200 {object} response.Response{data=dto.CategoryResponse}
// @Failure      404 {object} response.Response
// @Router       /categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	cat, err := h.categoryUseCase.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FromCategory(cat))
}

// List 查询全部分类
// @Summary      分类列表
// @Tags         categories
// @Produce      json
// @Success      200 {object} response.Response{data=[]dto.CategoryResponse}
// @Router       /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryUseCase.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FromCategories(categories))
}

// Update 更新分类
// @Summary      更新分类
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id path int true "分类ID"
// @Param        request body dto.UpdateCategoryRequest true "分类信息"
// @Success      200 {object} response.Response{data=dto.CategoryResponse}
// @Failure      404 {object} response.Response
// @Router       /categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "请求参数格式错误")
		return
	}

	cat, err := h.categoryUseCase.Update(c.Request.Context(), id, req.Name, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FromCategory(cat))
}

// Delete 删除分类
// @Summary      删除分类
// @Tags         categories
// @Produce      json
// @Param        id path int true "分类ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.categoryUseCase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ListBooks 查询分类下的图书
// @Summary      分类下的图书列表
// @Tags         categories
// @Produce      json
// @Param        id path int true "分类ID"
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200 {object} response.Response{data=response.PageData}
// @Failure      404 {object} response.Response
// @Router       /categories/{id}/books [get]
func (h *CategoryHandler) ListBooks(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	books, total, err := h.categoryUseCase.ListBooks(c.Request.Context(), id, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, dto.FromBooks(books), total, page, pageSize)
}
