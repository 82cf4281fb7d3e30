package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appBook "github.com/xiebiao/bookshop/internal/application/book"
	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/response"
)

// BookHandler 图书接口
type BookHandler struct {
	bookUseCase *appBook.BookUseCase
}

// NewBookHandler 创建图书接口
func NewBookHandler(bookUseCase *appBook.BookUseCase) *BookHandler {
	return &BookHandler{bookUseCase: bookUseCase}
}

// Publish 发布图书
// @Summary      发布图书
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        request body dto.PublishBookRequest true "图书信息"
// @Success      201 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response
// @Router       /books [post]
func (h *BookHandler) Publish(c *gin.Context) {
	var req dto.PublishBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "请求参数格式错误")
		return
	}

	b, err := h.bookUseCase.Publish(c.Request.Context(), appBook.PublishBookInput{
		ISBN:            req.ISBN,
		Title:           req.Title,
		Author:          req.Author,
		Publisher:       req.Publisher,
		PublicationYear: req.PublicationYear,
		Price:           req.Price,
		Stock:           req.Stock,
		CategoryID:      req.CategoryID,
		Description:     req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.FromBook(b))
}

// Get 查询图书详情
// @Summary      查询图书详情
// @Tags         books
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response
// @Router       /books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	b, err := h.bookUseCase.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FromBook(b))
}

// List 分页查询图书
// @Summary      图书列表
// @Tags         books
// @Produce      json
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Param        keyword query string false "搜索关键词"
// @Param        category_id query int false "分类过滤"
// @Param        sort_by query string false "排序(price_asc/price_desc/title)"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /books [get]
func (h *BookHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	categoryID, _ := strconv.ParseUint(c.DefaultQuery("category_id", "0"), 10, 32)

	params := book.ListParams{
		Page:       page,
		PageSize:   pageSize,
		Keyword:    c.Query("keyword"),
		CategoryID: uint(categoryID),
		SortBy:     c.Query("sort_by"),
	}

	books, total, err := h.bookUseCase.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, dto.FromBooks(books), total, params.Page, params.PageSize)
}

// Update 更新图书信息
// @Summary      更新图书信息
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        id path int true "图书ID"
// @Param        request body dto.UpdateBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response
// @Router       /books/{id} [put]
func (h *BookHandler) Update(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "请求参数格式错误")
		return
	}

	b, err := h.bookUseCase.UpdateInfo(c.Request.Context(), id, appBook.UpdateBookInput{
		Title:           req.Title,
		Author:          req.Author,
		Publisher:       req.Publisher,
		Description:     req.Description,
		PublicationYear: req.PublicationYear,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FromBook(b))
}

// UpdatePrice 更新图书价格
// @Summary      更新图书价格
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        id path int true "图书ID"
// @Param        request body dto.UpdateBookPriceRequest true "新价格(分)"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response
// @Router       /books/{id}/price [patch]
func (h *BookHandler) UpdatePrice(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateBookPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "请求参数格式错误")
		return
	}

	b, err := h.bookUseCase.UpdatePrice(c.Request.Context(), id, req.Price)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FromBook(b))
}

// AdjustStock 调整库存
// @Summary      调整库存
// @Description  delta为正表示补货,为负表示报损。调整后库存不能为负。
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        id path int true "图书ID"
// @Param        request body dto.AdjustStockRequest true "调整量"
// @Success      200 {object} response.Response{data=dto.StockResponse}
// @Failure      400 {object} response.Response
// @Failure      404 {object} response.Response
// @Router       /books/{id}/stock [patch]
func (h *BookHandler) AdjustStock(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req dto.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "请求参数格式错误")
		return
	}

	newStock, err := h.bookUseCase.AdjustStock(c.Request.Context(), id, req.Delta)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.StockResponse{BookID: id, NewStock: newStock})
}

// Delete 删除图书
// @Summary      删除图书
// @Tags         books
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response
// @Router       /books/{id} [delete]
func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.bookUseCase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// parseUintParam 解析路径参数中的无符号整数ID
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || value == 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的"+name+"参数")
		return 0, false
	}
	return uint(value), true
}
