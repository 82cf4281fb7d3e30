package handler

import (
	"github.com/gin-gonic/gin"

	appCart "github.com/xiebiao/bookshop/internal/application/cart"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/response"
)

// CartHandler 购物车接口
type CartHandler struct {
	cartUseCase     *appCart.CartUseCase
	checkoutUseCase *appCart.CheckoutUseCase
}

// NewCartHandler 创建购物车接口
func NewCartHandler(cartUseCase *appCart.CartUseCase, checkoutUseCase *appCart.CheckoutUseCase) *CartHandler {
	return &CartHandler{cartUseCase: cartUseCase, checkoutUseCase: checkoutUseCase}
}

// Create 创建购物车
// @Summary      创建购物车
// @Description  每个客户同时最多一个购物车
// @Tags         carts
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateCartRequest true "客户信息"
// @Success      201 {object} response.Response{data=dto.CartResponse}
// @Failure      400 {object} response.Response
// @Router       /carts [post]
func (h *CartHandler) Create(c *gin.Context) {
	var req dto.CreateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "请求参数格式错误")
		return
	}

	cart, err := h.cartUseCase.Create(c.Request.Context(), req.CustomerEmail)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.FromCart(cart))
}

// Get 查询购物车
// @Summary      查询购物车
// @Tags         carts
// @Produce      json
// @Param        id path int true "购物车ID"
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Failure      404 {object} response.Response
// @Router       /carts/{id} [get]
func (h *CartHandler) Get(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	cart, err := h.cartUseCase.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FromCart(cart))
}

// GetByCustomer 根据客户邮箱查询购物车
// @Summary      查询客户购物车
// @Tags         carts
// @Produce      json
// @Param        email query string true "客户邮箱"
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Failure      404 {object} response.Response
// @Router       /carts [get]
func (h *CartHandler) GetByCustomer(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "缺少email参数")
		return
	}

	cart, err := h.cartUseCase.GetByCustomerEmail(c.Request.Context(), email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FromCart(cart))
}

// AddItem 加入图书
// @Summary      加入图书
// @Description  同一本书重复加入时合并数量,价格快照保留首次加车时的价格
// @Tags         carts
// @Accept       json
// @Produce      json
// @Param        id path int true "购物车ID"
// @Param        request body dto.AddCartItemRequest true "图书与数量"
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Failure      400 {object} response.Response
// @Failure      404 {object} response.Response
// @Router       /carts/{id}/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "请求参数格式错误")
		return
	}

	cart, err := h.cartUseCase.AddItem(c.Request.Context(), id, req.BookID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FromCart(cart))
}

// UpdateItem 修改条目数量
// @Summary      修改条目数量
// @Tags         carts
// @Accept       json
// @Produce      json
// @Param        id path int true "购物车ID"
// @Param        item_id path int true "条目ID"
// @Param        request body dto.UpdateCartItemRequest true "新数量"
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Failure      404 {object} response.Response
// @Router       /carts/{id}/items/{item_id} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseUintParam(c, "item_id")
	if !ok {
		return
	}

	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "请求参数格式错误")
		return
	}

	cart, err := h.cartUseCase.UpdateItemQuantity(c.Request.Context(), id, itemID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FromCart(cart))
}

// RemoveItem 移除条目
// @Summary      移除条目
// @Tags         carts
// @Produce      json
// @Param        id path int true "购物车ID"
// @Param        item_id path int true "条目ID"
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Failure      404 {object} response.Response
// @Router       /carts/{id}/items/{item_id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseUintParam(c, "item_id")
	if !ok {
		return
	}

	cart, err := h.cartUseCase.RemoveItem(c.Request.Context(), id, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FromCart(cart))
}

// Delete 删除购物车
// @Summary      删除购物车
// @Tags         carts
// @Produce      json
// @Param        id path int true "购物车ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response
// @Router       /carts/{id} [delete]
func (h *CartHandler) Delete(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.cartUseCase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Checkout 结算购物车
// @Summary      结算购物车
// @Description  将购物车转化为订单。库存校验、扣减与订单写入在单个事务中完成,
// @Description  成功后购物车被删除,同一购物车至多成交一次。
// @Tags         carts
// @Accept       json
// @Produce      json
// @Param        id path int true "购物车ID"
// @Param        request body dto.CheckoutRequest true "收货信息"
// @Success      201 {object} response.Response{data=dto.OrderResponse}
// @Failure      400 {object} response.Response
// @Failure      404 {object} response.Response
// @Router       /carts/{id}/checkout [post]
func (h *CartHandler) Checkout(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "请求参数格式错误")
		return
	}

	order, err := h.checkoutUseCase.Execute(c.Request.Context(), appCart.CheckoutInput{
		CartID:          id,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.FromOrder(order))
}
