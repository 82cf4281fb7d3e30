package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appOrder "github.com/xiebiao/bookshop/internal/application/order"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/response"
)

// OrderHandler 订单接口
type OrderHandler struct {
	createOrderUC  *appOrder.CreateOrderUseCase
	updateStatusUC *appOrder.UpdateStatusUseCase
	getOrderUC     *appOrder.GetOrderUseCase
}

// NewOrderHandler 创建订单接口
func NewOrderHandler(
	createOrderUC *appOrder.CreateOrderUseCase,
	updateStatusUC *appOrder.UpdateStatusUseCase,
	getOrderUC *appOrder.GetOrderUseCase,
) *OrderHandler {
	return &OrderHandler{
		createOrderUC:  createOrderUC,
		updateStatusUC: updateStatusUC,
		getOrderUC:     getOrderUC,
	}
}

// Create 直接下单
// @Summary      下单
// @Description  全部行项在单个事务中校验并扣减库存,任一行不满足则整单失败。
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateOrderRequest true "订单信息"
// @Success      201 {object} response.Response{data=dto.OrderResponse}
// @Failure      400 {object} response.Response
// @Failure      404 {object} response.Response
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "请求参数格式错误")
		return
	}

	lines := make([]appOrder.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, appOrder.OrderLine{
			BookID:   item.BookID,
			Quantity: item.Quantity,
		})
	}

	o, err := h.createOrderUC.Execute(c.Request.Context(), appOrder.CreateOrderInput{
		CustomerEmail:   req.CustomerEmail,
		ShippingAddress: req.ShippingAddress,
		Lines:           lines,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.FromOrder(o))
}

// Get 查询订单
// @Summary      查询订单
// @Tags         orders
// @Produce      json
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=dto.OrderResponse}
// @Failure      404 {object} response.Response
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	o, err := h.getOrderUC.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FromOrder(o))
}

// List 查询订单
// @Summary      查询订单列表
// @Description  按客户邮箱分页查询;传order_no时按订单号精确查询单笔订单
// @Tags         orders
// @Produce      json
// @Param        email query string false "客户邮箱"
// @Param        order_no query string false "订单号(精确查询)"
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(10)
// @Success      200 {object} response.Response{data=response.PageData}
// @Failure      404 {object} response.Response
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	if orderNo := c.Query("order_no"); orderNo != "" {
		o, err := h.getOrderUC.GetByOrderNo(c.Request.Context(), orderNo)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, dto.FromOrder(o))
		return
	}

	email := c.Query("email")
	if email == "" {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "缺少email参数")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	orders, total, err := h.getOrderUC.ListByCustomer(c.Request.Context(), email, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, dto.FromOrders(orders), total, page, pageSize)
}

// UpdateStatus 更新订单状态
// @Summary      更新订单状态
// @Description  只允许前向流转:Pending→Processing/Cancelled,Processing→Shipped/Cancelled,Shipped→Delivered
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path int true "订单ID"
// @Param        request body dto.UpdateOrderStatusRequest true "目标状态"
// @Success      200 {object} response.Response{data=dto.OrderResponse}
// @Failure      400 {object} response.Response
// @Failure      404 {object} response.Response
// @Router       /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "请求参数格式错误")
		return
	}

	target, valid := order.ParseStatus(req.Status)
	if !valid {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "未知的订单状态: "+req.Status)
		return
	}

	o, err := h.updateStatusUC.Execute(c.Request.Context(), id, target)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FromOrder(o))
}
