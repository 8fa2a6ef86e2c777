package interfaces

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"warehouse/internal/pkg/httpx"
	"warehouse/internal/pkg/logger"
	"warehouse/internal/service/orderqueue/application"
	"warehouse/internal/service/orderqueue/domain"
)

// OrderQueueHandler 封装了订单队列服务的 HTTP 处理器
type OrderQueueHandler struct {
	service *application.OrderQueueService
}

// NewOrderQueueHandler 创建一个新的 HTTP 处理器实例
func NewOrderQueueHandler(service *application.OrderQueueService) *OrderQueueHandler {
	return &OrderQueueHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *OrderQueueHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /checkorders", h.handleCheckOrders)
	mux.HandleFunc("POST /addorders", h.handleAddOrders)
	// 旧客户端用 GET 删除，两种方法都接受
	mux.HandleFunc("GET /deleteorders/{id}", h.handleDeleteOrders)
	mux.HandleFunc("DELETE /deleteorders/{id}", h.handleDeleteOrders)
}

func (h *OrderQueueHandler) handleCheckOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.CheckOrders(r.Context())
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.WriteJSON(w, http.StatusOK, orders)
}

func (h *OrderQueueHandler) handleAddOrders(w http.ResponseWriter, r *http.Request) {
	var req application.AddOrderRequest
	if err := httpx.DecodeStrict(r, &req); err != nil {
		logger.Ctx(r.Context()).Warn().Err(err).Msg("Rejected order with invalid body")
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.AddOrder(r.Context(), &req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidQuantity) {
			status = http.StatusBadRequest
		}
		httpx.WriteError(w, status, err.Error())
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, resp)
}

func (h *OrderQueueHandler) handleDeleteOrders(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "order id must be an integer")
		return
	}

	if err := h.service.DeleteOrder(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, map[string]string{"message": "Order not found"})
			return
		}
		httpx.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Order %d deleted successfully", id),
	})
}
