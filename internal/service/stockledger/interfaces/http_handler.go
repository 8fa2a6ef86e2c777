package interfaces

import (
	"errors"
	"net/http"

	"warehouse/internal/pkg/httpx"
	"warehouse/internal/pkg/logger"
	"warehouse/internal/service/stockledger/application"
	"warehouse/internal/service/stockledger/domain"
)

// StockLedgerHandler 封装了库存台账服务的 HTTP 处理器
type StockLedgerHandler struct {
	service *application.StockLedgerService
	stream  http.Handler
}

// NewStockLedgerHandler 创建一个新的 HTTP 处理器实例，stream 为 nil 时不注册 /stream。
func NewStockLedgerHandler(service *application.StockLedgerService, stream http.Handler) *StockLedgerHandler {
	return &StockLedgerHandler{service: service, stream: stream}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *StockLedgerHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /checkstock", h.handleCheckStock)
	mux.HandleFunc("POST /increasestock", h.handleIncreaseStock)
	mux.HandleFunc("POST /decreasestock", h.handleDecreaseStock)
	if h.stream != nil {
		mux.Handle("GET /stream", h.stream)
	}
}

func (h *StockLedgerHandler) handleCheckStock(w http.ResponseWriter, r *http.Request) {
	product := r.URL.Query().Get("product")

	resp, err := h.service.CheckStock(r.Context(), product)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *StockLedgerHandler) handleIncreaseStock(w http.ResponseWriter, r *http.Request) {
	var req application.AdjustStockRequest
	if err := httpx.DecodeStrict(r, &req); err != nil {
		logger.Ctx(r.Context()).Warn().Err(err).Msg("Rejected increase with invalid body")
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	resp, err := h.service.IncreaseStock(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *StockLedgerHandler) handleDecreaseStock(w http.ResponseWriter, r *http.Request) {
	var req application.AdjustStockRequest
	if err := httpx.DecodeStrict(r, &req); err != nil {
		logger.Ctx(r.Context()).Warn().Err(err).Msg("Rejected decrease with invalid body")
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	resp, err := h.service.DecreaseStock(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// writeServiceError 根据错误类型返回不同的 HTTP 状态码
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, domain.ErrInvalidQuantity):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		httpx.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
