package api

import (
	"net/http"

	"github.com/Domenick1991/airport/internal/middleware"
	"github.com/Domenick1991/airport/internal/projection"
	"github.com/Domenick1991/airport/internal/service/orders"
	"github.com/gin-gonic/gin"
)

type ticketRequest struct {
	Row    int   `json:"row"`
	Seat   int   `json:"seat"`
	Flight int64 `json:"flight" binding:"required"`
}

type orderRequest struct {
	Tickets []ticketRequest `json:"tickets" binding:"dive"`
}

type createTicketRequest struct {
	ticketRequest
	Order int64 `json:"order" binding:"required"`
}

// OrderHandler and TicketHandler expect the router group to require an
// authenticated user.
type OrderHandler struct {
	service orders.OrderUseCase
}

func NewOrderHandler(service orders.OrderUseCase) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
}

func (h *OrderHandler) create(c *gin.Context) {
	var req orderRequest
	if !bindJSON(c, &req) {
		return
	}
	inputs := make([]orders.TicketInput, 0, len(req.Tickets))
	for _, t := range req.Tickets {
		inputs = append(inputs, orders.TicketInput{FlightID: t.Flight, Row: t.Row, Seat: t.Seat})
	}

	order, err := h.service.CreateOrder(c.Request.Context(), middleware.UserID(c), inputs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, projection.Order(*order))
}

func (h *OrderHandler) list(c *gin.Context) {
	list, err := h.service.ListOrders(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projection.OrderSummaries(list))
}

type TicketHandler struct {
	service orders.OrderUseCase
}

func NewTicketHandler(service orders.OrderUseCase) *TicketHandler {
	return &TicketHandler{service: service}
}

func (h *TicketHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/:id", h.get)
}

func (h *TicketHandler) create(c *gin.Context) {
	var req createTicketRequest
	if !bindJSON(c, &req) {
		return
	}
	ticket, err := h.service.CreateTicket(c.Request.Context(), middleware.UserID(c), orders.TicketInput{
		FlightID: req.Flight,
		Row:      req.Row,
		Seat:     req.Seat,
		OrderID:  req.Order,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, projection.Ticket(*ticket))
}

func (h *TicketHandler) list(c *gin.Context) {
	tickets, err := h.service.ListTickets(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projection.TicketSummaries(tickets))
}

func (h *TicketHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ticket, err := h.service.GetTicket(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projection.TicketDetail(*ticket))
}
