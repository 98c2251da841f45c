package api

import (
	"net/http"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/projection"
	"github.com/Domenick1991/airport/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type airportRequest struct {
	Name           string `json:"name" binding:"required,max=255"`
	ClosestBigCity string `json:"closest_big_city" binding:"required,max=255"`
}

func (r airportRequest) toDomain(id int64) *domain.Airport {
	return &domain.Airport{ID: id, Name: r.Name, ClosestBigCity: r.ClosestBigCity}
}

type AirportHandler struct {
	service catalog.AirportUseCase
}

func NewAirportHandler(service catalog.AirportUseCase) *AirportHandler {
	return &AirportHandler{service: service}
}

func (h *AirportHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *AirportHandler) create(c *gin.Context) {
	var req airportRequest
	if !bindJSON(c, &req) {
		return
	}
	airport, err := h.service.Create(c.Request.Context(), req.toDomain(0))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, projection.Airport(*airport))
}

func (h *AirportHandler) list(c *gin.Context) {
	airports, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projection.Airports(airports))
}

func (h *AirportHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	airport, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projection.Airport(*airport))
}

func (h *AirportHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req airportRequest
	if !bindJSON(c, &req) {
		return
	}
	airport, err := h.service.Update(c.Request.Context(), req.toDomain(id))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projection.Airport(*airport))
}

func (h *AirportHandler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	noContent(c)
}
