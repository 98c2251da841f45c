package api

import (
	"net/http"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/projection"
	"github.com/Domenick1991/airport/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type airplaneTypeRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

type airplaneRequest struct {
	Name         string `json:"name" binding:"required,max=255"`
	Rows         int    `json:"rows"`
	SeatsInRow   int    `json:"seats_in_row"`
	AirplaneType int64  `json:"airplane_type" binding:"required"`
}

func (r airplaneRequest) toDomain(id int64) *domain.Airplane {
	return &domain.Airplane{ID: id, Name: r.Name, Rows: r.Rows, SeatsInRow: r.SeatsInRow, AirplaneTypeID: r.AirplaneType}
}

type AirplaneTypeHandler struct {
	service catalog.AirplaneTypeUseCase
}

func NewAirplaneTypeHandler(service catalog.AirplaneTypeUseCase) *AirplaneTypeHandler {
	return &AirplaneTypeHandler{service: service}
}

func (h *AirplaneTypeHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *AirplaneTypeHandler) create(c *gin.Context) {
	var req airplaneTypeRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.service.Create(c.Request.Context(), &domain.AirplaneType{Name: req.Name})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, projection.AirplaneType(*t))
}

func (h *AirplaneTypeHandler) list(c *gin.Context) {
	types, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projection.AirplaneTypes(types))
}

func (h *AirplaneTypeHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	t, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projection.AirplaneType(*t))
}

func (h *AirplaneTypeHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req airplaneTypeRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.service.Update(c.Request.Context(), &domain.AirplaneType{ID: id, Name: req.Name})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projection.AirplaneType(*t))
}

func (h *AirplaneTypeHandler) delete(c *gin.Context) {
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

type AirplaneHandler struct {
	service catalog.AirplaneUseCase
}

func NewAirplaneHandler(service catalog.AirplaneUseCase) *AirplaneHandler {
	return &AirplaneHandler{service: service}
}

func (h *AirplaneHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *AirplaneHandler) create(c *gin.Context) {
	var req airplaneRequest
	if !bindJSON(c, &req) {
		return
	}
	airplane, err := h.service.Create(c.Request.Context(), req.toDomain(0))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, projection.Airplane(*airplane))
}

func (h *AirplaneHandler) list(c *gin.Context) {
	airplanes, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projection.Airplanes(airplanes))
}

func (h *AirplaneHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	airplane, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projection.Airplane(*airplane))
}

func (h *AirplaneHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req airplaneRequest
	if !bindJSON(c, &req) {
		return
	}
	airplane, err := h.service.Update(c.Request.Context(), req.toDomain(id))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projection.Airplane(*airplane))
}

func (h *AirplaneHandler) delete(c *gin.Context) {
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
