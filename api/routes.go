package api

import (
	"net/http"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/projection"
	"github.com/Domenick1991/airport/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type routeRequest struct {
	Distance    int   `json:"distance"`
	Source      int64 `json:"source" binding:"required"`
	Destination int64 `json:"destination" binding:"required"`
}

func (r routeRequest) toDomain(id int64) *domain.Route {
	return &domain.Route{ID: id, Distance: r.Distance, SourceID: r.Source, DestinationID: r.Destination}
}

type RouteHandler struct {
	service catalog.RouteUseCase
}

func NewRouteHandler(service catalog.RouteUseCase) *RouteHandler {
	return &RouteHandler{service: service}
}

func (h *RouteHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *RouteHandler) create(c *gin.Context) {
	var req routeRequest
	if !bindJSON(c, &req) {
		return
	}
	route, err := h.service.Create(c.Request.Context(), req.toDomain(0))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, projection.Route(*route))
}

func (h *RouteHandler) list(c *gin.Context) {
	routes, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projection.Routes(routes))
}

func (h *RouteHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	route, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projection.Route(*route))
}

func (h *RouteHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req routeRequest
	if !bindJSON(c, &req) {
		return
	}
	route, err := h.service.Update(c.Request.Context(), req.toDomain(id))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projection.Route(*route))
}

func (h *RouteHandler) delete(c *gin.Context) {
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
