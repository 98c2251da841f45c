package api

import (
	"net/http"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/projection"
	"github.com/Domenick1991/airport/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type crewRequest struct {
	FirstName string `json:"first_name" binding:"required,max=255"`
	LastName  string `json:"last_name" binding:"required,max=255"`
}

type CrewHandler struct {
	service catalog.CrewUseCase
}

func NewCrewHandler(service catalog.CrewUseCase) *CrewHandler {
	return &CrewHandler{service: service}
}

func (h *CrewHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *CrewHandler) create(c *gin.Context) {
	var req crewRequest
	if !bindJSON(c, &req) {
		return
	}
	member, err := h.service.Create(c.Request.Context(), &domain.Crew{FirstName: req.FirstName, LastName: req.LastName})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, projection.Crew(*member))
}

func (h *CrewHandler) list(c *gin.Context) {
	crew, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projection.CrewList(crew))
}

func (h *CrewHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	member, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projection.Crew(*member))
}

func (h *CrewHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req crewRequest
	if !bindJSON(c, &req) {
		return
	}
	member, err := h.service.Update(c.Request.Context(), &domain.Crew{ID: id, FirstName: req.FirstName, LastName: req.LastName})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projection.Crew(*member))
}

func (h *CrewHandler) delete(c *gin.Context) {
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
