package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/projection"
	"github.com/Domenick1991/airport/internal/service/flights"
	"github.com/gin-gonic/gin"
)

const msgBadDatetime = "Datetime has wrong format. Use one of these formats instead: YYYY-MM-DD HH:MM, YYYY-MM-DDThh:mm:ssZ."

type flightRequest struct {
	DepartureTime string  `json:"departure_time" binding:"required"`
	ArrivalTime   string  `json:"arrival_time" binding:"required"`
	Route         int64   `json:"route" binding:"required"`
	Airplane      int64   `json:"airplane" binding:"required"`
	Crew          []int64 `json:"crew"`
}

// toDomain answers 400 itself when a timestamp does not parse.
func (r flightRequest) toDomain(c *gin.Context, id int64) (*domain.Flight, bool) {
	departure, err := projection.ParseTime(r.DepartureTime)
	if err != nil {
		badRequest(c, "departure_time", msgBadDatetime)
		return nil, false
	}
	arrival, err := projection.ParseTime(r.ArrivalTime)
	if err != nil {
		badRequest(c, "arrival_time", msgBadDatetime)
		return nil, false
	}
	return &domain.Flight{
		ID:            id,
		RouteID:       r.Route,
		AirplaneID:    r.Airplane,
		DepartureTime: departure,
		ArrivalTime:   arrival,
		CrewIDs:       r.Crew,
	}, true
}

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *FlightHandler) create(c *gin.Context) {
	var req flightRequest
	if !bindJSON(c, &req) {
		return
	}
	input, ok := req.toDomain(c, 0)
	if !ok {
		return
	}
	flight, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, projection.Flight(*flight))
}

func (h *FlightHandler) list(c *gin.Context) {
	filter, ok := parseFlightFilter(c)
	if !ok {
		return
	}
	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projection.FlightSummaries(list))
}

func (h *FlightHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projection.FlightDetail(*flight))
}

func (h *FlightHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req flightRequest
	if !bindJSON(c, &req) {
		return
	}
	input, ok := req.toDomain(c, id)
	if !ok {
		return
	}
	flight, err := h.service.Update(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projection.Flight(*flight))
}

func (h *FlightHandler) delete(c *gin.Context) {
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

// parseFlightFilter reads ?source=&destination=&route=&airplane=&date=YYYY-MM-DD.
func parseFlightFilter(c *gin.Context) (domain.FlightFilter, bool) {
	var filter domain.FlightFilter
	for _, p := range []struct {
		name string
		dst  *int64
	}{
		{"source", &filter.SourceID},
		{"destination", &filter.DestinationID},
		{"route", &filter.RouteID},
		{"airplane", &filter.AirplaneID},
	} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 1 {
			badRequest(c, p.name, "A valid integer is required.")
			return filter, false
		}
		*p.dst = v
	}

	if raw := c.Query("date"); raw != "" {
		date, err := time.ParseInLocation(time.DateOnly, raw, time.UTC)
		if err != nil {
			badRequest(c, "date", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
			return filter, false
		}
		filter.Date = date
	}
	return filter, true
}
