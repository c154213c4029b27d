package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework used for routing

	"github.com/tablekeeper/floorplan/internal/handler"    // handlers implementing the API
	"github.com/tablekeeper/floorplan/internal/middleware" // JWT, role, service-key, rate limit and cache middleware
)

// Handlers bundles everything the route table needs.
type Handlers struct {
	Floor       *handler.FloorHandler
	Table       *handler.TableHandler
	Transition  *handler.TransitionHandler
	Reservation *handler.ReservationHandler
}

// RegisterRoutes registers routes that require no authentication.
// Currently that is only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI registers the venue-scoped API.  All routes require a staff
// JWT; registry mutations additionally require the OWNER or MANAGER role.
// The rate limiter and the read cache are applied per group: limiting
// covers everything authenticated, caching only the GET read endpoints.
func RegisterAPI(e *echo.Echo, h Handlers, jwtSecret string, limit, cache echo.MiddlewareFunc) {
	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(jwtSecret))
	v1.Use(middleware.RequireRole("OWNER", "MANAGER", "SERVER"))
	if limit != nil {
		v1.Use(limit)
	}

	// Read side.  These go through the response cache when configured.
	reads := v1.Group("")
	if cache != nil {
		reads.Use(cache)
	}
	reads.GET("/floor", h.Floor.GetFloor)
	reads.GET("/tables/:id/status", h.Floor.GetTableStatus)
	reads.GET("/counters", h.Floor.GetCounters)
	reads.GET("/reservations", h.Floor.ListReservations)

	// Occupancy transitions; any staff role can run the floor.
	v1.POST("/tables/:id/seat", h.Transition.SeatParty)
	v1.POST("/tables/:id/close", h.Transition.CloseTable)
	v1.POST("/tables/:id/advance", h.Transition.AdvanceStatus)
	v1.POST("/tables/:id/merge", h.Transition.MergeTables)
	v1.POST("/tables/:id/unmerge", h.Transition.UnmergeTable)

	// Reservation ledger operations.
	v1.POST("/reservations", h.Reservation.CreateReservation)
	v1.POST("/reservations/:id/confirm", h.Reservation.ConfirmReservation)
	v1.POST("/reservations/:id/assign", h.Reservation.AssignReservation)
	v1.POST("/reservations/:id/unassign", h.Reservation.UnassignReservation)
	v1.POST("/reservations/:id/cancel", h.Reservation.CancelReservation)
	v1.POST("/reservations/:id/no-show", h.Reservation.NoShowReservation)

	// Floor plan management is restricted to owners and managers.
	admin := v1.Group("/tables", middleware.RequireRole("OWNER", "MANAGER"))
	admin.POST("", h.Table.CreateTable)
	admin.PATCH("/:id", h.Table.UpdateTable)
	admin.DELETE("/:id", h.Table.DeleteTable)
}

// RegisterInternal registers the callback routes used by other backend
// systems.  They are authenticated by a static service key rather than a
// staff JWT; today that is only the billing-settled signal from the
// payment system.
func RegisterInternal(e *echo.Echo, h Handlers, serviceKeyHash string) {
	g := e.Group("/v1/internal", middleware.RequireServiceKey(serviceKeyHash))
	g.POST("/venues/:venue_id/tables/:table_id/bill-settled", h.Transition.BillSettled)
}
