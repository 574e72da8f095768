package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/canteen/app/resources"
	"github.com/shashiranjanraj/canteen/app/services"
	"github.com/shashiranjanraj/canteen/pkg/ctx"
	"github.com/shashiranjanraj/canteen/pkg/logger"
	"github.com/shashiranjanraj/canteen/pkg/orm"
	"github.com/shashiranjanraj/canteen/pkg/resource"
	"github.com/shashiranjanraj/canteen/pkg/ws"
)

const defaultQRSize = 256

type OrderController struct {
	orders  *services.OrderService
	catalog *services.CatalogService
	hub     *ws.Hub
}

func NewOrderController(orders *services.OrderService, catalog *services.CatalogService, hub *ws.Hub) *OrderController {
	return &OrderController{orders: orders, catalog: catalog, hub: hub}
}

// Index: GET /api/orders?status=pending|fulfilled&page=&per_page=
// Students see their own orders, sellers the orders sent to their restaurant.
func (h *OrderController) Index(c *ctx.Context) {
	orders, p, err := h.orders.List(c.Context(), viewer(c), c.Query("status"),
		c.QueryInt("page", 1), c.QueryInt("per_page", orm.DefaultPerPage))
	if err != nil {
		fail(c, err)
		return
	}
	c.Paginated(resource.Many(resources.Order, orders), p)
}

func (h *OrderController) Show(c *ctx.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	o, err := h.orders.Show(c.Context(), viewer(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.Order(*o))
}

// Complete: POST /api/orders/{id}/complete
func (h *OrderController) Complete(c *ctx.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	o, err := h.orders.Fulfill(c.Context(), c.UserID(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]any{"message": "Order completed", "order": resources.Order(*o)})
}

// QRCode: GET /api/orders/{id}/qrcode?size=256
func (h *OrderController) QRCode(c *ctx.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	png, err := h.orders.PickupQR(c.Context(), viewer(c), id, c.QueryInt("size", defaultQRSize))
	if err != nil {
		fail(c, err)
		return
	}
	c.Blob(http.StatusOK, "image/png", png)
}

// Feed upgrades to a websocket that receives the seller's order events.
func (h *OrderController) Feed(c *ctx.Context) {
	v, err := h.catalog.MyVenue(c.Context(), c.UserID())
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.hub.Serve(c.W, c.R, ws.VenueTopic(v.ID)); err != nil {
		logger.WithCtx(c.Context()).Warn("order feed upgrade failed", "venue_id", v.ID, "error", err)
	}
}
