package httpgin

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	redisrepo "github.com/kirinyoku/airport-go/internal/repository/redis"
)

const idemLockTTL = 60 * time.Second

// @Summary  Book tickets (idempotent)
// @Description  Creates an order with one ticket per requested seat. Either
// @Description  every ticket is booked or none is.
// @Param    req body  CreateOrderRequest true "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} OrderResponse
// @Failure  400 {object} ErrorResponse "empty booking / seat out of range"
// @Failure  404 {object} ErrorResponse "flight not found"
// @Failure  409 {object} ErrorResponse "seat taken / idem in progress"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /orders [post]
func handleCreateOrder(booking BookingService, idem IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		ctx := c.Request.Context()

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemOrder(req.UserID, idemKey)

			if payload, ok, _ := idem.GetResult(ctx, idemStorageKey); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(http.StatusCreated, "application/json; charset=utf-8", payload)
				return
			}

			locked, err := idem.AcquireLock(ctx, idemStorageKey, idemLockTTL)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				// the first request may have finished in between
				if payload, ok, _ := idem.GetResult(ctx, idemStorageKey); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(http.StatusCreated, "application/json; charset=utf-8", payload)
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(http.StatusConflict, ErrorResponse{Error: "idempotency key in progress"})
				return
			}
		}

		order, err := booking.Book(ctx, req.UserID, req.ticketRequests())
		if err != nil {
			if idemStorageKey != "" {
				_ = idem.Release(ctx, idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		resp := newOrderResponse(*order)

		if idemStorageKey != "" {
			b, _ := json.Marshal(resp)
			_ = idem.SaveResult(ctx, idemStorageKey, b)
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// @Summary  List orders of a user
// @Param    user_id    query  int  true   "User ID"
// @Param    page       query  int  false  "page number"
// @Param    page_size  query  int  false  "page size"
// @Success  200 {array} OrderResponse
// @Failure  400 {object} ErrorResponse
// @Router   /orders [get]
func handleListOrders(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := parseUserID(c)
		if !ok {
			return
		}

		list, err := orders.ListOrders(c.Request.Context(), userID, parsePage(c))
		if err != nil {
			respondErr(c, err)
			return
		}

		out := make([]OrderResponse, 0, len(list))
		for _, o := range list {
			out = append(out, newOrderResponse(o))
		}

		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Get order with tickets
// @Param    id       path   string  true  "Order ID (uuid)"
// @Param    user_id  query  int     true  "User ID"
// @Success  200 {object} OrderResponse
// @Failure  404 {object} ErrorResponse
// @Router   /orders/{id} [get]
func handleGetOrder(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			badRequest(c, "invalid id")
			return
		}

		userID, ok := parseUserID(c)
		if !ok {
			return
		}

		o, err := orders.GetOrderWithTickets(c.Request.Context(), userID, orderID)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, newOrderResponse(*o))
	}
}
