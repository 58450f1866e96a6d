package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

// orderLocks tracks which orders currently have a mutation in flight. The
// guard is keyed by order id so actions on different orders never block each
// other; a second action on the same order is rejected instead of queued.
var orderLocks sync.Map

// LockOrderAction rejects concurrent mutations of the same order with 409.
// The lock is released when the handler chain finishes.
func LockOrderAction() gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("id")
		if orderID == "" {
			c.Next()
			return
		}

		if _, loaded := orderLocks.LoadOrStore(orderID, true); loaded {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ACTION_IN_PROGRESS",
					"message": "Another action on this order is still in progress",
				},
			})
			c.Abort()
			return
		}
		defer orderLocks.Delete(orderID)

		c.Next()
	}
}
