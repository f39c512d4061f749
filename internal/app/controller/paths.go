package controller

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ProfilePath  = "/account/profile"
	OrdersPath   = "/account/orders"
	WishlistPath = "/account/wishlist"
	RegisterPath = "/register"
)

// parseID accepts a positive decimal id. Anything else is reported as absent.
func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// formAction names the posted action. It honours an explicit "action" field
// and otherwise the first known action submitted as a field of its own, which
// is how a named submit button arrives.
func formAction(c *gin.Context, known ...string) string {
	action := c.PostForm("action")
	for _, name := range known {
		if action == name {
			return name
		}
	}
	for _, name := range known {
		if _, ok := c.GetPostForm(name); ok {
			return name
		}
	}
	return action
}
