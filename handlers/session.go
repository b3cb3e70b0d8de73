package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"retailco/shopper/app"
)

// Session is the running shopper session the handlers drive.
type Session interface {
	Dispatch(ctx context.Context, msg app.Msg) app.State
	State() app.State
}

// dispatch detaches msg from request cancellation; a started action always
// runs its whole command chain.
func dispatch(c *gin.Context, session Session, msg app.Msg) app.State {
	return session.Dispatch(context.WithoutCancel(c.Request.Context()), msg)
}

func respond(c *gin.Context, s app.State) {
	c.JSON(http.StatusOK, s.Snapshot())
}

func productIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return 0, false
	}
	return id, true
}
