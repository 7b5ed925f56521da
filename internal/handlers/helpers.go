package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazario-backend/internal/apperr"
)

// fail normalizes any error into the {message, statusCode} shape. Unknown
// errors become an opaque 500.
func fail(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.StatusCode, appErr)
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, apperr.Internal("internal server error"))
}

func objectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		fail(c, apperr.BadRequest("invalid "+param))
		return primitive.NilObjectID, false
	}
	return id, true
}

func parseHex(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperr.BadRequest("invalid object id")
	}
	return id, nil
}

func bindJSON(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		fail(c, apperr.BadRequest("invalid input"))
		return false
	}
	return true
}
