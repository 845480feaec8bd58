package httpapi

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"postboard/internal/core/apperror"
)

const maxPageSize = 100

// pageParams reads the optional limit/offset query parameters. A zero limit
// means no paging.
func pageParams(c *gin.Context) (limit, offset int, err error) {
	if s := c.Query("limit"); s != "" {
		limit, err = strconv.Atoi(s)
		if err != nil || limit < 0 {
			return 0, 0, apperror.Validation("invalid limit")
		}
		if limit > maxPageSize {
			limit = maxPageSize
		}
	}
	if s := c.Query("offset"); s != "" {
		offset, err = strconv.Atoi(s)
		if err != nil || offset < 0 {
			return 0, 0, apperror.Validation("invalid offset")
		}
	}
	return limit, offset, nil
}
