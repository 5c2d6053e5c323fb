package httpapi

import (
	"strconv"

	"github.com/dmitrijs2005/noteshare/internal/common"
	"github.com/dmitrijs2005/noteshare/internal/server/models"
	"github.com/gin-gonic/gin"
)

// pathID parses the :id segment as a positive integer.
func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.BadRequest("id must be a positive integer")
	}
	return id, nil
}

// page reads limit and offset. Both are optional non-negative integers;
// limit is capped at models.MaxPageLimit.
func page(c *gin.Context) (models.Page, error) {
	p := models.DefaultPage()

	if v, ok := c.GetQuery("limit"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, common.BadRequest("limit must be a non-negative integer")
		}
		p.Limit = min(n, models.MaxPageLimit)
	}
	if v, ok := c.GetQuery("offset"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, common.BadRequest("offset must be a non-negative integer")
		}
		p.Offset = n
	}
	return p, nil
}
