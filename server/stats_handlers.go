package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SummaryStatsHandler returns the counters as chart rows.
func SummaryStatsHandler(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := deps.Store.Summary(c.Request.Context())
		if err != nil {
			abortWithDatabaseError(c, err)
			return
		}
		c.JSON(http.StatusOK, []interface{}{
			[]interface{}{"Element", "", gin.H{"role": "style"}},
			[]interface{}{"Hubs", summary.Hubs, "color: gray"},
			[]interface{}{"Species", summary.Species, "color: #76A7FA"},
			[]interface{}{"Assemblies", summary.Assemblies, "opacity: 0.2"},
		})
	}
}
