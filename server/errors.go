package server

import (
	"net/http"
	"strconv"

	"github.com/Luismorlan/trackhubs/translator"
	Logger "github.com/Luismorlan/trackhubs/utils/log"
	"github.com/gin-gonic/gin"
)

const (
	msgInternal          = "An internal error has occurred!"
	msgDatabase          = "Error: Failed to connect to the database"
	msgSearchUnavailable = "Cannot connect to Elasticsearch"
	msgHubNotFound       = "The hub doesn't exist, please check using 'GET api/trackhub/%s' endpoint"
	msgTrackdbNotFound   = "The trackdb doesn't exist, please check using 'GET api/trackdb/%s' endpoint"
	msgHubNotOwner       = "You are not the owner of this hub, please make sure that you entered the correct hub ID."
	msgTrackdbNotOwner   = "You are not the owner of this trackdb, please make sure that you entered the correct trackdb ID."
)

var kindStatus = map[translator.Kind]int{
	translator.KindInvalidInput: http.StatusBadRequest,
	translator.KindForbidden:    http.StatusForbidden,
	translator.KindConflict:     http.StatusConflict,
	translator.KindUpstream:     http.StatusBadGateway,
	translator.KindInternal:     http.StatusInternalServerError,
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// abortWithSubmissionError writes err with the status of its kind.
func abortWithSubmissionError(c *gin.Context, err error) {
	subErr := translator.AsSubmissionError(err)
	status, ok := kindStatus[subErr.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		Logger.Log.Errorf("submission failed: %v", subErr)
	}
	body := gin.H{"error": subErr.Message}
	if len(subErr.Details) > 0 {
		body["details"] = subErr.Details
	}
	c.AbortWithStatusJSON(status, body)
}

// abortWithDatabaseError logs err and answers 500.
func abortWithDatabaseError(c *gin.Context, err error) {
	Logger.Log.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": msgDatabase})
}

// idParam reads the :id path parameter, aborting with 404 when it is not an
// id.
func idParam(c *gin.Context, notFoundMsg string) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		abortWithError(c, http.StatusNotFound, fmtNotFound(notFoundMsg, c))
		return 0, false
	}
	return uint(id), true
}
