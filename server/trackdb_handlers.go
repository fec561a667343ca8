package server

import (
	"fmt"
	"net/http"

	"github.com/Luismorlan/trackhubs/server/middlewares"
	"github.com/Luismorlan/trackhubs/store"
	Logger "github.com/Luismorlan/trackhubs/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

func fmtNotFound(format string, c *gin.Context) string {
	return fmt.Sprintf(format, c.Param("id"))
}

// GetTrackdbHandler is public, trackdbs are readable without a user.
func GetTrackdbHandler(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id, ok := idParam(c, msgTrackdbNotFound)
		if !ok {
			return
		}
		trackdb, err := deps.Store.GetTrackdb(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, fmtNotFound(msgTrackdbNotFound, c))
			return
		}
		if err != nil {
			abortWithDatabaseError(c, err)
			return
		}
		tracks, err := deps.Store.ListTracks(ctx, id)
		if err != nil {
			abortWithDatabaseError(c, err)
			return
		}
		c.JSON(http.StatusOK, newTrackdbView(trackdb, tracks))
	}
}

// DeleteTrackdbHandler removes the search document, then the trackdb and its
// tracks, then the hub when it has no trackdb left.
func DeleteTrackdbHandler(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id, ok := idParam(c, msgTrackdbNotFound)
		if !ok {
			return
		}
		trackdb, err := deps.Store.GetTrackdb(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, fmtNotFound(msgTrackdbNotFound, c))
			return
		}
		if err != nil {
			abortWithDatabaseError(c, err)
			return
		}
		if userID, _ := middlewares.CurrentUser(c); trackdb.Hub.OwnerID != userID {
			abortWithError(c, http.StatusForbidden, msgTrackdbNotOwner)
			return
		}

		if err := deps.Indexer.Delete(ctx, id); err != nil {
			Logger.Log.WithField("trackdb_id", id).Errorf("cannot delete search document: %v", err)
			abortWithError(c, http.StatusInternalServerError, msgSearchUnavailable)
			return
		}
		hubDeleted, err := deps.Store.DeleteTrackdb(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, fmtNotFound(msgTrackdbNotFound, c))
			return
		}
		if err != nil {
			abortWithDatabaseError(c, err)
			return
		}
		if hubDeleted {
			Logger.Log.WithField("hub_id", trackdb.HubID).Infoln("last trackdb deleted, hub removed")
		}
		c.Status(http.StatusNoContent)
	}
}
