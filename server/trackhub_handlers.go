package server

import (
	"net/http"

	"github.com/Luismorlan/trackhubs/server/middlewares"
	"github.com/Luismorlan/trackhubs/store"
	"github.com/Luismorlan/trackhubs/translator"
	Logger "github.com/Luismorlan/trackhubs/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type submitHubBody struct {
	URL          string   `json:"url"`
	Assemblies   []string `json:"assemblies"`
	Type         string   `json:"type"`
	SkipHubCheck bool     `json:"skip_hubcheck"`
}

// SubmitHubHandler registers or updates the hub at body.url for the caller.
func SubmitHubHandler(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := submitHubBody{}
		if err := c.ShouldBindJSON(&body); err != nil {
			abortWithError(c, http.StatusBadRequest, translator.MsgMissingURL)
			return
		}
		userID, userName := middlewares.CurrentUser(c)

		res, err := deps.Submitter.Submit(c.Request.Context(), translator.SubmitRequest{
			URL:          body.URL,
			DataType:     body.Type,
			Assemblies:   body.Assemblies,
			SkipHubCheck: body.SkipHubCheck,
			UserID:       userID,
			UserName:     userName,
		})
		if err != nil {
			abortWithSubmissionError(c, err)
			return
		}
		c.JSON(http.StatusCreated, res)
	}
}

// ListHubsHandler lists the hubs submitted by the caller.
func ListHubsHandler(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middlewares.CurrentUser(c)
		hubs, err := deps.Store.ListHubsByOwner(c.Request.Context(), userID)
		if err != nil {
			abortWithDatabaseError(c, err)
			return
		}
		views := make([]hubView, 0, len(hubs))
		for i := range hubs {
			views = append(views, newHubView(&hubs[i]))
		}
		c.JSON(http.StatusOK, views)
	}
}

func GetHubHandler(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, msgHubNotFound)
		if !ok {
			return
		}
		hub, err := deps.Store.GetHub(c.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, fmtNotFound(msgHubNotFound, c))
			return
		}
		if err != nil {
			abortWithDatabaseError(c, err)
			return
		}
		if userID, _ := middlewares.CurrentUser(c); hub.OwnerID != userID {
			abortWithError(c, http.StatusForbidden, msgHubNotOwner)
			return
		}
		c.JSON(http.StatusOK, newHubView(hub))
	}
}

// DeleteHubHandler removes the search documents of the hub, then the hub
// with its trackdbs and tracks. Nothing is deleted when the search index
// cannot be reached.
func DeleteHubHandler(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id, ok := idParam(c, msgHubNotFound)
		if !ok {
			return
		}
		hub, err := deps.Store.GetHub(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, fmtNotFound(msgHubNotFound, c))
			return
		}
		if err != nil {
			abortWithDatabaseError(c, err)
			return
		}
		if userID, _ := middlewares.CurrentUser(c); hub.OwnerID != userID {
			abortWithError(c, http.StatusForbidden, msgHubNotOwner)
			return
		}

		for _, t := range hub.Trackdbs {
			if err := deps.Indexer.Delete(ctx, t.ID); err != nil {
				Logger.Log.WithField("trackdb_id", t.ID).Errorf("cannot delete search document: %v", err)
				abortWithError(c, http.StatusInternalServerError, msgSearchUnavailable)
				return
			}
		}
		if _, err := deps.Store.DeleteHub(ctx, id); err != nil {
			abortWithDatabaseError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
