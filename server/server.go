// Package server exposes the registry REST API with gin.
package server

import (
	"context"

	"github.com/Luismorlan/trackhubs/search"
	"github.com/Luismorlan/trackhubs/server/middlewares"
	"github.com/Luismorlan/trackhubs/store"
	"github.com/Luismorlan/trackhubs/translator"
	"github.com/gin-gonic/gin"
)

// HubSubmitter runs hub submissions, implemented by *translator.Translator.
type HubSubmitter interface {
	Submit(ctx context.Context, req translator.SubmitRequest) (*translator.SubmitResult, error)
}

// Dependencies are the clients the handlers share, built once in main.
type Dependencies struct {
	Store     *store.Store
	Submitter HubSubmitter
	Indexer   search.Indexer
	// Reported by /api/info/version.
	Version string
	// Prefix of the trackdb uris returned by /api/info/trackhubs, e.g.
	// "https://registry.example.org".
	BaseURL string
}

// RegisterRoutes mounts every API route on router. Routes that act on behalf
// of a user require the "sub" header set by the authenticating proxy.
func RegisterRoutes(router gin.IRouter, deps *Dependencies) {
	api := router.Group("/api")

	trackhub := api.Group("/trackhub", middlewares.RequireUser())
	trackhub.POST("", SubmitHubHandler(deps))
	trackhub.GET("", ListHubsHandler(deps))
	trackhub.GET("/:id", GetHubHandler(deps))
	trackhub.DELETE("/:id", DeleteHubHandler(deps))

	trackdb := api.Group("/trackdb")
	trackdb.GET("/:id", GetTrackdbHandler(deps))
	trackdb.DELETE("/:id", middlewares.RequireUser(), DeleteTrackdbHandler(deps))

	info := api.Group("/info")
	info.GET("/version", VersionHandler(deps))
	info.GET("/ping", PingHandler(deps))
	info.GET("/species", SpeciesHandler(deps))
	info.GET("/assemblies", AssembliesHandler(deps))
	info.GET("/hubs_per_assembly/:assembly", HubsPerAssemblyHandler(deps))
	info.GET("/tracks_per_assembly/:assembly", TracksPerAssemblyHandler(deps))
	info.GET("/trackhubs", TrackhubsHandler(deps))

	api.GET("/stats/summary", SummaryStatsHandler(deps))
}
