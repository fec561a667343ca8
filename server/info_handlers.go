package server

import (
	"net/http"
	"strconv"

	Logger "github.com/Luismorlan/trackhubs/utils/log"
	"github.com/gin-gonic/gin"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 1000
)

func VersionHandler(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": deps.Version})
	}
}

// PingHandler reports whether the search index answers.
func PingHandler(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := deps.Indexer.Ping(c.Request.Context()); err != nil {
			Logger.Log.Warnf("search index ping failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Error: Service Unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ping": 1})
	}
}

func SpeciesHandler(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		names, err := deps.Store.ListSpeciesNames(c.Request.Context())
		if err != nil {
			abortWithDatabaseError(c, err)
			return
		}
		c.JSON(http.StatusOK, names)
	}
}

// AssembliesHandler groups assemblies under their species scientific name.
func AssembliesHandler(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		bySpecies, err := deps.Store.ListAssembliesBySpecies(c.Request.Context())
		if err != nil {
			abortWithDatabaseError(c, err)
			return
		}
		out := make(map[string][]assemblyInfoView, len(bySpecies))
		for species, assemblies := range bySpecies {
			views := make([]assemblyInfoView, 0, len(assemblies))
			for _, a := range assemblies {
				views = append(views, assemblyInfoView{Name: a.Name, Accession: a.Accession, Synonyms: []string{a.UcscSynonym}})
			}
			out[species] = views
		}
		c.JSON(http.StatusOK, out)
	}
}

// HubsPerAssemblyHandler counts hubs with data on :assembly, an accession
// when it starts with GCA and an assembly name otherwise.
func HubsPerAssemblyHandler(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := deps.Store.CountHubsPerAssembly(c.Request.Context(), c.Param("assembly"))
		if err != nil {
			abortWithDatabaseError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tot": n})
	}
}

func TracksPerAssemblyHandler(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := deps.Store.CountTracksPerAssembly(c.Request.Context(), c.Param("assembly"))
		if err != nil {
			abortWithDatabaseError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tot": n})
	}
}

// queryInt reads a non-negative integer query parameter.
func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

// TrackhubsHandler lists every hub, paginated with limit and offset.
func TrackhubsHandler(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := queryInt(c, "limit", defaultPageLimit)
		if limit == 0 || limit > maxPageLimit {
			limit = maxPageLimit
		}
		offset := queryInt(c, "offset", 0)

		hubs, total, err := deps.Store.ListHubs(c.Request.Context(), limit, offset)
		if err != nil {
			abortWithDatabaseError(c, err)
			return
		}
		results := make([]trackhubInfoView, 0, len(hubs))
		for i := range hubs {
			results = append(results, newTrackhubInfoView(&hubs[i], deps.BaseURL))
		}
		c.JSON(http.StatusOK, gin.H{
			"count":    total,
			"next":     pageURL(c, limit, offset+limit, int64(offset+limit) < total),
			"previous": pageURL(c, limit, offset-limit, offset > 0),
			"results":  results,
		})
	}
}

// pageURL is the link of another page of the current listing, or nil.
func pageURL(c *gin.Context, limit, offset int, exists bool) interface{} {
	if !exists {
		return nil
	}
	if offset < 0 {
		offset = 0
	}
	return c.Request.URL.Path + "?limit=" + strconv.Itoa(limit) + "&offset=" + strconv.Itoa(offset)
}
