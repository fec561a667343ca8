package server

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Luismorlan/trackhubs/model"
	"github.com/Luismorlan/trackhubs/search"
)

const dateLayout = "2006-01-02 15:04:05"

type hubView struct {
	HubID          uint             `json:"hub_id"`
	Name           string           `json:"name"`
	ShortLabel     string           `json:"short_label"`
	LongLabel      string           `json:"long_label"`
	URL            string           `json:"url"`
	DescriptionURL string           `json:"description_url"`
	Email          string           `json:"email"`
	Type           string           `json:"type"`
	Trackdbs       []hubTrackdbView `json:"trackdbs"`
}

type hubTrackdbView struct {
	TrackdbID         uint   `json:"trackdb_id"`
	Version           string `json:"version"`
	Created           string `json:"created"`
	Updated           string `json:"updated"`
	AssemblyName      string `json:"assembly_name"`
	AssemblyAccession string `json:"assembly_accession"`
	SourceURL         string `json:"source_url"`
}

func formatEpoch(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(dateLayout)
}

func newHubView(hub *model.Hub) hubView {
	v := hubView{
		HubID:          hub.ID,
		Name:           hub.Name,
		ShortLabel:     hub.ShortLabel,
		LongLabel:      hub.LongLabel,
		URL:            hub.URL,
		DescriptionURL: hub.DescriptionURL,
		Email:          hub.Email,
		Trackdbs:       []hubTrackdbView{},
	}
	if hub.DataType != nil {
		v.Type = hub.DataType.Name
	}
	for _, t := range hub.Trackdbs {
		v.Trackdbs = append(v.Trackdbs, hubTrackdbView{
			TrackdbID:         t.ID,
			Version:           t.Version,
			Created:           formatEpoch(t.Created),
			Updated:           formatEpoch(t.Updated),
			AssemblyName:      t.Assembly.Name,
			AssemblyAccession: t.Assembly.Accession,
			SourceURL:         t.SourceURL,
		})
	}
	return v
}

type trackdbView struct {
	Owner         string              `json:"owner"`
	FileType      map[string]int      `json:"file_type"`
	Created       string              `json:"created"`
	Updated       string              `json:"updated"`
	Version       string              `json:"version"`
	Type          string              `json:"type"`
	Source        search.Source       `json:"source"`
	Hub           trackdbHubView      `json:"hub"`
	Species       trackdbSpeciesView  `json:"species"`
	Assembly      trackdbAssemblyView `json:"assembly"`
	Configuration json.RawMessage     `json:"configuration"`
	Status        json.RawMessage     `json:"status"`
}

type trackdbHubView struct {
	Name       string `json:"name"`
	ShortLabel string `json:"short_label"`
	LongLabel  string `json:"long_label"`
	URL        string `json:"url"`
}

type trackdbSpeciesView struct {
	ScientificName string `json:"scientific_name"`
	CommonName     string `json:"common_name"`
	TaxonID        int    `json:"taxon_id"`
}

type trackdbAssemblyView struct {
	Name        string `json:"name"`
	Accession   string `json:"accession"`
	UcscSynonym string `json:"ucsc_synonym"`
}

// newTrackdbView shapes a trackdb loaded by store.GetTrackdb. tracks carry
// their file type.
func newTrackdbView(trackdb *model.Trackdb, tracks []model.Track) trackdbView {
	v := trackdbView{
		Owner:    trackdb.Hub.Owner.Name,
		FileType: search.FileTypeCounts(tracks),
		Created:  formatEpoch(trackdb.Created),
		Updated:  formatEpoch(trackdb.Updated),
		Version:  trackdb.Version,
		Source:   search.Source{URL: trackdb.SourceURL, Checksum: trackdb.SourceChecksum},
		Hub: trackdbHubView{
			Name:       trackdb.Hub.Name,
			ShortLabel: trackdb.Hub.ShortLabel,
			LongLabel:  trackdb.Hub.LongLabel,
			URL:        trackdb.Hub.URL,
		},
		Species: trackdbSpeciesView{
			ScientificName: trackdb.Species.ScientificName,
			CommonName:     trackdb.Species.CommonName,
			TaxonID:        trackdb.Species.TaxonID,
		},
		Assembly: trackdbAssemblyView{
			Name:        trackdb.Assembly.Name,
			Accession:   trackdb.Assembly.Accession,
			UcscSynonym: trackdb.Assembly.UcscSynonym,
		},
		Configuration: rawOr(trackdb.Configuration, "{}"),
		Status:        rawOr(trackdb.Status, "null"),
	}
	if trackdb.Hub.DataType != nil {
		v.Type = trackdb.Hub.DataType.Name
	}
	return v
}

func rawOr(raw []byte, fallback string) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage(fallback)
	}
	return json.RawMessage(raw)
}

type assemblyInfoView struct {
	Name      string   `json:"name"`
	Accession string   `json:"accession"`
	Synonyms  []string `json:"synonyms"`
}

type trackhubInfoView struct {
	Name       string                    `json:"name"`
	ShortLabel string                    `json:"shortLabel"`
	LongLabel  string                    `json:"longLabel"`
	URL        string                    `json:"url"`
	Trackdbs   []trackhubInfoTrackdbView `json:"trackdbs"`
}

type trackhubInfoTrackdbView struct {
	Species  string `json:"species"`
	URI      string `json:"uri"`
	Assembly string `json:"assembly"`
}

func newTrackhubInfoView(hub *model.Hub, baseURL string) trackhubInfoView {
	v := trackhubInfoView{
		Name:       hub.Name,
		ShortLabel: hub.ShortLabel,
		LongLabel:  hub.LongLabel,
		URL:        hub.URL,
		Trackdbs:   []trackhubInfoTrackdbView{},
	}
	for _, t := range hub.Trackdbs {
		v.Trackdbs = append(v.Trackdbs, trackhubInfoTrackdbView{
			Species:  fmt.Sprint(t.Species.TaxonID),
			URI:      fmt.Sprintf("%s/api/trackdb/%d", baseURL, t.ID),
			Assembly: t.Assembly.Accession,
		})
	}
	return v
}
