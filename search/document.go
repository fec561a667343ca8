// Package search keeps the search index projection of every trackdb.
package search

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Luismorlan/trackhubs/model"
	"github.com/pkg/errors"
)

/*

Document is the search index projection of one trackdb. It is rebuilt from
the relational rows on every submission and enrichment run, the relational
store stays the source of truth.

Owner: display name of the hub owner
Type: hub data type
FileType: number of tracks per file type
Data: the trackdb data summary
BrowserLinks: deep links into genome browsers, only those that apply
Configuration / Status: the stored JSON documents, passed through as is
*/

type Document struct {
	TrackdbID     uint                 `json:"trackdb_id"`
	Public        bool                 `json:"public"`
	Description   string               `json:"description"`
	Version       string               `json:"version"`
	Created       int64                `json:"created"`
	Updated       int64                `json:"updated"`
	Owner         string               `json:"owner"`
	Type          string               `json:"type"`
	FileType      map[string]int       `json:"file_type"`
	Data          []model.TrackSummary `json:"data"`
	BrowserLinks  map[string]string    `json:"browser_links"`
	Source        Source               `json:"source"`
	Hub           Hub                  `json:"hub"`
	Assembly      Assembly             `json:"assembly"`
	Species       Species              `json:"species"`
	Configuration json.RawMessage      `json:"configuration"`
	Status        json.RawMessage      `json:"status"`
}

type Source struct {
	URL      string `json:"url"`
	Checksum string `json:"checksum"`
}

type Hub struct {
	Name           string `json:"name"`
	ShortLabel     string `json:"short_label"`
	LongLabel      string `json:"long_label"`
	URL            string `json:"url"`
	DescriptionURL string `json:"description_url"`
	Email          string `json:"email"`
}

type Assembly struct {
	Accession   string `json:"accession"`
	Name        string `json:"name"`
	LongName    string `json:"long_name"`
	UcscSynonym string `json:"ucsc_synonym"`
}

type Species struct {
	TaxonID        int    `json:"taxon_id"`
	ScientificName string `json:"scientific_name"`
	CommonName     string `json:"common_name"`
}

// BuildDocument projects a trackdb loaded with its hub, owner, data type,
// assembly and species. tracks are the trackdb tracks with their file type.
func BuildDocument(trackdb *model.Trackdb, tracks []model.Track) (*Document, error) {
	data, err := trackdb.GetData()
	if err != nil {
		return nil, errors.Wrapf(err, "decode data of trackdb %d", trackdb.ID)
	}
	dataType := ""
	if trackdb.Hub.DataType != nil {
		dataType = trackdb.Hub.DataType.Name
	}

	doc := &Document{
		TrackdbID:    trackdb.ID,
		Public:       trackdb.Public,
		Description:  trackdb.Description,
		Version:      trackdb.Version,
		Created:      trackdb.Created,
		Updated:      trackdb.Updated,
		Owner:        trackdb.Hub.Owner.Name,
		Type:         dataType,
		FileType:     FileTypeCounts(tracks),
		Data:         data,
		BrowserLinks: BrowserLinks(&trackdb.Hub, &trackdb.Assembly, &trackdb.Species, dataType),
		Source: Source{
			URL:      trackdb.SourceURL,
			Checksum: trackdb.SourceChecksum,
		},
		Hub: Hub{
			Name:           trackdb.Hub.Name,
			ShortLabel:     trackdb.Hub.ShortLabel,
			LongLabel:      trackdb.Hub.LongLabel,
			URL:            trackdb.Hub.URL,
			DescriptionURL: trackdb.Hub.DescriptionURL,
			Email:          trackdb.Hub.Email,
		},
		Assembly: Assembly{
			Accession:   trackdb.Assembly.Accession,
			Name:        trackdb.Assembly.Name,
			LongName:    trackdb.Assembly.LongName,
			UcscSynonym: trackdb.Assembly.UcscSynonym,
		},
		Species: Species{
			TaxonID:        trackdb.Species.TaxonID,
			ScientificName: trackdb.Species.ScientificName,
			CommonName:     trackdb.Species.CommonName,
		},
		Configuration: rawOrEmpty(trackdb.Configuration, "{}"),
		Status:        rawOrEmpty(trackdb.Status, "null"),
	}
	return doc, nil
}

// FileTypeCounts counts tracks per file type name, tracks without a known
// file type are left out.
func FileTypeCounts(tracks []model.Track) map[string]int {
	counts := map[string]int{}
	for _, t := range tracks {
		if t.FileType != nil {
			counts[t.FileType.Name]++
		}
	}
	return counts
}

// BrowserLinks returns the genome browser links that apply to the hub on
// this assembly.
func BrowserLinks(hub *model.Hub, assembly *model.Assembly, species *model.Species, dataType string) map[string]string {
	links := map[string]string{}
	speciesPath := strings.ReplaceAll(strings.TrimSpace(species.ScientificName), " ", "_")

	if assembly.UcscSynonym != "" {
		links["ucsc"] = fmt.Sprintf(
			"http://genome.ucsc.edu/cgi-bin/hgHubConnect?db=%s&hubUrl=%s&hgHub_do_redirect=on&hgHubConnect.remakeTrackHub=on",
			assembly.UcscSynonym, hub.URL)
		links["biodalliance"] = fmt.Sprintf("/biodalliance/view?assembly=%s&name=%s&url=%s",
			assembly.UcscSynonym, hub.ShortLabel, hub.URL)
	}
	if speciesPath != "" {
		host := "ensembl.org"
		if assembly.Name == "GRCh37" {
			host = "grch37.ensembl.org"
		}
		links["ensembl"] = fmt.Sprintf("http://%s/TrackHub?url=%s;species=%s;name=%s;registry=1",
			host, hub.URL, speciesPath, hub.Name)
		if dataType == model.DataTypeGenomics.String() {
			links["vectorbase"] = fmt.Sprintf("https://vectorbase.org/vectorbase/app/jbrowse?data=%s&species=%s",
				hub.URL, speciesPath)
		}
	}
	return links
}

func rawOrEmpty(b []byte, empty string) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage(empty)
	}
	return json.RawMessage(b)
}
