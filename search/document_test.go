package search

import (
	"encoding/json"
	"testing"

	"github.com/Luismorlan/trackhubs/model"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hubURL = "http://expdata.example.org/JASPAR/hub.txt"

func testTrackdb(t *testing.T) *model.Trackdb {
	genomics := &model.DataType{Name: "genomics"}
	trackdb := &model.Trackdb{
		ID:             7,
		Public:         true,
		Version:        model.DefaultTrackdbVersion,
		Created:        1600000000,
		Updated:        1600000100,
		SourceURL:      "http://expdata.example.org/JASPAR/hg19/trackDb.txt",
		SourceChecksum: "abc",
		Hub: model.Hub{
			Name:       "JASPAR_TFBS",
			ShortLabel: "JASPAR TFBS",
			LongLabel:  "TFBS predictions",
			URL:        hubURL,
			DataType:   genomics,
			Owner:      model.User{ID: "u1", Name: "Alice"},
		},
		Assembly: model.Assembly{Name: "GRCh37", Accession: "GCA_000001405.1", UcscSynonym: "hg19"},
		Species:  model.Species{TaxonID: 9606, ScientificName: "Homo sapiens"},
	}
	require.Nil(t, trackdb.SetData([]model.TrackSummary{{ID: "A", Name: "Track A"}}))
	require.Nil(t, trackdb.SetStatus(&model.TracksStatus{LastUpdate: 1, Message: model.StatusMessageOK}))
	tree := model.TrackConfigTree{"A": model.NewTrackConfig("A", map[string]string{"track": "A"})}
	require.Nil(t, trackdb.SetConfiguration(tree))
	return trackdb
}

func TestBuildDocument(t *testing.T) {
	bigBed := &model.FileType{Name: "bigBed"}
	tracks := []model.Track{{FileType: bigBed}, {FileType: bigBed}, {FileType: &model.FileType{Name: "bam"}}, {}}

	doc, err := BuildDocument(testTrackdb(t), tracks)
	require.Nil(t, err)

	assert.Equal(t, "Alice", doc.Owner)
	assert.Equal(t, "genomics", doc.Type)
	assert.Equal(t, map[string]int{"bigBed": 2, "bam": 1}, doc.FileType)
	assert.Equal(t, []model.TrackSummary{{ID: "A", Name: "Track A"}}, doc.Data)
	assert.Equal(t, Source{URL: "http://expdata.example.org/JASPAR/hg19/trackDb.txt", Checksum: "abc"}, doc.Source)
	assert.JSONEq(t, `{"A":{"track":"A"}}`, string(doc.Configuration))

	expectedLinks := map[string]string{
		"ucsc":         "http://genome.ucsc.edu/cgi-bin/hgHubConnect?db=hg19&hubUrl=" + hubURL + "&hgHub_do_redirect=on&hgHubConnect.remakeTrackHub=on",
		"biodalliance": "/biodalliance/view?assembly=hg19&name=JASPAR TFBS&url=" + hubURL,
		"ensembl":      "http://grch37.ensembl.org/TrackHub?url=" + hubURL + ";species=Homo_sapiens;name=JASPAR_TFBS;registry=1",
		"vectorbase":   "https://vectorbase.org/vectorbase/app/jbrowse?data=" + hubURL + "&species=Homo_sapiens",
	}
	if diff := cmp.Diff(expectedLinks, doc.BrowserLinks); diff != "" {
		t.Errorf("browser links mismatch (-want +got):\n%s", diff)
	}

	b, err := json.Marshal(doc)
	require.Nil(t, err)
	decoded := map[string]interface{}{}
	require.Nil(t, json.Unmarshal(b, &decoded))
	for _, key := range []string{"owner", "file_type", "data", "browser_links", "updated", "source", "type", "configuration", "status"} {
		assert.Contains(t, decoded, key)
	}
	assert.Equal(t, "All is Well", decoded["status"].(map[string]interface{})["message"])
}

func TestBrowserLinksOnlyWhenTheyApply(t *testing.T) {
	hub := &model.Hub{Name: "h", URL: hubURL}
	links := BrowserLinks(hub, &model.Assembly{Name: "GRCh38"}, &model.Species{ScientificName: "Homo sapiens"}, "proteomics")
	assert.Equal(t, map[string]string{
		"ensembl": "http://ensembl.org/TrackHub?url=" + hubURL + ";species=Homo_sapiens;name=h;registry=1",
	}, links)

	assert.Empty(t, BrowserLinks(hub, &model.Assembly{Name: "x"}, &model.Species{}, "genomics"))
}

func TestBuildDocumentWithoutStatus(t *testing.T) {
	trackdb := testTrackdb(t)
	trackdb.Status = nil
	trackdb.Configuration = nil
	doc, err := BuildDocument(trackdb, nil)
	require.Nil(t, err)
	assert.Equal(t, "null", string(doc.Status))
	assert.Equal(t, "{}", string(doc.Configuration))
	assert.Empty(t, doc.FileType)
}
