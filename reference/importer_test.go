package reference

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Luismorlan/trackhubs/clients"
	"github.com/Luismorlan/trackhubs/model"
	"github.com/Luismorlan/trackhubs/reference/dump_store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const enaSample = `[
{"accession":"GCA_000001215","version":"4","assembly_name":"Release 6 plus ISO1 MT","assembly_title":"Drosophila melanogaster","tax_id":"7227","scientific_name":"Drosophila melanogaster","last_updated":"2014-08-01"},
{"accession":"GCA_000001405.15","version":15,"assembly_name":"GRCh38","assembly_title":"Genome Reference Consortium Human Build 38","tax_id":9606,"scientific_name":"Homo sapiens","last_updated":"not a date"}
]`

type recordingReplacer struct {
	rows  []model.GenomeAssemblyDump
	calls int
}

func (r *recordingReplacer) ReplaceGenomeAssemblyDump(_ context.Context, rows []model.GenomeAssemblyDump) error {
	r.rows = rows
	r.calls++
	return nil
}

func newTestImporter(url string, dumps dump_store.DumpStore, replacer DumpReplacer) *Importer {
	client := clients.NewRetryableHttpClient(0, time.Millisecond, time.Millisecond, time.Second)
	return NewImporter(client, url, dumps, replacer, nil)
}

func TestFetchAndLoad(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(enaSample))
	}))
	defer ts.Close()

	dumps := dump_store.NewFakeDumpStore()
	replacer := &recordingReplacer{}
	importer := newTestImporter(ts.URL, dumps, replacer)

	n, err := importer.Fetch(context.Background())
	require.Nil(t, err)
	assert.Equal(t, 2, n)
	assert.Contains(t, dumps.Dumps, EnaDumpName)

	n, err = importer.Load(context.Background())
	require.Nil(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, replacer.rows, 2)

	fly := replacer.rows[0]
	assert.Equal(t, "GCA_000001215", fly.Accession)
	assert.Equal(t, "GCA_000001215.4", fly.AccessionWithVersion)
	assert.Equal(t, 7227, fly.TaxID)
	assert.Equal(t, "dm6", fly.UcscSynonym)
	require.NotNil(t, fly.LastUpdated)
	assert.Equal(t, 2014, fly.LastUpdated.Year())

	human := replacer.rows[1]
	assert.Equal(t, "GCA_000001405.15", human.AccessionWithVersion)
	assert.Equal(t, "hg38", human.UcscSynonym)
	assert.Nil(t, human.LastUpdated)
}

func TestFetchRejectsNonArray(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"maintenance"}`))
	}))
	defer ts.Close()

	dumps := dump_store.NewFakeDumpStore()
	_, err := newTestImporter(ts.URL, dumps, &recordingReplacer{}).Fetch(context.Background())
	assert.NotNil(t, err)
	assert.NotContains(t, dumps.Dumps, EnaDumpName)
}

func TestFetchNon2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := newTestImporter(ts.URL, dump_store.NewFakeDumpStore(), &recordingReplacer{}).Fetch(context.Background())
	assert.NotNil(t, err)
}

func TestLoadWithoutDump(t *testing.T) {
	replacer := &recordingReplacer{}
	_, err := newTestImporter("http://unused", dump_store.NewFakeDumpStore(), replacer).Load(context.Background())
	assert.ErrorIs(t, err, dump_store.ErrDumpNotFound)
	assert.Equal(t, 0, replacer.calls)
}

func TestLoadEmptyDumpKeepsTable(t *testing.T) {
	dumps := dump_store.NewFakeDumpStore()
	dumps.Save(context.Background(), EnaDumpName, []byte(`[]`))
	replacer := &recordingReplacer{}
	_, err := newTestImporter("http://unused", dumps, replacer).Load(context.Background())
	assert.NotNil(t, err)
	assert.Equal(t, 0, replacer.calls)
}

func TestAccessionWithVersion(t *testing.T) {
	assert.Equal(t, "GCA_000001405.15", AccessionWithVersion("GCA_000001405", 15))
	assert.Equal(t, "GCA_000001405.15", AccessionWithVersion("GCA_000001405.15", 15))
	assert.Equal(t, "GCA_000001405", AccessionWithVersion("GCA_000001405", 0))
}
