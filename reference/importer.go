package reference

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"strconv"
	"strings"
	"time"

	"github.com/Luismorlan/trackhubs/clients"
	"github.com/Luismorlan/trackhubs/model"
	"github.com/Luismorlan/trackhubs/reference/dump_store"
	Logger "github.com/Luismorlan/trackhubs/utils/log"
	"github.com/araddon/dateparse"
	"github.com/pkg/errors"
)

const EnaDumpName = "ena_assembly.json"

// DumpReplacer swaps the whole reference table in one go.
type DumpReplacer interface {
	ReplaceGenomeAssemblyDump(ctx context.Context, rows []model.GenomeAssemblyDump) error
}

// enaAssembly is one record of the ENA portal search api. Numbers come as
// strings from the api and as numbers from older dumps.
type enaAssembly struct {
	Accession      string      `json:"accession"`
	Version        flexibleInt `json:"version"`
	AssemblyName   string      `json:"assembly_name"`
	AssemblyTitle  string      `json:"assembly_title"`
	TaxID          flexibleInt `json:"tax_id"`
	ScientificName string      `json:"scientific_name"`
	LastUpdated    string      `json:"last_updated"`
}

type flexibleInt int

func (f *flexibleInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f = flexibleInt(v)
	return nil
}

// Importer fetches the assembly feed into a dump store and loads it into the
// reference table.
type Importer struct {
	client    *clients.HttpClient
	sourceURL string
	dumps     dump_store.DumpStore
	replacer  DumpReplacer
	reverse   map[string]string
}

func NewImporter(client *clients.HttpClient, sourceURL string, dumps dump_store.DumpStore, replacer DumpReplacer, ucscToInsdc map[string]string) *Importer {
	if ucscToInsdc == nil {
		ucscToInsdc = DefaultUcscToInsdc
	}
	client.SetHeader("Accept", "application/json")
	return &Importer{
		client:    client,
		sourceURL: sourceURL,
		dumps:     dumps,
		replacer:  replacer,
		reverse:   ReverseUcscToInsdc(ucscToInsdc),
	}
}

// Fetch downloads the feed and saves it. It returns the number of records.
func (i *Importer) Fetch(ctx context.Context) (int, error) {
	start := time.Now()
	Logger.Log.Infof("fetching assemblies from %s, it may take a few minutes", i.sourceURL)
	res, err := i.client.Get(ctx, i.sourceURL)
	if err != nil {
		return 0, errors.Wrap(err, "fetch assembly feed")
	}
	defer res.Body.Close()
	body, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return 0, errors.Wrap(err, "read assembly feed")
	}

	records := []json.RawMessage{}
	if err := json.Unmarshal(bytes.TrimPrefix(body, []byte("\xef\xbb\xbf")), &records); err != nil {
		return 0, errors.Wrap(err, "assembly feed is not a json array")
	}
	if err := i.dumps.Save(ctx, EnaDumpName, body); err != nil {
		return 0, err
	}
	Logger.Log.Infof("%d assemblies fetched in %s", len(records), time.Since(start).Round(time.Millisecond))
	return len(records), nil
}

// Load replaces the reference table with the saved feed and returns the
// number of rows.
func (i *Importer) Load(ctx context.Context) (int, error) {
	data, err := i.dumps.Load(ctx, EnaDumpName)
	if err != nil {
		return 0, errors.Wrapf(err, "load %s, fetch it first", EnaDumpName)
	}
	rows, err := i.decode(data)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, errors.Errorf("%s holds no assembly, keeping the current table", EnaDumpName)
	}
	if err := i.replacer.ReplaceGenomeAssemblyDump(ctx, rows); err != nil {
		return 0, errors.Wrap(err, "replace genome assembly dump")
	}
	return len(rows), nil
}

func (i *Importer) decode(data []byte) ([]model.GenomeAssemblyDump, error) {
	records := []enaAssembly{}
	if err := json.Unmarshal(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")), &records); err != nil {
		return nil, errors.Wrapf(err, "decode %s", EnaDumpName)
	}
	rows := make([]model.GenomeAssemblyDump, 0, len(records))
	for _, r := range records {
		withVersion := AccessionWithVersion(r.Accession, int(r.Version))
		row := model.GenomeAssemblyDump{
			Accession:            r.Accession,
			Version:              int(r.Version),
			AccessionWithVersion: withVersion,
			AssemblyName:         r.AssemblyName,
			AssemblyTitle:        r.AssemblyTitle,
			TaxID:                int(r.TaxID),
			ScientificName:       r.ScientificName,
			UcscSynonym:          i.reverse[withVersion],
		}
		if r.LastUpdated != "" {
			if t, err := dateparse.ParseAny(r.LastUpdated); err == nil {
				row.LastUpdated = &t
			} else {
				Logger.Log.Warnf("cannot parse last_updated %q of %s", r.LastUpdated, r.Accession)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// AccessionWithVersion returns accession when it already ends with a version
// suffix, accession.version otherwise.
func AccessionWithVersion(accession string, version int) string {
	if strings.Contains(accession, ".") || version == 0 {
		return accession
	}
	return accession + "." + strconv.Itoa(version)
}
