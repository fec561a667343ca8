package reference

import (
	"context"
	"testing"

	"github.com/Luismorlan/trackhubs/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryDumpLookup matches rows the way the store does, by exact column value.
type memoryDumpLookup struct {
	rows    []model.GenomeAssemblyDump
	queries []string
}

func (l *memoryDumpLookup) FindGenomeAssemblyDump(_ context.Context, column, value string) (*model.GenomeAssemblyDump, error) {
	l.queries = append(l.queries, column+"="+value)
	for i := range l.rows {
		row := &l.rows[i]
		var v string
		switch column {
		case model.DumpColumnAssemblyName:
			v = row.AssemblyName
		case model.DumpColumnUcscSynonym:
			v = row.UcscSynonym
		case model.DumpColumnAccessionWithVersion:
			v = row.AccessionWithVersion
		default:
			return nil, errors.Errorf("unknown column %s", column)
		}
		if v == value {
			return row, nil
		}
	}
	return nil, nil
}

var dumpRows = []model.GenomeAssemblyDump{
	{AssemblyName: "GRCh38", AccessionWithVersion: "GCA_000001405.15", UcscSynonym: "hg38", TaxID: 9606, ScientificName: "Homo sapiens"},
	{AssemblyName: "GRCh37", AccessionWithVersion: "GCA_000001405.1", TaxID: 9606, ScientificName: "Homo sapiens"},
	// "ambiguous" is both an assembly name and the synonym of another row.
	{AssemblyName: "ambiguous", AccessionWithVersion: "GCA_900000001.1", TaxID: 1, ScientificName: "By name"},
	{AssemblyName: "other", AccessionWithVersion: "GCA_900000002.1", UcscSynonym: "ambiguous", TaxID: 2, ScientificName: "By synonym"},
	{AssemblyName: "Amel_4.5", AccessionWithVersion: "GCA_000002195.1", TaxID: 7460, ScientificName: "Apis mellifera"},
}

func TestResolvePrecedence(t *testing.T) {
	resolver := NewResolver(&memoryDumpLookup{rows: dumpRows}, nil)
	ctx := context.Background()

	testCases := []struct {
		token    string
		expected string
	}{
		{"GRCh38", "GCA_000001405.15"},
		{"hg38", "GCA_000001405.15"},
		{"GCA_000001405.1", "GCA_000001405.1"},
		// Only reachable through the UCSC to INSDC table.
		{"hg19", "GCA_000001405.1"},
		{"amel5", "GCA_000002195.1"},
		// Name match beats synonym match.
		{"ambiguous", "GCA_900000001.1"},
	}
	for _, tc := range testCases {
		dump, err := resolver.Resolve(ctx, tc.token)
		require.Nil(t, err, tc.token)
		assert.Equal(t, tc.expected, dump.AccessionWithVersion, tc.token)
	}
}

func TestResolveStopsAtFirstMatch(t *testing.T) {
	lookup := &memoryDumpLookup{rows: dumpRows}
	_, err := NewResolver(lookup, nil).Resolve(context.Background(), "GRCh38")
	require.Nil(t, err)
	assert.Equal(t, []string{"assembly_name=GRCh38"}, lookup.queries)
}

func TestResolveNotFound(t *testing.T) {
	resolver := NewResolver(&memoryDumpLookup{rows: dumpRows}, map[string]string{"xyz1": "GCA_999999999.1"})
	for _, token := range []string{"nonexistent", "xyz1", ""} {
		_, err := resolver.Resolve(context.Background(), token)
		require.NotNil(t, err)
		assert.True(t, errors.Is(err, ErrAssemblyNotFound))
		assert.Equal(t, "Assembly '"+token+"' doesn't exist", err.Error())
	}
}

func TestAssemblyAndSpeciesFromDump(t *testing.T) {
	resolver := NewResolver(&memoryDumpLookup{}, nil)
	dump := &model.GenomeAssemblyDump{AssemblyName: "GRCh37", AssemblyTitle: "Genome Reference Consortium Human Build 37", AccessionWithVersion: "GCA_000001405.1", TaxID: 9606, ScientificName: "Homo sapiens"}

	assembly := resolver.AssemblyFromDump(dump, "hg19")
	assert.Equal(t, model.Assembly{
		Accession:   "GCA_000001405.1",
		Name:        "GRCh37",
		LongName:    "Genome Reference Consortium Human Build 37",
		UcscSynonym: "hg19",
	}, assembly)

	// A token that isn't a UCSC name is not a synonym.
	assert.Equal(t, "", resolver.AssemblyFromDump(dump, "GRCh37").UcscSynonym)

	assert.Equal(t, model.Species{TaxonID: 9606, ScientificName: "Homo sapiens"}, SpeciesFromDump(dump))
}
