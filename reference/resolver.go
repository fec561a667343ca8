package reference

import (
	"context"
	"fmt"

	"github.com/Luismorlan/trackhubs/model"
	"github.com/pkg/errors"
)

var ErrAssemblyNotFound = errors.New("assembly not found")

// AssemblyNotFoundError names the genome token that matched nothing.
type AssemblyNotFoundError struct {
	Token string
}

func (e *AssemblyNotFoundError) Error() string {
	return fmt.Sprintf("Assembly '%s' doesn't exist", e.Token)
}

func (e *AssemblyNotFoundError) Is(target error) bool {
	return target == ErrAssemblyNotFound
}

// DumpLookup finds one reference dump row by exact match on column. A miss
// is (nil, nil).
type DumpLookup interface {
	FindGenomeAssemblyDump(ctx context.Context, column, value string) (*model.GenomeAssemblyDump, error)
}

// Resolver maps the genome tokens written in genomes.txt to reference dump
// rows.
type Resolver struct {
	lookup      DumpLookup
	ucscToInsdc map[string]string
}

// NewResolver uses DefaultUcscToInsdc when ucscToInsdc is nil.
func NewResolver(lookup DumpLookup, ucscToInsdc map[string]string) *Resolver {
	if ucscToInsdc == nil {
		ucscToInsdc = DefaultUcscToInsdc
	}
	return &Resolver{lookup: lookup, ucscToInsdc: ucscToInsdc}
}

// Resolve tries, in order, the assembly name, the UCSC synonym, the versioned
// accession, then the UCSC to INSDC table followed by a versioned accession
// match. The first hit wins.
func (r *Resolver) Resolve(ctx context.Context, token string) (*model.GenomeAssemblyDump, error) {
	if token == "" {
		return nil, &AssemblyNotFoundError{Token: token}
	}
	for _, column := range []string{
		model.DumpColumnAssemblyName,
		model.DumpColumnUcscSynonym,
		model.DumpColumnAccessionWithVersion,
	} {
		dump, err := r.lookup.FindGenomeAssemblyDump(ctx, column, token)
		if err != nil {
			return nil, errors.Wrapf(err, "lookup %s by %s", token, column)
		}
		if dump != nil {
			return dump, nil
		}
	}

	accession, ok := r.ucscToInsdc[token]
	if !ok {
		return nil, &AssemblyNotFoundError{Token: token}
	}
	dump, err := r.lookup.FindGenomeAssemblyDump(ctx, model.DumpColumnAccessionWithVersion, accession)
	if err != nil {
		return nil, errors.Wrapf(err, "lookup %s by %s", accession, model.DumpColumnAccessionWithVersion)
	}
	if dump == nil {
		return nil, &AssemblyNotFoundError{Token: token}
	}
	return dump, nil
}

// IsUcscName reports whether token is a known UCSC short name.
func (r *Resolver) IsUcscName(token string) bool {
	_, ok := r.ucscToInsdc[token]
	return ok
}

// SpeciesFromDump is the canonical species of a dump row.
func SpeciesFromDump(dump *model.GenomeAssemblyDump) model.Species {
	return model.Species{
		TaxonID:        dump.TaxID,
		ScientificName: dump.ScientificName,
	}
}

// AssemblyFromDump is the canonical assembly of a dump row. token is the name
// the hub used, kept as UCSC synonym when it is one and the dump has none.
func (r *Resolver) AssemblyFromDump(dump *model.GenomeAssemblyDump, token string) model.Assembly {
	synonym := dump.UcscSynonym
	if synonym == "" && r.IsUcscName(token) {
		synonym = token
	}
	longName := dump.AssemblyTitle
	if longName == "" {
		longName = dump.AssemblyName
	}
	return model.Assembly{
		Accession:   dump.AccessionWithVersion,
		Name:        dump.AssemblyName,
		LongName:    longName,
		UcscSynonym: synonym,
	}
}
