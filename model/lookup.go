package model

// DataType, FileType and Visibility are closed enumerations persisted as rows
// so tracks and hubs can reference them. Rows are seeded from the lists below.

type DataType struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
}

type FileType struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
}

type Visibility struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
}

type DataTypeName string

const (
	DataTypeGenomics        DataTypeName = "genomics"
	DataTypeProteomics      DataTypeName = "proteomics"
	DataTypeEpigenomics     DataTypeName = "epigenomics"
	DataTypeTranscriptomics DataTypeName = "transcriptomics"

	DefaultDataType   = DataTypeGenomics
	DefaultVisibility = "hide"
)

var AllDataTypeName = []DataTypeName{
	DataTypeGenomics,
	DataTypeProteomics,
	DataTypeEpigenomics,
	DataTypeTranscriptomics,
}

func (e DataTypeName) IsValid() bool {
	switch e {
	case DataTypeGenomics, DataTypeProteomics, DataTypeEpigenomics, DataTypeTranscriptomics:
		return true
	}
	return false
}

func (e DataTypeName) String() string {
	return string(e)
}

var AllFileTypeName = []string{
	"altGraphX", "bam", "bed", "bed5FloatScore", "bedGraph", "bedRnaElements",
	"bigBarChart", "bigBed", "bigInteract", "bigLolly", "bigPsl", "bigChain",
	"bigMaf", "bigWig", "broadPeak", "chain", "clonePos", "coloredExon",
	"ctgPos", "downloadsOnly", "encodeFiveC", "expRatio", "factorSource",
	"genePred", "gvf", "hic", "ld2", "narrowPeak", "netAlign",
	"peptideMapping", "psl", "rmsk", "snake", "vcfTabix", "wig", "wigMaf",
}

var AllVisibilityName = []string{"hide", "dense", "squish", "pack", "full"}

func AllDataTypeNameStrings() []string {
	names := make([]string, 0, len(AllDataTypeName))
	for _, n := range AllDataTypeName {
		names = append(names, n.String())
	}
	return names
}

// Lookups holds the ids of the seeded enumeration rows, keyed by name.
type Lookups struct {
	DataTypes    map[string]uint
	FileTypes    map[string]uint
	Visibilities map[string]uint
}

// FileTypeID returns nil for a name outside AllFileTypeName.
func (l *Lookups) FileTypeID(name string) *uint {
	if id, ok := l.FileTypes[name]; ok {
		return &id
	}
	return nil
}

// VisibilityID falls back to DefaultVisibility for an empty or unknown name.
func (l *Lookups) VisibilityID(name string) *uint {
	if id, ok := l.Visibilities[name]; ok {
		return &id
	}
	if id, ok := l.Visibilities[DefaultVisibility]; ok {
		return &id
	}
	return nil
}

func (l *Lookups) DataTypeID(name DataTypeName) *uint {
	if id, ok := l.DataTypes[name.String()]; ok {
		return &id
	}
	return nil
}
