package reference

// DefaultUcscToInsdc maps UCSC short assembly names to the versioned INSDC
// accession they stand for. It is the last resort of the resolver, used when
// the reference dump knows the assembly only by accession.
var DefaultUcscToInsdc = map[string]string{
	"hg19":     "GCA_000001405.1",
	"hg38":     "GCA_000001405.15",
	"mm9":      "GCA_000001635.1",
	"mm10":     "GCA_000001635.2",
	"mm39":     "GCA_000001635.9",
	"rn6":      "GCA_000001895.4",
	"rn7":      "GCA_015227675.2",
	"danRer10": "GCA_000002035.3",
	"danRer11": "GCA_000002035.4",
	"galGal6":  "GCA_000002315.5",
	"dm3":      "GCA_000001215.2",
	"dm6":      "GCA_000001215.4",
	"ce11":     "GCA_000002985.3",
	"sacCer3":  "GCA_000146045.2",
	"susScr11": "GCA_000003025.6",
	"bosTau9":  "GCA_002263795.2",
	"canFam3":  "GCA_000002285.2",
	"panTro5":  "GCA_000001515.5",
	"rheMac10": "GCA_003339765.3",
	"xenTro9":  "GCA_000004195.3",
	"equCab2":  "GCA_000002305.1",
	"oviAri3":  "GCA_000298735.1",
	"amel5":    "GCA_000002195.1",
}

// ReverseUcscToInsdc inverts a UCSC to INSDC table.
func ReverseUcscToInsdc(table map[string]string) map[string]string {
	reversed := make(map[string]string, len(table))
	for ucsc, accession := range table {
		reversed[accession] = ucsc
	}
	return reversed
}
