package model

/*

Assembly is a canonical genome assembly, created lazily the first time a
genomes.txt entry resolves to it.

Accession: versioned INSDC accession, e.g. "GCA_000001405.15"
Name: assembly name from the reference dump, unique
LongName: descriptive name, same as Name unless the dump says otherwise
UcscSynonym: short UCSC-style name, e.g. "hg38", may be empty
*/

type Assembly struct {
	ID          uint `gorm:"primaryKey"`
	Accession   string
	Name        string `gorm:"uniqueIndex;not null"`
	LongName    string
	UcscSynonym string
}

/*

Species is keyed by NCBI taxon id and created lazily from the reference dump.
*/

type Species struct {
	ID             uint `gorm:"primaryKey"`
	TaxonID        int  `gorm:"uniqueIndex;not null"`
	ScientificName string
	CommonName     string
}
