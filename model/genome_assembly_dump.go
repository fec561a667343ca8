package model

import (
	"time"
)

/*

GenomeAssemblyDump is one row of the external assembly reference table. The
whole table is replaced on every import and never updated row by row.

Accession: accession as published by the feed, with or without version
Version: assembly version
AccessionWithVersion: "<accession>.<version>", lookup key
AssemblyName / AssemblyTitle: name and title from the feed
TaxID / ScientificName: species identity
UcscSynonym: UCSC short name, derived from the UCSC to INSDC table on import
LastUpdated: when the feed last touched the record, nil when unparseable
*/

type GenomeAssemblyDump struct {
	ID                   uint   `gorm:"primaryKey"`
	Accession            string `gorm:"index"`
	Version              int
	AccessionWithVersion string `gorm:"index"`
	AssemblyName         string `gorm:"index"`
	AssemblyTitle        string
	TaxID                int
	ScientificName       string
	UcscSynonym          string `gorm:"index"`
	LastUpdated          *time.Time
}

// Columns the reference resolver matches on.
const (
	DumpColumnAssemblyName         = "assembly_name"
	DumpColumnUcscSynonym          = "ucsc_synonym"
	DumpColumnAccessionWithVersion = "accession_with_version"
)
