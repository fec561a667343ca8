package model

import (
	"encoding/json"

	"gorm.io/datatypes"
)

const DefaultTrackdbVersion = "v1.0"

/*

Trackdb is one assembly-specific instance of a hub, built from a trackDb.txt
file referenced by genomes.txt.

HubID / Hub: owning hub, "belongs-to" relation
AssemblyID / Assembly: resolved assembly
SpeciesID / Species: resolved species
Public: whether the trackdb is searchable
Version: schema version of the stored document
Created / Updated: unix epoch seconds, Created is only set on insert
SourceURL: location of trackDb.txt, unique
SourceChecksum: md5 of SourceURL
Configuration: TrackConfigTree as JSON
Status: TracksStatus as JSON
Data: []TrackSummary as JSON
Tracks: "has-many" relation
*/

type Trackdb struct {
	ID             uint `gorm:"primaryKey"`
	HubID          uint `gorm:"index;not null"`
	Hub            Hub
	AssemblyID     uint
	Assembly       Assembly
	SpeciesID      uint
	Species        Species
	Public         bool
	Description    string
	Version        string
	Created        int64
	Updated        int64
	SourceURL      string `gorm:"uniqueIndex;not null"`
	SourceChecksum string
	Configuration  datatypes.JSON
	Status         datatypes.JSON
	Data           datatypes.JSON
	Tracks         []Track
}

// TrackSummary is one entry of the denormalized data list.
type TrackSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (t *Trackdb) SetConfiguration(tree TrackConfigTree) error {
	b, err := json.Marshal(tree)
	if err != nil {
		return err
	}
	t.Configuration = datatypes.JSON(b)
	return nil
}

func (t *Trackdb) GetConfiguration() (TrackConfigTree, error) {
	tree := TrackConfigTree{}
	if len(t.Configuration) == 0 {
		return tree, nil
	}
	err := json.Unmarshal(t.Configuration, &tree)
	return tree, err
}

func (t *Trackdb) SetStatus(status *TracksStatus) error {
	b, err := json.Marshal(status)
	if err != nil {
		return err
	}
	t.Status = datatypes.JSON(b)
	return nil
}

// GetStatus returns nil without error when no status was computed yet.
func (t *Trackdb) GetStatus() (*TracksStatus, error) {
	if len(t.Status) == 0 {
		return nil, nil
	}
	status := &TracksStatus{}
	if err := json.Unmarshal(t.Status, status); err != nil {
		return nil, err
	}
	return status, nil
}

func (t *Trackdb) SetData(data []TrackSummary) error {
	if data == nil {
		data = []TrackSummary{}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	t.Data = datatypes.JSON(b)
	return nil
}

func (t *Trackdb) GetData() ([]TrackSummary, error) {
	data := []TrackSummary{}
	if len(t.Data) == 0 {
		return data, nil
	}
	err := json.Unmarshal(t.Data, &data)
	return data, err
}
