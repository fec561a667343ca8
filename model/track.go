package model

import (
	"encoding/json"

	"gorm.io/datatypes"
)

/*

Track is one entry of a trackDb.txt file: a leaf track with a data file, or a
composite/super-track container.

TrackdbID: owning trackdb
Name: first token of the "track" value, modifiers such as "off" are dropped
BigDataURL: absolute data file url, empty for containers
(TrackdbID, Name, BigDataURL) identifies a track across re-submissions.

ShortLabel / LongLabel / HTML: descriptor keys of the same name
AdditionalProperties: every other key of the stanza, as JSON
ParentID / Parent: enclosing track, nil for top level tracks
FileTypeID / FileType: first token of "type", nil when unknown
VisibilityID / Visibility: "visibility" key, defaults to hide
*/

type Track struct {
	ID                   uint   `gorm:"primaryKey"`
	TrackdbID            uint   `gorm:"uniqueIndex:idx_track_identity;not null"`
	Name                 string `gorm:"uniqueIndex:idx_track_identity;not null"`
	BigDataURL           string `gorm:"uniqueIndex:idx_track_identity"`
	ShortLabel           string
	LongLabel            string
	HTML                 string
	AdditionalProperties datatypes.JSON
	ParentID             *uint
	Parent               *Track
	FileTypeID           *uint
	FileType             *FileType
	VisibilityID         *uint
	Visibility           *Visibility
}

func (t *Track) HasData() bool {
	return t.BigDataURL != ""
}

func (t *Track) SetAdditionalProperties(props map[string]string) error {
	if props == nil {
		props = map[string]string{}
	}
	b, err := json.Marshal(props)
	if err != nil {
		return err
	}
	t.AdditionalProperties = datatypes.JSON(b)
	return nil
}
