package model

import (
	"time"
)

/*

Hub is a track collection submitted by a data provider, described by a remote
hub.txt file.

ID: primary key
CreatedAt: time when the hub is first submitted
UpdatedAt: time of the last re-submission

Name: value of the "hub" key
ShortLabel / LongLabel: display labels from hub.txt
URL: location of hub.txt, unique together with OwnerID
DescriptionURL: optional "descriptionUrl" key
Email: contact email of the provider
DataTypeID / DataType: declared data type, "belongs-to" relation
OwnerID / Owner: user who submitted the hub, "belongs-to" relation
Trackdbs: one per genome declared in genomes.txt, "has-many" relation
*/

type Hub struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Name           string
	ShortLabel     string
	LongLabel      string
	URL            string `gorm:"uniqueIndex:idx_hub_url_owner;not null"`
	DescriptionURL string
	Email          string
	DataTypeID     *uint
	DataType       *DataType
	OwnerID        string `gorm:"uniqueIndex:idx_hub_url_owner;not null"`
	Owner          User
	Trackdbs       []Trackdb
}
