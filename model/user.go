package model

import (
	"time"
)

/*

User owns submitted hubs. Authentication happens upstream; the registry only
sees the user id forwarded in the "sub" header.

ID: primary key, the upstream user id
Name: display name, used as "owner" in search documents
*/

type User struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	Name      string
}
