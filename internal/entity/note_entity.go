package entity

import (
	"time"

	"github.com/google/uuid"
)

// Note is one threaded comment on a candidate file. The creation instant
// doubles as the note's identity within its file, so it must be unique
// per (client, position, filename).
type Note struct {
	Id           uuid.UUID
	ClientName   string
	PositionName string
	Filename     string
	Text         string
	AuthorEmail  string
	AuthorName   string
	CreatedAt    time.Time
}

// CanDelete reports whether p may remove this note: global admins and the
// note's own author only.
func (n Note) CanDelete(p Principal) bool {
	return p.IsAdmin() || n.AuthorEmail == p.Email
}
