package specification

import "gorm.io/gorm"

// ByClient scopes a query to one client. Every tenant-visible query
// carries this so records never leak across clients.
type ByClient struct {
	ClientName string
}

func (s ByClient) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("client_name = ?", s.ClientName)
}

// ByPosition scopes a query to one position within a client. It matches
// the tables referencing a position (files, notes); the positions table
// itself is addressed with ByClient plus ByName.
type ByPosition struct {
	ClientName   string
	PositionName string
}

func (s ByPosition) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("client_name = ? AND position_name = ?", s.ClientName, s.PositionName)
}

// ByFile pins a query to a single candidate file.
type ByFile struct {
	ClientName   string
	PositionName string
	Filename     string
}

func (s ByFile) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("client_name = ? AND position_name = ? AND filename = ?",
		s.ClientName, s.PositionName, s.Filename)
}

// ByName filters by the name column (clients, positions).
type ByName struct {
	Name string
}

func (s ByName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name = ?", s.Name)
}

// ByEmail filters by email (client users).
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

// NewestFirst orders by creation time, newest at the top. Note threads
// and notification history both read this way.
type NewestFirst struct{}

func (s NewestFirst) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}
