package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Records RecordRepository
}

// NewRepositories picks the record source: the hosted store when db is set,
// otherwise the JSON dumps in recordsDir. Either way it sits behind the
// circuit breaker.
func NewRepositories(db *gorm.DB, recordsDir string, breaker BreakerSettings) *Repositories {
	var source RecordRepository
	if db != nil {
		source = NewRecordRepository(db)
	} else {
		source = NewDumpRepository(recordsDir)
	}
	return &Repositories{
		Records: NewBreakerRepository(source, breaker),
	}
}
