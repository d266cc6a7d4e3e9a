package db

import "gorm.io/gorm"

type Repositories struct {
	Users    *UserRepository
	Profiles *ProfileRepository
	Entries  *SymptomEntryRepository
	Sessions *SessionRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(database),
		Profiles: NewProfileRepository(database),
		Entries:  NewSymptomEntryRepository(database),
		Sessions: NewSessionRepository(database),
	}
}
