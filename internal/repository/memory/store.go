// Package memory is an in-process storage driver. It keeps each collection
// as a flat slice behind one mutex and copies values across the boundary,
// so callers can never mutate stored state without going through a method.
package memory

import (
	"sync"
	"time"

	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stanleylima25/ECC-Brasil/internal/repository"
)

type DB struct {
	mu sync.Mutex

	users         []models.User
	couples       []models.Couple
	events        []models.Event
	messages      []models.ChatMessage
	notifications []models.Notification
	regions       []models.Region
	songs         []models.Song
	photos        []models.Photo
}

func New() *DB {
	return &DB{}
}

// Store exposes db through the repository interfaces.
func (db *DB) Store() repository.Store {
	return repository.Store{
		Users:         &UserStore{db: db},
		Couples:       &CoupleStore{db: db},
		Events:        &EventStore{db: db},
		Messages:      &MessageStore{db: db},
		Notifications: &NotificationStore{db: db},
		Regions:       &RegionStore{db: db},
		Songs:         &SongStore{db: db},
		Photos:        &PhotoStore{db: db},
	}
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneTeam(t *models.CoordinatingTeam) *models.CoordinatingTeam {
	if t == nil {
		return nil
	}
	v := *t
	v.TermStart = cloneTime(t.TermStart)
	v.TermEnd = cloneTime(t.TermEnd)
	return &v
}

func cloneUser(u models.User) models.User {
	u.TermStart = cloneTime(u.TermStart)
	u.TermEnd = cloneTime(u.TermEnd)
	return u
}

func cloneCouple(c models.Couple) models.Couple {
	c.SectorTermStart = cloneTime(c.SectorTermStart)
	c.SectorTermEnd = cloneTime(c.SectorTermEnd)
	c.WeddingDate = cloneTime(c.WeddingDate)

	encounters := make([]models.EncounterRecord, len(c.Encounters))
	for i, e := range c.Encounters {
		e.CoordinatingTeam = cloneTeam(e.CoordinatingTeam)
		if e.Teams != nil {
			teams := *e.Teams
			e.Teams = &teams
		}
		encounters[i] = e
	}
	c.Encounters = encounters

	docs := make([]models.Document, len(c.Documents))
	copy(docs, c.Documents)
	c.Documents = docs
	return c
}

func cloneEvent(e models.Event) models.Event {
	e.CoordinatingTeam = cloneTeam(e.CoordinatingTeam)
	attendees := make([]models.EventAttendee, len(e.Attendees))
	copy(attendees, e.Attendees)
	e.Attendees = attendees
	return e
}

func cloneRegion(r models.Region) models.Region {
	r.TermStart = cloneTime(r.TermStart)
	r.TermEnd = cloneTime(r.TermEnd)
	leaders := make([]models.StageLeader, len(r.StageLeaders))
	for i, l := range r.StageLeaders {
		l.TermStart = cloneTime(l.TermStart)
		l.TermEnd = cloneTime(l.TermEnd)
		leaders[i] = l
	}
	r.StageLeaders = leaders
	return r
}

func clonePhoto(p models.Photo) models.Photo {
	if p.EventID != nil {
		id := *p.EventID
		p.EventID = &id
	}
	return p
}
