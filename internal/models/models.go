package models

import (
	"time"

	"github.com/google/uuid"
)

// Stage is the encounter stage a record, song, event or photo belongs to.
type Stage string

const (
	StageFirst   Stage = "STAGE_1"
	StageSecond  Stage = "STAGE_2"
	StageThird   Stage = "STAGE_3"
	StageGeneral Stage = "GENERAL"
)

// Valid reports whether s is one of the three encounter stages.
// GENERAL is only accepted where ValidOrGeneral is used.
func (s Stage) Valid() bool {
	switch s {
	case StageFirst, StageSecond, StageThird:
		return true
	}
	return false
}

func (s Stage) ValidOrGeneral() bool {
	return s == StageGeneral || s.Valid()
}

// Stages lists the encounter stages in order.
var Stages = []Stage{StageFirst, StageSecond, StageThird}

// RegistrationStatus is the approval state of a couple registration.
type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "PENDING"
	RegistrationApproved RegistrationStatus = "APPROVED"
	RegistrationRejected RegistrationStatus = "REJECTED"
)

func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationPending, RegistrationApproved, RegistrationRejected:
		return true
	}
	return false
}

// AttendeeStatus is the homologation state of an event attendance request.
type AttendeeStatus string

const (
	AttendeePending  AttendeeStatus = "PENDING"
	AttendeeApproved AttendeeStatus = "APPROVED"
	AttendeeRejected AttendeeStatus = "REJECTED"
)

func (s AttendeeStatus) Valid() bool {
	switch s {
	case AttendeePending, AttendeeApproved, AttendeeRejected:
		return true
	}
	return false
}

type EventType string

const (
	EventEncounter    EventType = "ENCOUNTER"
	EventMeeting      EventType = "MEETING"
	EventLecture      EventType = "LECTURE"
	EventSpirituality EventType = "SPIRITUALITY"
)

func (t EventType) Valid() bool {
	switch t {
	case EventEncounter, EventMeeting, EventLecture, EventSpirituality:
		return true
	}
	return false
}

type EventStatus string

const (
	EventPlanned   EventStatus = "PLANNED"
	EventHeld      EventStatus = "HELD"
	EventCancelled EventStatus = "CANCELLED"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventPlanned, EventHeld, EventCancelled:
		return true
	}
	return false
}

// Room partitions the chat. Couples only ever see SUPPORT.
type Room string

const (
	RoomAdmin   Room = "ADMIN"
	RoomSupport Room = "SUPPORT"
)

func (r Room) Valid() bool {
	return r == RoomAdmin || r == RoomSupport
}

type NotificationType string

const (
	NotificationSuccess NotificationType = "SUCCESS"
	NotificationInfo    NotificationType = "INFO"
	NotificationWarning NotificationType = "WARNING"
)

// User is an account holder: a leadership member, a couple, or an admin.
//
// PasswordHash never leaves the process; the json tag keeps it out of every
// response body.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Role         Role       `json:"role"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Parish       string     `json:"parish"`
	Region       string     `json:"region"`
	TermStart    *time.Time `json:"term_start,omitempty"`
	TermEnd      *time.Time `json:"term_end,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Person is one spouse inside a couple registration.
type Person struct {
	Name       string `json:"name"`
	PhotoURL   string `json:"photo_url,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	Occupation string `json:"occupation,omitempty"`
}

type Document struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	URL         string    `json:"url"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// CoordinatingTeam is the five-couple parish team that runs an encounter.
type CoordinatingTeam struct {
	SetupCouple            string     `json:"setup_couple"`
	RecordsCouple          string     `json:"records_couple"`
	FinanceCouple          string     `json:"finance_couple"`
	SpeakerReceptionCouple string     `json:"speaker_reception_couple"`
	PostEncounterCouple    string     `json:"post_encounter_couple"`
	TermStart              *time.Time `json:"term_start,omitempty"`
	TermEnd                *time.Time `json:"term_end,omitempty"`
}

// WorkTeams holds the couple assigned to each work team of an encounter.
type WorkTeams struct {
	Hall               string `json:"hall,omitempty"`
	Coffee             string `json:"coffee,omitempty"`
	Kitchen            string `json:"kitchen,omitempty"`
	OrderCleaning      string `json:"order_cleaning,omitempty"`
	Visitation         string `json:"visitation,omitempty"`
	StudyCircle        string `json:"study_circle,omitempty"`
	Purchasing         string `json:"purchasing,omitempty"`
	GeneralCoordinator string `json:"general_coordinator,omitempty"`
	Secretariat        string `json:"secretariat,omitempty"`
	Liturgy            string `json:"liturgy,omitempty"`
	SoundProjection    string `json:"sound_projection,omitempty"`
	SpeakerReception   string `json:"speaker_reception,omitempty"`
}

// EncounterRecord is one entry in a couple's service history.
type EncounterRecord struct {
	ID               uuid.UUID         `json:"id"`
	Stage            Stage             `json:"stage"`
	Number           int               `json:"number"`
	Date             time.Time         `json:"date"`
	Theme            string            `json:"theme,omitempty"`
	Motto            string            `json:"motto,omitempty"`
	QuadranteURL     string            `json:"quadrante_url,omitempty"`
	CoordinatingTeam *CoordinatingTeam `json:"coordinating_team,omitempty"`
	Teams            *WorkTeams        `json:"teams,omitempty"`
	SpecificRole     string            `json:"specific_role,omitempty"`
}

// Couple is a registration record. It is never physically deleted; only its
// status moves.
type Couple struct {
	ID              uuid.UUID          `json:"id"`
	Husband         Person             `json:"husband"`
	Wife            Person             `json:"wife"`
	Address         string             `json:"address"`
	Phone           string             `json:"phone"`
	Email           string             `json:"email"`
	Parish          string             `json:"parish"`
	Region          string             `json:"region"`
	SectorName      string             `json:"sector_name"`
	SectorCouple    string             `json:"sector_couple"`
	SectorTermStart *time.Time         `json:"sector_term_start,omitempty"`
	SectorTermEnd   *time.Time         `json:"sector_term_end,omitempty"`
	City            string             `json:"city"`
	State           string             `json:"state"`
	Engaged         bool               `json:"engaged"`
	PastoralGroup   string             `json:"pastoral_group"`
	WeddingDate     *time.Time         `json:"wedding_date,omitempty"`
	Encounters      []EncounterRecord  `json:"encounters"`
	Documents       []Document         `json:"documents"`
	Status          RegistrationStatus `json:"status"`
	CreatedAt       time.Time          `json:"created_at"`
}

type EventAttendee struct {
	UserID           uuid.UUID      `json:"user_id"`
	Status           AttendeeStatus `json:"status"`
	RegistrationDate time.Time      `json:"registration_date"`
}

type Event struct {
	ID               uuid.UUID         `json:"id"`
	Title            string            `json:"title"`
	Type             EventType         `json:"type"`
	Stage            Stage             `json:"stage"`
	StartDate        time.Time         `json:"start_date"`
	EndDate          time.Time         `json:"end_date"`
	Location         string            `json:"location"`
	Theme            string            `json:"theme,omitempty"`
	Motto            string            `json:"motto,omitempty"`
	Description      string            `json:"description,omitempty"`
	CoordinatingTeam *CoordinatingTeam `json:"coordinating_team,omitempty"`
	Status           EventStatus       `json:"status"`
	ImageURL         string            `json:"image_url,omitempty"`
	Attendees        []EventAttendee   `json:"attendees"`
}

// Attendee returns the attendance record for userID, if any.
func (e *Event) Attendee(userID uuid.UUID) (EventAttendee, bool) {
	for _, a := range e.Attendees {
		if a.UserID == userID {
			return a, true
		}
	}
	return EventAttendee{}, false
}

// ChatMessage carries a snapshot of the sender taken at send time, so later
// profile edits never rewrite history.
type ChatMessage struct {
	ID           uuid.UUID `json:"id"`
	SenderID     uuid.UUID `json:"sender_id"`
	SenderName   string    `json:"sender_name"`
	SenderRole   Role      `json:"sender_role"`
	SenderParish string    `json:"sender_parish"`
	SenderRegion string    `json:"sender_region"`
	Content      string    `json:"content"`
	Timestamp    time.Time `json:"timestamp"`
	Room         Room      `json:"room"`
}

type StageLeader struct {
	Stage       Stage      `json:"stage"`
	CoupleNames string     `json:"couple_names"`
	TeamName    string     `json:"team_name"`
	TermStart   *time.Time `json:"term_start,omitempty"`
	TermEnd     *time.Time `json:"term_end,omitempty"`
}

// Region is an apostolic region directory entry.
type Region struct {
	ID                 uuid.UUID     `json:"id"`
	Name               string        `json:"name"`
	State              string        `json:"state"`
	SpiritualDirector  string        `json:"spiritual_director"`
	RegionalDirector   string        `json:"regional_director"`
	NationalDirector   string        `json:"national_director"`
	ArchdiocesanCouple string        `json:"archdiocesan_couple"`
	StageLeaders       []StageLeader `json:"stage_leaders"`
	TermStart          *time.Time    `json:"term_start,omitempty"`
	TermEnd            *time.Time    `json:"term_end,omitempty"`
}

type Song struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Author   string    `json:"author"`
	Stage    Stage     `json:"stage"`
	Lyrics   string    `json:"lyrics"`
	Category string    `json:"category"`
	VideoURL string    `json:"video_url,omitempty"`
}

type Notification struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

// Photo is a gallery entry. BlobKey locates the stored image so it can be
// removed along with the record.
type Photo struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	URL         string     `json:"url"`
	BlobKey     string     `json:"-"`
	EventID     *uuid.UUID `json:"event_id,omitempty"`
	Stage       Stage      `json:"stage"`
	UploadedBy  string     `json:"uploaded_by"`
	CreatedAt   time.Time  `json:"created_at"`
}
