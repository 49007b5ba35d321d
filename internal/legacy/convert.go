package legacy

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
)

// namespace seeds the UUIDv5 ids derived from legacy string ids. Changing
// it breaks re-imports of the same dump.
var namespace = uuid.MustParse("6b1f0c9e-2d4a-4f1e-9a57-3c8e0d2b7f10")

// ID derives the stable id of a legacy record. kind keeps equal legacy ids
// of different collections apart; users share the "user" kind wherever
// they are referenced.
func ID(kind, legacyID string) uuid.UUID {
	legacyID = strings.TrimSpace(legacyID)
	if legacyID == "" {
		return uuid.New()
	}
	return uuid.NewSHA1(namespace, []byte(kind+":"+legacyID))
}

func userID(legacyID string) uuid.UUID {
	return ID("user", legacyID)
}

var stageLabels = map[string]models.Stage{
	"1ª etapa": models.StageFirst,
	"2ª etapa": models.StageSecond,
	"3ª etapa": models.StageThird,
	"geral":    models.StageGeneral,
}

// Stage maps a legacy stage label ("1ª Etapa", "GERAL") or a current stage
// value.
func Stage(s string) (models.Stage, bool) {
	s = strings.TrimSpace(s)
	if st := models.Stage(strings.ToUpper(s)); st.ValidOrGeneral() {
		return st, true
	}
	st, ok := stageLabels[strings.ToLower(s)]
	return st, ok
}

var eventTypes = map[string]models.EventType{
	"ENCONTRO":        models.EventEncounter,
	"REUNIAO":         models.EventMeeting,
	"PALESTRA":        models.EventLecture,
	"ESPIRITUALIDADE": models.EventSpirituality,
}

var eventStatuses = map[string]models.EventStatus{
	"PLANEJADO": models.EventPlanned,
	"REALIZADO": models.EventHeld,
	"CANCELADO": models.EventCancelled,
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseTime accepts the ISO forms the old portal wrote: full timestamps
// from toISOString and bare dates or datetime-local values from forms.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func parseTimePtr(s string) (*time.Time, error) {
	t, err := parseTime(s)
	if err != nil || t.IsZero() {
		return nil, err
	}
	return &t, nil
}

func convertUser(in User) (*models.User, error) {
	role, ok := models.ParseRole(in.Role)
	if !ok {
		return nil, fmt.Errorf("unknown role %q", in.Role)
	}
	return &models.User{
		ID:     userID(in.ID),
		Name:   strings.TrimSpace(in.Name),
		Role:   role,
		Email:  strings.TrimSpace(in.Email),
		Parish: in.Parish,
		Region: in.Region,
	}, nil
}

func convertTeam(in *CoordinatingTeam) (*models.CoordinatingTeam, error) {
	if in == nil {
		return nil, nil
	}
	start, err := parseTimePtr(in.TermStart)
	if err != nil {
		return nil, err
	}
	end, err := parseTimePtr(in.TermEnd)
	if err != nil {
		return nil, err
	}
	return &models.CoordinatingTeam{
		SetupCouple:            in.CasalMontagem,
		RecordsCouple:          in.CasalFicha,
		FinanceCouple:          in.CasalFinanca,
		SpeakerReceptionCouple: in.CasalRecepcaoPalestra,
		PostEncounterCouple:    in.CasalPosEncontro,
		TermStart:              start,
		TermEnd:                end,
	}, nil
}

func convertTeams(in *Teams) *models.WorkTeams {
	if in == nil {
		return nil
	}
	return &models.WorkTeams{
		Hall:               in.Sala,
		Coffee:             in.Cafezinho,
		Kitchen:            in.Cozinha,
		OrderCleaning:      in.OrdemLimpeza,
		Visitation:         in.Visitacao,
		StudyCircle:        in.CirculoEstudo,
		Purchasing:         in.Compras,
		GeneralCoordinator: in.CoordenadorGeral,
		Secretariat:        in.Secretaria,
		Liturgy:            in.Liturgia,
		SoundProjection:    in.SomProjecao,
		SpeakerReception:   in.RecepcaoPalestrante,
	}
}

func convertPerson(in Person) models.Person {
	return models.Person{
		Name:       in.Name,
		PhotoURL:   in.PhotoBase64,
		Phone:      in.Phone,
		Email:      in.Email,
		Occupation: in.Occupation,
	}
}

func convertCouple(in Couple) (*models.Couple, error) {
	c := &models.Couple{
		ID:            ID("couple", in.ID),
		Husband:       convertPerson(in.Husband),
		Wife:          convertPerson(in.Wife),
		Address:       in.Address,
		Phone:         in.Phone,
		Email:         strings.TrimSpace(in.Email),
		Parish:        in.Parish,
		Region:        in.Region,
		SectorName:    in.SectorName,
		SectorCouple:  in.SectorCouple,
		City:          in.City,
		State:         in.State,
		Engaged:       in.IsEngaged,
		PastoralGroup: in.PastoralGroup,
		Status:        models.RegistrationStatus(strings.ToUpper(in.Status)),
		Encounters:    make([]models.EncounterRecord, 0, len(in.Encounters)),
		Documents:     make([]models.Document, 0, len(in.Documents)),
	}
	if !c.Status.Valid() {
		c.Status = models.RegistrationPending
	}

	var err error
	if c.SectorTermStart, err = parseTimePtr(in.SectorTermStart); err != nil {
		return nil, err
	}
	if c.SectorTermEnd, err = parseTimePtr(in.SectorTermEnd); err != nil {
		return nil, err
	}
	if c.WeddingDate, err = parseTimePtr(in.WeddingDate); err != nil {
		return nil, err
	}
	if c.CreatedAt, err = parseTime(in.CreatedAt); err != nil {
		return nil, err
	}

	for _, e := range in.Encounters {
		stage, ok := Stage(e.Stage)
		if !ok || stage == models.StageGeneral {
			return nil, fmt.Errorf("encounter %s: unknown stage %q", e.ID, e.Stage)
		}
		date, err := parseTime(e.Date)
		if err != nil {
			return nil, err
		}
		team, err := convertTeam(e.CoordinatingTeam)
		if err != nil {
			return nil, err
		}
		c.Encounters = append(c.Encounters, models.EncounterRecord{
			ID:               ID("encounter", in.ID+"/"+e.ID),
			Stage:            stage,
			Number:           e.Number,
			Date:             date,
			Theme:            e.Theme,
			Motto:            e.Motto,
			QuadranteURL:     e.QuadranteBase64,
			CoordinatingTeam: team,
			Teams:            convertTeams(e.Teams),
			SpecificRole:     e.SpecificRole,
		})
	}

	for _, d := range in.Documents {
		uploaded, err := parseTime(d.UploadDate)
		if err != nil {
			return nil, err
		}
		c.Documents = append(c.Documents, models.Document{
			ID:          ID("document", in.ID+"/"+d.ID),
			Name:        d.Name,
			ContentType: d.Type,
			URL:         d.Data,
			UploadedAt:  uploaded,
		})
	}
	return c, nil
}

// convertEvent returns the event without attendees and the attendances
// separately; they are written through the attendee operations.
func convertEvent(in Event) (*models.Event, []models.EventAttendee, error) {
	kind, ok := eventTypes[strings.ToUpper(in.Type)]
	if !ok {
		kind = models.EventType(strings.ToUpper(in.Type))
	}
	if !kind.Valid() {
		return nil, nil, fmt.Errorf("unknown event type %q", in.Type)
	}
	status, ok := eventStatuses[strings.ToUpper(in.Status)]
	if !ok {
		status = models.EventStatus(strings.ToUpper(in.Status))
	}
	if !status.Valid() {
		status = models.EventPlanned
	}
	stage, ok := Stage(in.Stage)
	if !ok {
		stage = models.StageGeneral
	}

	start, err := parseTime(in.StartDate)
	if err != nil {
		return nil, nil, err
	}
	end, err := parseTime(in.EndDate)
	if err != nil {
		return nil, nil, err
	}
	if end.IsZero() || end.Before(start) {
		end = start
	}
	team, err := convertTeam(in.CoordinatingTeam)
	if err != nil {
		return nil, nil, err
	}

	e := &models.Event{
		ID:               ID("event", in.ID),
		Title:            in.Title,
		Type:             kind,
		Stage:            stage,
		StartDate:        start,
		EndDate:          end,
		Location:         in.Location,
		Theme:            in.Theme,
		Motto:            in.Motto,
		Description:      in.Description,
		CoordinatingTeam: team,
		Status:           status,
		ImageURL:         in.QuadranteBase64,
	}

	attendees := make([]models.EventAttendee, 0, len(in.Attendees))
	for _, a := range in.Attendees {
		registered, err := parseTime(a.RegistrationDate)
		if err != nil {
			return nil, nil, err
		}
		st := models.AttendeeStatus(strings.ToUpper(a.Status))
		if !st.Valid() {
			st = models.AttendeePending
		}
		attendees = append(attendees, models.EventAttendee{
			UserID:           userID(a.UserID),
			Status:           st,
			RegistrationDate: registered,
		})
	}
	return e, attendees, nil
}

func convertMessage(in ChatMessage) (*models.ChatMessage, error) {
	room := models.Room(strings.ToUpper(in.Room))
	if !room.Valid() {
		room = models.RoomSupport
	}
	ts, err := parseTime(in.Timestamp)
	if err != nil {
		return nil, err
	}
	return &models.ChatMessage{
		ID:           ID("message", in.ID),
		SenderID:     userID(in.SenderID),
		SenderName:   in.SenderName,
		SenderRole:   models.Role(in.SenderRole),
		SenderParish: in.SenderParish,
		SenderRegion: in.SenderRegion,
		Content:      in.Content,
		Timestamp:    ts,
		Room:         room,
	}, nil
}

func convertNotification(in Notification) (*models.Notification, error) {
	created, err := parseTime(in.CreatedAt)
	if err != nil {
		return nil, err
	}
	kind := models.NotificationType(strings.ToUpper(in.Type))
	switch kind {
	case models.NotificationSuccess, models.NotificationInfo, models.NotificationWarning:
	default:
		kind = models.NotificationInfo
	}
	return &models.Notification{
		ID:        ID("notification", in.ID),
		UserID:    userID(in.UserID),
		Title:     in.Title,
		Message:   in.Message,
		Type:      kind,
		Read:      in.Read,
		CreatedAt: created,
	}, nil
}

func convertRegion(in Region) (*models.Region, error) {
	r := &models.Region{
		ID:                 ID("region", in.ID),
		Name:               in.Name,
		State:              in.State,
		SpiritualDirector:  in.SpiritualDirector,
		RegionalDirector:   in.RegionalDirector,
		NationalDirector:   in.NationalDirector,
		ArchdiocesanCouple: in.ArchdiocesanCouple,
		StageLeaders:       make([]models.StageLeader, 0, len(in.StageLeaders)),
	}
	var err error
	if r.TermStart, err = parseTimePtr(in.TermStart); err != nil {
		return nil, err
	}
	if r.TermEnd, err = parseTimePtr(in.TermEnd); err != nil {
		return nil, err
	}
	for _, l := range in.StageLeaders {
		stage, ok := Stage(l.Stage)
		if !ok || stage == models.StageGeneral {
			return nil, fmt.Errorf("stage leader: unknown stage %q", l.Stage)
		}
		start, err := parseTimePtr(l.TermStart)
		if err != nil {
			return nil, err
		}
		end, err := parseTimePtr(l.TermEnd)
		if err != nil {
			return nil, err
		}
		r.StageLeaders = append(r.StageLeaders, models.StageLeader{
			Stage:       stage,
			CoupleNames: l.CoupleNames,
			TeamName:    l.TeamName,
			TermStart:   start,
			TermEnd:     end,
		})
	}
	return r, nil
}

func convertSong(in Song) (*models.Song, error) {
	stage, ok := Stage(in.Stage)
	if !ok || stage == models.StageGeneral {
		return nil, fmt.Errorf("unknown stage %q", in.Stage)
	}
	return &models.Song{
		ID:       ID("song", in.ID),
		Title:    in.Title,
		Author:   in.Author,
		Stage:    stage,
		Lyrics:   in.Lyrics,
		Category: in.Category,
		VideoURL: in.VideoURL,
	}, nil
}
