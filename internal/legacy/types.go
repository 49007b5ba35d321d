package legacy

// The types below mirror the JSON the old portal stored. Field names follow
// its camelCase keys; dates are kept as strings and parsed on conversion.

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	Parish   string `json:"parish"`
	Region   string `json:"region"`
	Password string `json:"password"`
}

type Person struct {
	Name        string `json:"name"`
	PhotoBase64 string `json:"photoBase64"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Occupation  string `json:"occupation"`
}

type Document struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Data       string `json:"data"`
	UploadDate string `json:"uploadDate"`
}

type CoordinatingTeam struct {
	CasalMontagem         string `json:"casalMontagem"`
	CasalFicha            string `json:"casalFicha"`
	CasalFinanca          string `json:"casalFinanca"`
	CasalRecepcaoPalestra string `json:"casalRecepcaoPalestra"`
	CasalPosEncontro      string `json:"casalPosEncontro"`
	TermStart             string `json:"termStart"`
	TermEnd               string `json:"termEnd"`
}

type Teams struct {
	Sala                string `json:"sala"`
	Cafezinho           string `json:"cafezinho"`
	Cozinha             string `json:"cozinha"`
	OrdemLimpeza        string `json:"ordemLimpeza"`
	Visitacao           string `json:"visitacao"`
	CirculoEstudo       string `json:"circuloEstudo"`
	Compras             string `json:"compras"`
	CoordenadorGeral    string `json:"coordenadorGeral"`
	Secretaria          string `json:"secretaria"`
	Liturgia            string `json:"liturgia"`
	SomProjecao         string `json:"somProjecao"`
	RecepcaoPalestrante string `json:"recepcaoPalestrante"`
}

type Encounter struct {
	ID               string            `json:"id"`
	Stage            string            `json:"stage"`
	Number           int               `json:"number"`
	Date             string            `json:"date"`
	Theme            string            `json:"theme"`
	Motto            string            `json:"motto"`
	QuadranteBase64  string            `json:"quadranteBase64"`
	CoordinatingTeam *CoordinatingTeam `json:"coordinatingTeam"`
	Teams            *Teams            `json:"teams"`
	SpecificRole     string            `json:"specificRoleInEncounter"`
}

type Couple struct {
	ID              string      `json:"id"`
	Husband         Person      `json:"husband"`
	Wife            Person      `json:"wife"`
	Address         string      `json:"address"`
	Phone           string      `json:"phone"`
	Email           string      `json:"email"`
	Parish          string      `json:"parish"`
	Region          string      `json:"region"`
	SectorName      string      `json:"sectorName"`
	SectorCouple    string      `json:"sectorCouple"`
	SectorTermStart string      `json:"sectorTermStart"`
	SectorTermEnd   string      `json:"sectorTermEnd"`
	City            string      `json:"city"`
	State           string      `json:"state"`
	IsEngaged       bool        `json:"isEngaged"`
	PastoralGroup   string      `json:"pastoralGroup"`
	WeddingDate     string      `json:"weddingDate"`
	Encounters      []Encounter `json:"encounters"`
	Documents       []Document  `json:"documents"`
	Status          string      `json:"status"`
	CreatedAt       string      `json:"createdAt"`
}

type Attendee struct {
	UserID           string `json:"userId"`
	Status           string `json:"status"`
	RegistrationDate string `json:"registrationDate"`
}

type Event struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Type             string            `json:"type"`
	Stage            string            `json:"stage"`
	StartDate        string            `json:"startDate"`
	EndDate          string            `json:"endDate"`
	Location         string            `json:"location"`
	Theme            string            `json:"theme"`
	Motto            string            `json:"motto"`
	CoordinatingTeam *CoordinatingTeam `json:"coordinatingTeam"`
	Status           string            `json:"status"`
	QuadranteBase64  string            `json:"quadranteBase64"`
	Description      string            `json:"description"`
	Attendees        []Attendee        `json:"attendees"`
}

type ChatMessage struct {
	ID           string `json:"id"`
	SenderID     string `json:"senderId"`
	SenderName   string `json:"senderName"`
	SenderRole   string `json:"senderRole"`
	SenderParish string `json:"senderParish"`
	SenderRegion string `json:"senderRegion"`
	Content      string `json:"content"`
	Timestamp    string `json:"timestamp"`
	Room         string `json:"room"`
}

type Notification struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"createdAt"`
}

type StageLeader struct {
	Stage       string `json:"stage"`
	CoupleNames string `json:"coupleNames"`
	TeamName    string `json:"teamName"`
	TermStart   string `json:"termStart"`
	TermEnd     string `json:"termEnd"`
}

type Region struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	SpiritualDirector  string        `json:"spiritualDirector"`
	RegionalDirector   string        `json:"regionalDirector"`
	NationalDirector   string        `json:"nationalDirector"`
	ArchdiocesanCouple string        `json:"archdiocesanCouple"`
	StageLeaders       []StageLeader `json:"stageLeaders"`
	State              string        `json:"state"`
	TermStart          string        `json:"termStart"`
	TermEnd            string        `json:"termEnd"`
}

type Song struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Stage    string `json:"stage"`
	Lyrics   string `json:"lyrics"`
	VideoURL string `json:"videoUrl"`
	Category string `json:"category"`
}
