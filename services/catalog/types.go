package catalog

// Requirement is one inscription prerequisite line. Requirements have no
// identity beyond position, they are stored in document order.
type Requirement struct {
	Type        string `bson:"type" json:"type"`
	Description string `bson:"description" json:"description"`
}

// Class is one scheduled offering of a discipline, keyed by Number within
// the discipline. WhatsappGroup is an overlay field curated outside the
// scraping pipeline (direct edit or link enrichment), re-scraping must
// never blank it out.
type Class struct {
	Number       int    `bson:"number" json:"number"`
	Preferential string `bson:"preferential,omitempty" json:"preferential,omitempty"`
	Times        string `bson:"times,omitempty" json:"times,omitempty"`
	Teacher      string `bson:"teacher,omitempty" json:"teacher,omitempty"`

	OfferedUerj        int `bson:"offeredUerj" json:"offeredUerj"`
	OccupiedUerj       int `bson:"occupiedUerj" json:"occupiedUerj"`
	OfferedVestibular  int `bson:"offeredVestibular" json:"offeredVestibular"`
	OccupiedVestibular int `bson:"occupiedVestibular" json:"occupiedVestibular"`

	RequestUerjOffered            int `bson:"requestUerjOffered" json:"requestUerjOffered"`
	RequestUerjTotal              int `bson:"requestUerjTotal" json:"requestUerjTotal"`
	RequestUerjPreferential       int `bson:"requestUerjPreferential" json:"requestUerjPreferential"`
	RequestVestibularOffered      int `bson:"requestVestibularOffered" json:"requestVestibularOffered"`
	RequestVestibularTotal        int `bson:"requestVestibularTotal" json:"requestVestibularTotal"`
	RequestVestibularPreferential int `bson:"requestVestibularPreferential" json:"requestVestibularPreferential"`

	WhatsappGroup string `bson:"whatsappGroup,omitempty" json:"whatsappGroup,omitempty"`
}

// Discipline is a curriculum course. DisciplineID is the portal's stable
// external key and is globally unique; Classes[*].Number is unique within
// one discipline.
type Discipline struct {
	DisciplineID  string        `bson:"disciplineId" json:"disciplineId"`
	Name          string        `bson:"name" json:"name"`
	Period        string        `bson:"period" json:"period"`
	Type          string        `bson:"type" json:"type"`
	Ramification  string        `bson:"ramification" json:"ramification"`
	Credits       int           `bson:"credits" json:"credits"`
	TotalHours    int           `bson:"totalHours" json:"totalHours"`
	CreditLock    string        `bson:"creditLock" json:"creditLock"`
	ClassInPeriod string        `bson:"classInPeriod" json:"classInPeriod"`
	Requirements  []Requirement `bson:"requirements" json:"requirements"`
	Classes       []Class       `bson:"classes" json:"classes"`
}

// Teacher identifiers are assigned once per distinct name and never reused.
type Teacher struct {
	TeacherID string `bson:"teacherId" json:"teacherId"`
	Name      string `bson:"name" json:"name"`
}
