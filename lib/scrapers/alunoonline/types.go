package alunoonline

// CourseRow is one data row of the curriculum course list table.
type CourseRow struct {
	// DisciplineID is the portal's stable numeric key, taken from the
	// consultarDisciplina onclick handler. Empty for rows without a link.
	DisciplineID  string
	Name          string
	Period        string
	Type          string
	Ramification  string
	Credits       int
	TotalHours    int
	CreditLock    string
	ClassInPeriod string
}

type Requirement struct {
	Type        string
	Description string
}

// Class is one scheduled offering ("turma") extracted from a raw detail
// page text block. Fields whose pattern does not match keep their zero
// value, the extractor never fails on a partially matched block.
type Class struct {
	Number int
	// "SIM", "NÃO" or empty when the flag could not be extracted.
	Preferential string
	Times        string
	Teacher      string

	OfferedUerj        int
	OccupiedUerj       int
	OfferedVestibular  int
	OccupiedVestibular int

	RequestUerjOffered            int
	RequestUerjTotal              int
	RequestUerjPreferential       int
	RequestVestibularOffered      int
	RequestVestibularTotal        int
	RequestVestibularPreferential int
}

// CourseDetail is everything extracted from one course detail page.
type CourseDetail struct {
	Requirements []Requirement
	Classes      []Class
}
