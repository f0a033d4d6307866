package model

// Classification is a dispatcher's working class
type Classification string

const (
	ClassExtraBoard Classification = "extra_board"
	ClassJobHolder  Classification = "job_holder"
	ClassQualifying Classification = "qualifying"
	ClassGAD        Classification = "gad"
	ClassACD        Classification = "acd"
)

func (c Classification) IsValid() bool {
	switch c {
	case ClassExtraBoard, ClassJobHolder, ClassQualifying, ClassGAD, ClassACD:
		return true
	}
	return false
}

// IsPool reports whether the classification belongs to the unassigned
// relief pool (GAD/extra board) that step one of the order of call draws from.
func (c Classification) IsPool() bool {
	return c == ClassExtraBoard || c == ClassGAD
}

// Shift identifies one of the fixed coverage windows on a desk
type Shift string

const (
	ShiftFirst    Shift = "first"  // 07:00-15:00
	ShiftSecond   Shift = "second" // 15:00-23:00
	ShiftThird    Shift = "third"  // 23:00-07:00 next day
	ShiftACDDay   Shift = "acd_day"
	ShiftACDNight Shift = "acd_night"
)

func (s Shift) IsValid() bool {
	switch s {
	case ShiftFirst, ShiftSecond, ShiftThird, ShiftACDDay, ShiftACDNight:
		return true
	}
	return false
}

// AssignmentType distinguishes how a dispatcher is bound to a desk+shift
type AssignmentType string

const (
	AssignmentRegular AssignmentType = "regular"
	AssignmentRelief  AssignmentType = "relief"
	AssignmentATW     AssignmentType = "atw"
)

// VacancyType is the reported reason for an absence
type VacancyType string

const (
	VacancySick     VacancyType = "sick"
	VacancyVacation VacancyType = "vacation"
	VacancyPersonal VacancyType = "personal"
	VacancyTraining VacancyType = "training"
	VacancyOther    VacancyType = "other"
)

// Planned reports whether absences of this type are known in advance.
// Sick calls and unclassified absences are unplanned by definition.
func (t VacancyType) Planned() bool {
	return t != VacancySick && t != VacancyOther
}

// AbsenceType controls how a reported absence expands into vacancy rows
type AbsenceType string

const (
	AbsenceSingleDay AbsenceType = "single_day"
	AbsenceDateRange AbsenceType = "date_range"
	AbsenceOpenEnded AbsenceType = "open_ended"
)

// VacancyStatus is the lifecycle state of a vacancy
type VacancyStatus string

const (
	VacancyPending VacancyStatus = "pending"
	VacancyFilled  VacancyStatus = "filled"
)

// FillMethod names which step of the order of call produced a fill
type FillMethod string

const (
	FillExtraBoard         FillMethod = "extra_board"
	FillIncumbentOvertime  FillMethod = "incumbent_overtime"
	FillSeniorRestDay      FillMethod = "senior_rest_day"
	FillJuniorDiversion    FillMethod = "junior_diversion_backfilled"
	FillCascadingDiversion FillMethod = "junior_diversion_cascade"
	FillOffShiftDiversion  FillMethod = "senior_off_shift_diversion"
	FillLeastCost          FillMethod = "least_cost"
)

// PayType is how a fill is compensated
type PayType string

const (
	PayStraight PayType = "straight"
	PayOvertime PayType = "overtime"
)

// BoardClass is an extra-board rest-day rotation class
type BoardClass int

const (
	BoardClass1 BoardClass = 1
	BoardClass2 BoardClass = 2
	BoardClass3 BoardClass = 3
)

// Offset is the class's fixed starting index into the rest-day pair cycle.
// The offsets keep the three classes two pairs apart so no two classes ever
// rest on the same pair in the same week.
func (c BoardClass) Offset() int {
	switch c {
	case BoardClass1:
		return 0
	case BoardClass2:
		return 2
	case BoardClass3:
		return 4
	}
	return 0
}

func (c BoardClass) IsValid() bool {
	return c >= BoardClass1 && c <= BoardClass3
}
