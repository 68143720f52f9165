package domain

// EntryStatus is the entry vocabulary used by the federation.
type EntryStatus string

const (
	EntryStatusNotActivated  EntryStatus = "NotActivated"
	EntryStatusActivated     EntryStatus = "Activated"
	EntryStatusDeregistered  EntryStatus = "Deregistered"
	EntryStatusSignedUp      EntryStatus = "SignedUp"
	EntryStatusStarted       EntryStatus = "Started"
	EntryStatusFinished      EntryStatus = "Finished"
	EntryStatusOK            EntryStatus = "OK"
	EntryStatusMissingPunch  EntryStatus = "MissingPunch"
	EntryStatusDisqualified  EntryStatus = "Disqualified"
	EntryStatusDidNotFinish  EntryStatus = "DidNotFinish"
	EntryStatusOvertime      EntryStatus = "Overtime"
	EntryStatusNotCompeting  EntryStatus = "NotCompeting"
	EntryStatusSportWithdraw EntryStatus = "SportWithdraw"
	EntryStatusNotStarted    EntryStatus = "NotStarted"
	EntryStatusDidNotStart   EntryStatus = "DidNotStart"
	EntryStatusCancelled     EntryStatus = "Cancelled"
)

var EntryStatuses = []EntryStatus{
	EntryStatusNotActivated, EntryStatusActivated, EntryStatusDeregistered, EntryStatusSignedUp,
	EntryStatusStarted, EntryStatusFinished, EntryStatusOK, EntryStatusMissingPunch,
	EntryStatusDisqualified, EntryStatusDidNotFinish, EntryStatusOvertime, EntryStatusNotCompeting,
	EntryStatusSportWithdraw, EntryStatusNotStarted, EntryStatusDidNotStart, EntryStatusCancelled,
}

func ParseEntryStatus(s string) EntryStatus {
	for _, st := range EntryStatuses {
		if string(st) == s {
			return st
		}
	}
	return EntryStatusNotActivated
}

// CompetitorStatus is the persisted competitor lifecycle state.
type CompetitorStatus string

const (
	CompetitorStatusNotActivated  CompetitorStatus = "NotActivated"
	CompetitorStatusActivated     CompetitorStatus = "Activated"
	CompetitorStatusDeregistered  CompetitorStatus = "Deregistered"
	CompetitorStatusStarted       CompetitorStatus = "Started"
	CompetitorStatusFinished      CompetitorStatus = "Finished"
	CompetitorStatusOK            CompetitorStatus = "OK"
	CompetitorStatusMissingPunch  CompetitorStatus = "MissingPunch"
	CompetitorStatusDisqualified  CompetitorStatus = "Disqualified"
	CompetitorStatusDidNotFinish  CompetitorStatus = "DidNotFinish"
	CompetitorStatusOvertime      CompetitorStatus = "Overtime"
	CompetitorStatusNotCompeting  CompetitorStatus = "NotCompeting"
	CompetitorStatusSportWithdraw CompetitorStatus = "SportWithdraw"
	CompetitorStatusNotStarted    CompetitorStatus = "NotStarted"
	CompetitorStatusDidNotStart   CompetitorStatus = "DidNotStart"
	CompetitorStatusCancelled     CompetitorStatus = "Cancelled"
)

var CompetitorStatuses = []CompetitorStatus{
	CompetitorStatusNotActivated, CompetitorStatusActivated, CompetitorStatusDeregistered,
	CompetitorStatusStarted, CompetitorStatusFinished, CompetitorStatusOK, CompetitorStatusMissingPunch,
	CompetitorStatusDisqualified, CompetitorStatusDidNotFinish, CompetitorStatusOvertime,
	CompetitorStatusNotCompeting, CompetitorStatusSportWithdraw, CompetitorStatusNotStarted,
	CompetitorStatusDidNotStart, CompetitorStatusCancelled,
}

func ParseCompetitorStatus(s string) CompetitorStatus {
	for _, st := range CompetitorStatuses {
		if string(st) == s {
			return st
		}
	}
	return CompetitorStatusNotActivated
}

var competitorTransitions = map[CompetitorStatus][]CompetitorStatus{
	CompetitorStatusNotActivated: {CompetitorStatusActivated},
	CompetitorStatusActivated:    {CompetitorStatusStarted, CompetitorStatusDeregistered},
	CompetitorStatusStarted:      {CompetitorStatusFinished, CompetitorStatusNotStarted, CompetitorStatusDidNotStart},
	CompetitorStatusFinished: {
		CompetitorStatusOK, CompetitorStatusMissingPunch, CompetitorStatusDisqualified,
		CompetitorStatusDidNotFinish, CompetitorStatusOvertime, CompetitorStatusNotCompeting,
		CompetitorStatusSportWithdraw, CompetitorStatusCancelled,
	},
}

// CanTransitionTo reports whether next follows s in the competitor lifecycle.
// Imports write statuses as given and do not consult it.
func (s CompetitorStatus) CanTransitionTo(next CompetitorStatus) bool {
	for _, allowed := range competitorTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ConvertEntryStatusToCompetitorStatus is total over EntryStatuses.
func ConvertEntryStatusToCompetitorStatus(s EntryStatus) CompetitorStatus {
	switch s {
	case EntryStatusActivated:
		return CompetitorStatusActivated
	case EntryStatusDeregistered:
		return CompetitorStatusDeregistered
	case EntryStatusStarted:
		return CompetitorStatusStarted
	case EntryStatusFinished, EntryStatusOK:
		return CompetitorStatusFinished
	case EntryStatusMissingPunch:
		return CompetitorStatusMissingPunch
	case EntryStatusDisqualified:
		return CompetitorStatusDisqualified
	case EntryStatusDidNotFinish:
		return CompetitorStatusDidNotFinish
	case EntryStatusOvertime:
		return CompetitorStatusOvertime
	case EntryStatusNotCompeting:
		return CompetitorStatusNotCompeting
	case EntryStatusSportWithdraw:
		return CompetitorStatusSportWithdraw
	case EntryStatusNotStarted:
		return CompetitorStatusNotStarted
	case EntryStatusDidNotStart:
		return CompetitorStatusDidNotStart
	case EntryStatusCancelled:
		return CompetitorStatusCancelled
	default:
		// NotActivated, SignedUp
		return CompetitorStatusNotActivated
	}
}

type ResultStatus string

const (
	ResultStatusInactive     ResultStatus = "Inactive"
	ResultStatusMisPunch     ResultStatus = "MisPunch"
	ResultStatusDidNotStart  ResultStatus = "DidNotStart"
	ResultStatusMovedUp      ResultStatus = "MovedUp"
	ResultStatusOverTime     ResultStatus = "OverTime"
	ResultStatusMoved        ResultStatus = "Moved"
	ResultStatusActive       ResultStatus = "Active"
	ResultStatusDisqualified ResultStatus = "Disqualified"
	ResultStatusDidNotFinish ResultStatus = "DidNotFinish"
	ResultStatusCancelled    ResultStatus = "Cancelled"
	ResultStatusSportWithdr  ResultStatus = "SportWithdr"
	ResultStatusOK           ResultStatus = "OK"
	ResultStatusNotCompeting ResultStatus = "NotCompeting"
	ResultStatusFinished     ResultStatus = "Finished"
)

var resultStatuses = []ResultStatus{
	ResultStatusInactive, ResultStatusMisPunch, ResultStatusDidNotStart, ResultStatusMovedUp,
	ResultStatusOverTime, ResultStatusMoved, ResultStatusActive, ResultStatusDisqualified,
	ResultStatusDidNotFinish, ResultStatusCancelled, ResultStatusSportWithdr, ResultStatusOK,
	ResultStatusNotCompeting, ResultStatusFinished,
}

func ParseResultStatus(s string) ResultStatus {
	for _, st := range resultStatuses {
		if string(st) == s {
			return st
		}
	}
	return ResultStatusInactive
}
