package domain

type Gender string

const (
	GenderMan   Gender = "Man"
	GenderWoman Gender = "Woman"
	GenderOther Gender = "Other"
)

// ParseGender reads a stored gender, falling back to GenderOther.
func ParseGender(s string) Gender {
	switch Gender(s) {
	case GenderMan, GenderWoman:
		return Gender(s)
	default:
		return GenderOther
	}
}

// GenderFromSex maps the IOF sex attribute.
func GenderFromSex(sex string) Gender {
	switch sex {
	case "M":
		return GenderMan
	case "F":
		return GenderWoman
	default:
		return GenderOther
	}
}

type PersonName struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

func (n PersonName) String() string {
	return n.Given + " " + n.Family
}

type OrganisationType string

const (
	OrganisationTypeIOFGoverningBody   OrganisationType = "IOFGoverningBody"
	OrganisationTypeNationalFederation OrganisationType = "NationalFederation"
	OrganisationTypeNationalRegion     OrganisationType = "NationalRegion"
	OrganisationTypeClub               OrganisationType = "Club"
	OrganisationTypeSchool             OrganisationType = "School"
	OrganisationTypeCompany            OrganisationType = "Company"
	OrganisationTypeMilitary           OrganisationType = "Military"
	OrganisationTypeOther              OrganisationType = "Other"
)

// ParseOrganisationType falls back to OrganisationTypeClub.
func ParseOrganisationType(s string) OrganisationType {
	switch t := OrganisationType(s); t {
	case OrganisationTypeIOFGoverningBody, OrganisationTypeNationalFederation, OrganisationTypeNationalRegion,
		OrganisationTypeClub, OrganisationTypeSchool, OrganisationTypeCompany, OrganisationTypeMilitary,
		OrganisationTypeOther:
		return t
	default:
		return OrganisationTypeClub
	}
}

type Organisation struct {
	OrganisationID string           `json:"organisation_id"`
	Name           string           `json:"name"`
	Type           OrganisationType `json:"type"`
	Country        string           `json:"country,omitempty"`
}
