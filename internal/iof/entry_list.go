package iof

import (
	"encoding/xml"
	"io"
)

type EntryList struct {
	XMLName       xml.Name      `xml:"EntryList"`
	Event         *Event        `xml:"Event"`
	TeamEntries   []TeamEntry   `xml:"TeamEntry"`
	PersonEntries []PersonEntry `xml:"PersonEntry"`
}

type PersonName struct {
	Family string `xml:"Family"`
	Given  string `xml:"Given"`
}

type Person struct {
	Sex         string      `xml:"sex,attr,omitempty"`
	IDs         []ID        `xml:"Id"`
	Name        *PersonName `xml:"Name"`
	BirthDate   string      `xml:"BirthDate"`
	Nationality *Country    `xml:"Nationality"`
}

// FirstID returns the first person id, or "" when the person has none.
func (p *Person) FirstID() string {
	if p == nil || len(p.IDs) == 0 {
		return ""
	}
	return p.IDs[0].String()
}

type Organisation struct {
	Type    string   `xml:"type,attr,omitempty"`
	ID      *ID      `xml:"Id"`
	Name    string   `xml:"Name"`
	Country *Country `xml:"Country"`
}

type ControlCard struct {
	PunchingSystem string `xml:"punchingSystem,attr,omitempty"`
	Value          string `xml:",chardata"`
}

type Fee struct {
	ID   *ID    `xml:"Id"`
	Name string `xml:"Name"`
}

type AssignedFee struct {
	Fee *Fee `xml:"Fee"`
}

type PersonEntry struct {
	ID           *ID           `xml:"Id"`
	Person       *Person       `xml:"Person"`
	Organisation *Organisation `xml:"Organisation"`
	ControlCards []ControlCard `xml:"ControlCard"`
	Classes      []Class       `xml:"Class"`
	RaceNumbers  []int         `xml:"RaceNumber"`
	AssignedFees []AssignedFee `xml:"AssignedFee"`
}

type TeamEntryPerson struct {
	Person       *Person       `xml:"Person"`
	Organisation *Organisation `xml:"Organisation"`
	Leg          *int          `xml:"Leg"`
	ControlCards []ControlCard `xml:"ControlCard"`
	AssignedFees []AssignedFee `xml:"AssignedFee"`
}

type TeamEntry struct {
	ID            *ID               `xml:"Id"`
	Name          string            `xml:"Name"`
	Organisations []Organisation    `xml:"Organisation"`
	Persons       []TeamEntryPerson `xml:"TeamEntryPerson"`
	Classes       []Class           `xml:"Class"`
	Races         []int             `xml:"Race"`
	AssignedFees  []AssignedFee     `xml:"AssignedFee"`
}

// FeeIDs returns the ids of the assigned fees that carry one.
func FeeIDs(fees []AssignedFee) []string {
	ids := make([]string, 0, len(fees))
	for _, f := range fees {
		if f.Fee == nil || f.Fee.ID.String() == "" {
			continue
		}
		ids = append(ids, f.Fee.ID.String())
	}
	return ids
}

// ParseEntryList decodes an IOF EntryList document.
func ParseEntryList(r io.Reader) (*EntryList, error) {
	var list EntryList
	if err := decode(r, "EntryList", &list); err != nil {
		return nil, err
	}
	return &list, nil
}
