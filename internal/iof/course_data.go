package iof

import (
	"encoding/xml"
	"io"
)

type CourseData struct {
	XMLName        xml.Name         `xml:"CourseData"`
	Event          *Event           `xml:"Event"`
	RaceCourseData []RaceCourseData `xml:"RaceCourseData"`
}

type RaceCourseData struct {
	Maps                   []Map                   `xml:"Map"`
	Controls               []Control               `xml:"Control"`
	Courses                []Course                `xml:"Course"`
	ClassCourseAssignments []ClassCourseAssignment `xml:"ClassCourseAssignment"`
}

type MapPosition struct {
	X    float64 `xml:"x,attr"`
	Y    float64 `xml:"y,attr"`
	Unit string  `xml:"unit,attr,omitempty"`
}

type GeoPosition struct {
	Lng float64 `xml:"lng,attr"`
	Lat float64 `xml:"lat,attr"`
}

type Map struct {
	ID                     *ID          `xml:"Id"`
	Scale                  *float64     `xml:"Scale"`
	MapPositionTopLeft     *MapPosition `xml:"MapPositionTopLeft"`
	MapPositionBottomRight *MapPosition `xml:"MapPositionBottomRight"`
}

type Control struct {
	Type        string       `xml:"type,attr,omitempty"`
	ID          *ID          `xml:"Id"`
	Position    *GeoPosition `xml:"Position"`
	MapPosition *MapPosition `xml:"MapPosition"`
}

type Course struct {
	NumberOfMaps   *int            `xml:"numberOfMaps,attr"`
	ID             *ID             `xml:"Id"`
	Name           string          `xml:"Name"`
	CourseFamily   string          `xml:"CourseFamily"`
	Length         *float64        `xml:"Length"`
	Climb          *float64        `xml:"Climb"`
	CourseControls []CourseControl `xml:"CourseControl"`
}

type CourseControl struct {
	Type      string   `xml:"type,attr,omitempty"`
	Controls  []string `xml:"Control"`
	MapText   string   `xml:"MapText"`
	LegLength *float64 `xml:"LegLength"`
}

type ClassCourseAssignment struct {
	ClassID      *ID    `xml:"ClassId"`
	ClassName    string `xml:"ClassName"`
	CourseName   string `xml:"CourseName"`
	CourseFamily string `xml:"CourseFamily"`
}

// ParseCourseData decodes an IOF CourseData document.
func ParseCourseData(r io.Reader) (*CourseData, error) {
	var data CourseData
	if err := decode(r, "CourseData", &data); err != nil {
		return nil, err
	}
	return &data, nil
}
