package service

import (
	"strconv"

	"github.com/google/uuid"
)

// Imported rows get name based ids so that importing the same document again updates them in place.

func mapID(raceID uuid.UUID, mapName string) uuid.UUID {
	return uuid.NewSHA1(raceID, []byte("map|"+mapName))
}

func controlID(mapID uuid.UUID, code string) uuid.UUID {
	return uuid.NewSHA1(mapID, []byte("control|"+code))
}

func courseID(mapID uuid.UUID, familyKey string) uuid.UUID {
	return uuid.NewSHA1(mapID, []byte("course|"+familyKey))
}

// variantID includes the position inside the family since external course names need not be unique.
func variantID(courseID uuid.UUID, courseName string, position int) uuid.UUID {
	return uuid.NewSHA1(courseID, []byte("variant|"+strconv.Itoa(position)+"|"+courseName))
}

func legID(variantID uuid.UUID, position int) uuid.UUID {
	return uuid.NewSHA1(variantID, []byte("leg|"+strconv.Itoa(position)))
}

// entryID is stable for entries the federation identifies. An entry without an id falls back to the
// person id, and one with neither gets a random id.
func entryID(eventorRef, personRef string, raceID, classID uuid.UUID) uuid.UUID {
	key := eventorRef
	if key == "" && personRef != "" {
		key = "person:" + personRef
	}
	if key == "" {
		return uuid.New()
	}

	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key+"|"+raceID.String()+"|"+classID.String()))
}
