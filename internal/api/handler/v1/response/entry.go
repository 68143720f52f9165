package response

import (
	"errors"

	"github.com/google/uuid"

	"github.com/stunor/origo-organiser/internal/service"
)

type EntryFailure struct {
	Kind       string `json:"kind"`
	EventorRef string `json:"eventorRef"`
	Name       string `json:"name"`
	Error      string `json:"error"`
}

type EntryDownloadResponse struct {
	Message  string         `json:"message"`
	Count    int            `json:"count"`
	EventID  uuid.UUID      `json:"eventId"`
	Failures []EntryFailure `json:"failures,omitempty"`
}

func NewEntryDownloadResponse(eventID uuid.UUID, result service.ImportResult) EntryDownloadResponse {
	resp := EntryDownloadResponse{
		Message: "Successfully synced competitors",
		Count:   result.Saved,
		EventID: eventID,
	}
	for _, f := range result.Failures {
		resp.Failures = append(resp.Failures, EntryFailure{
			Kind:       string(f.Kind),
			EventorRef: f.EventorRef,
			Name:       f.Name,
			Error:      failureReason(f.Err),
		})
	}

	return resp
}

// failureReason keeps storage details out of the response; the full error is logged by the import.
func failureReason(err error) string {
	switch {
	case errors.Is(err, service.ErrMissingReference):
		return "entry references a race or class that no longer exists"
	case errors.Is(err, service.ErrDuplicate):
		return "entry conflicts with an existing entry"
	default:
		return "entry could not be saved"
	}
}

type DeleteCompetitorsResponse struct {
	RaceID  uuid.UUID `json:"race_id"`
	Deleted int64     `json:"deleted"`
}
