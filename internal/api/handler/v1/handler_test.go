package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stunor/origo-organiser/internal/api/handler/v1/response"
	"github.com/stunor/origo-organiser/internal/domain"
	"github.com/stunor/origo-organiser/internal/eventor"
	"github.com/stunor/origo-organiser/internal/iof"
	"github.com/stunor/origo-organiser/internal/service"
)

type mockCourseService struct {
	mock.Mock
}

func (m *mockCourseService) SaveCourse(ctx context.Context, raceID uuid.UUID, mapName string, data *iof.CourseData) error {
	args := m.Called(ctx, raceID, mapName, data)
	return args.Error(0)
}

func (m *mockCourseService) GetRaceCourses(ctx context.Context, raceID uuid.UUID) ([]domain.MapCourses, error) {
	args := m.Called(ctx, raceID)
	courses, _ := args.Get(0).([]domain.MapCourses)
	return courses, args.Error(1)
}

type mockEntryService struct {
	mock.Mock
}

func (m *mockEntryService) DownloadEntryList(ctx context.Context, eventID uuid.UUID) (service.ImportResult, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(service.ImportResult), args.Error(1)
}

type mockCompetitorService struct {
	mock.Mock
}

func (m *mockCompetitorService) GetPersonEntry(ctx context.Context, id uuid.UUID) (domain.PersonEntry, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.PersonEntry), args.Error(1)
}

func (m *mockCompetitorService) GetCompetitors(ctx context.Context, raceID uuid.UUID) (service.RaceCompetitors, error) {
	args := m.Called(ctx, raceID)
	return args.Get(0).(service.RaceCompetitors), args.Error(1)
}

func (m *mockCompetitorService) DeleteCompetitors(ctx context.Context, raceID uuid.UUID) (int64, error) {
	args := m.Called(ctx, raceID)
	return args.Get(0).(int64), args.Error(1)
}

func newTestRouter(courses CourseService, entries EntryService, competitors CompetitorService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if courses != nil {
		h := NewCourseHandler(courses)
		r.POST("/courses/:raceID", h.HandleImportCourse)
		r.GET("/races/:raceID/courses", h.HandleGetRaceCourses)
	}
	if entries != nil {
		r.POST("/entries/:eventID", NewEntryHandler(entries).HandleDownloadEntries)
	}
	if competitors != nil {
		h := NewCompetitorHandler(competitors)
		r.GET("/races/:raceID/competitors", h.HandleGetCompetitors)
		r.DELETE("/races/:raceID/competitors", h.HandleDeleteCompetitors)
		r.GET("/competitors/:competitorID", h.HandleGetCompetitor)
	}
	r.GET("/", HandleHealthcheck)

	return r
}

const minimalCourseData = `<CourseData><RaceCourseData><Control><Id>31</Id></Control></RaceCourseData></CourseData>`

func TestHandleImportCourse(t *testing.T) {
	raceID := uuid.New()

	tests := []struct {
		name       string
		path       string
		mapName    string
		body       string
		svcErr     error
		callsSvc   bool
		wantStatus int
	}{
		{name: "ok", path: raceID.String(), mapName: "Sprint", body: minimalCourseData, callsSvc: true, wantStatus: http.StatusOK},
		{name: "invalid race id", path: "not-a-uuid", mapName: "Sprint", body: minimalCourseData, wantStatus: http.StatusBadRequest},
		{name: "missing map name", path: raceID.String(), body: minimalCourseData, wantStatus: http.StatusBadRequest},
		{name: "padded map name", path: raceID.String(), mapName: " Sprint", body: minimalCourseData, wantStatus: http.StatusBadRequest},
		{name: "too long map name", path: raceID.String(), mapName: strings.Repeat("m", 101), body: minimalCourseData, wantStatus: http.StatusBadRequest},
		{name: "malformed xml", path: raceID.String(), mapName: "Sprint", body: "<CourseData><RaceCourseData>", wantStatus: http.StatusBadRequest},
		{name: "race not found", path: raceID.String(), mapName: "Sprint", body: minimalCourseData, svcErr: fmt.Errorf("wrapped -> %w", service.ErrRaceNotFound), callsSvc: true, wantStatus: http.StatusBadRequest},
		{name: "storage failure", path: raceID.String(), mapName: "Sprint", body: minimalCourseData, svcErr: assert.AnError, callsSvc: true, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockCourseService{}
			svc.On("SaveCourse", mock.Anything, raceID, tt.mapName, mock.AnythingOfType("*iof.CourseData")).Return(tt.svcErr)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/courses/"+tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/xml")
			if tt.mapName != "" {
				req.Header.Set("Map-Name", tt.mapName)
			}

			newTestRouter(svc, nil, nil).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.callsSvc {
				svc.AssertNumberOfCalls(t, "SaveCourse", 1)
			} else {
				svc.AssertNotCalled(t, "SaveCourse", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
			if tt.wantStatus == http.StatusOK {
				assert.Empty(t, w.Body.String())
			}
		})
	}
}

func TestHandleGetRaceCourses(t *testing.T) {
	raceID, missing := uuid.New(), uuid.New()
	svc := &mockCourseService{}
	svc.On("GetRaceCourses", mock.Anything, raceID).Return([]domain.MapCourses{{Map: domain.RaceMap{Name: "Sprint"}}}, nil)
	svc.On("GetRaceCourses", mock.Anything, missing).Return(nil, service.ErrRaceNotFound)
	router := newTestRouter(svc, nil, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/races/"+raceID.String()+"/courses", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var got []domain.MapCourses
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Sprint", got[0].Map.Name)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/races/"+missing.String()+"/courses", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleDownloadEntries(t *testing.T) {
	eventID := uuid.New()

	t.Run("ok", func(t *testing.T) {
		svc := &mockEntryService{}
		svc.On("DownloadEntryList", mock.Anything, eventID).Return(service.ImportResult{
			Saved: 4,
			Failures: []service.EntryFailure{
				{Kind: service.EntryKindPerson, EventorRef: "2", Name: "Bjørn B", Err: assert.AnError},
			},
		}, nil)

		w := httptest.NewRecorder()
		newTestRouter(nil, svc, nil).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/entries/"+eventID.String(), nil))
		require.Equal(t, http.StatusOK, w.Code)

		var got map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "Successfully synced competitors", got["message"])
		assert.Equal(t, 4.0, got["count"])
		assert.Equal(t, eventID.String(), got["eventId"])
		require.Len(t, got["failures"], 1)
	})

	t.Run("no failures field when all saved", func(t *testing.T) {
		svc := &mockEntryService{}
		svc.On("DownloadEntryList", mock.Anything, eventID).Return(service.ImportResult{Saved: 1}, nil)

		w := httptest.NewRecorder()
		newTestRouter(nil, svc, nil).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/entries/"+eventID.String(), nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "failures")
	})

	errTests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "event not found", err: service.ErrEventNotFound, wantStatus: http.StatusBadRequest},
		{name: "eventor not found", err: service.ErrEventorNotFound, wantStatus: http.StatusBadRequest},
		{name: "federation failure", err: fmt.Errorf("fetch -> %w", eventor.ErrUnexpectedStatus), wantStatus: http.StatusBadGateway},
		{name: "federation unreachable", err: fmt.Errorf("%w: dial", eventor.ErrUnavailable), wantStatus: http.StatusBadGateway},
		{name: "federation sent garbage", err: fmt.Errorf("%w: parse", eventor.ErrInvalidResponse), wantStatus: http.StatusBadGateway},
		{name: "other", err: assert.AnError, wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockEntryService{}
			svc.On("DownloadEntryList", mock.Anything, eventID).Return(service.ImportResult{}, tt.err)

			w := httptest.NewRecorder()
			newTestRouter(nil, svc, nil).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/entries/"+eventID.String(), nil))
			assert.Equal(t, tt.wantStatus, w.Code)

			var got response.Err
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.NotEmpty(t, got.ErrorText)
		})
	}

	t.Run("invalid event id", func(t *testing.T) {
		svc := &mockEntryService{}

		w := httptest.NewRecorder()
		newTestRouter(nil, svc, nil).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/entries/42", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "DownloadEntryList", mock.Anything, mock.Anything)
	})
}

func TestCompetitorHandlers(t *testing.T) {
	raceID, missing := uuid.New(), uuid.New()
	svc := &mockCompetitorService{}
	svc.On("GetCompetitors", mock.Anything, raceID).Return(service.RaceCompetitors{
		Persons: []domain.PersonEntry{{RaceID: raceID, Name: domain.PersonName{Given: "Kari", Family: "Nordmann"}}},
	}, nil)
	svc.On("GetCompetitors", mock.Anything, missing).Return(service.RaceCompetitors{}, service.ErrRaceNotFound)
	svc.On("DeleteCompetitors", mock.Anything, raceID).Return(int64(3), nil)
	svc.On("DeleteCompetitors", mock.Anything, missing).Return(int64(0), service.ErrRaceNotFound)
	router := newTestRouter(nil, nil, svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/races/"+raceID.String()+"/competitors", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var got service.RaceCompetitors
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Persons, 1)
	assert.Equal(t, "Kari", got.Persons[0].Name.Given)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/races/"+missing.String()+"/competitors", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/races/"+raceID.String()+"/competitors", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var deleted response.DeleteCompetitorsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &deleted))
	assert.Equal(t, int64(3), deleted.Deleted)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/races/"+missing.String()+"/competitors", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleGetCompetitor(t *testing.T) {
	entryID, missing := uuid.New(), uuid.New()
	svc := &mockCompetitorService{}
	svc.On("GetPersonEntry", mock.Anything, entryID).Return(domain.PersonEntry{ID: entryID, EventorRef: "1001"}, nil)
	svc.On("GetPersonEntry", mock.Anything, missing).Return(domain.PersonEntry{}, fmt.Errorf("wrapped -> %w", service.ErrEntryNotFound))
	router := newTestRouter(nil, nil, svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/competitors/"+entryID.String(), nil))
	require.Equal(t, http.StatusOK, w.Code)
	var got domain.PersonEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "1001", got.EventorRef)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/competitors/"+missing.String(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/competitors/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleHealthcheck(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(nil, nil, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
