package app

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stunor/origo-organiser/internal/config"
	"github.com/stunor/origo-organiser/internal/domain"
	"github.com/stunor/origo-organiser/internal/service"
)

func TestRootCmd_Commands(t *testing.T) {
	root := newRootCmd()

	for _, path := range [][]string{
		{"serve"},
		{"migrate"},
		{"courses", "import"},
		{"entries", "sync"},
		{"eventors", "list"},
		{"eventors", "add"},
		{"events", "add"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}

	flag := root.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, defaultConfigPath, flag.DefValue)
}

func TestCoursesImport_RequiresFlags(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"courses", "import", "--race", uuid.NewString()})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "map-name")
}

func TestEntriesSync_InvalidEvent(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"entries", "sync", "--event", "nope"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid event id")
}

func TestRenderImportResult(t *testing.T) {
	var buf bytes.Buffer
	eventID := uuid.New()

	renderImportResult(&buf, eventID, service.ImportResult{
		Saved: 2,
		Failures: []service.EntryFailure{
			{Kind: service.EntryKindTeam, EventorRef: "2001", Name: "Lillomarka 1", Err: errors.New("duplicate row")},
		},
	})

	out := buf.String()
	assert.Contains(t, out, eventID.String())
	assert.Contains(t, out, "2 saved, 1 failed")
	assert.Contains(t, out, "Lillomarka 1")
	assert.Contains(t, out, "duplicate row")
}

func TestRenderEventors(t *testing.T) {
	var buf bytes.Buffer

	renderEventors(&buf, []domain.Eventor{{ID: "NOR", Name: "Eventor Norge", Federation: "NOF", BaseURL: "https://eventor.orientering.no"}})

	assert.Contains(t, buf.String(), "Eventor Norge")
	assert.Contains(t, buf.String(), "https://eventor.orientering.no")
}

func TestNewSyncScheduler(t *testing.T) {
	conf := &config.AppConfig{Sync: &config.SyncConfig{Enabled: true, Interval: time.Minute, EventIDs: []string{uuid.NewString()}}}

	s, err := newSyncScheduler(conf, nil)
	require.NoError(t, err)
	require.NoError(t, s.Shutdown())

	conf.Sync.EventIDs = []string{"not-a-uuid"}
	_, err = newSyncScheduler(conf, nil)
	require.Error(t, err)
}

func TestParseRef(t *testing.T) {
	ref, name, date, err := parseRef("1=Sprint@2026-05-01")
	require.NoError(t, err)
	assert.Equal(t, "1", ref)
	assert.Equal(t, "Sprint", name)
	require.NotNil(t, date)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), *date)

	ref, name, date, err = parseRef(" 2 = H 21 ")
	require.NoError(t, err)
	assert.Equal(t, "2", ref)
	assert.Equal(t, "H 21", name)
	assert.Nil(t, date)

	for _, bad := range []string{"H21", "=H21", "1=", "1=Long@tomorrow"} {
		_, _, _, err = parseRef(bad)
		assert.Error(t, err, bad)
	}
}

func TestRenderEvent(t *testing.T) {
	var buf bytes.Buffer
	date := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	event := domain.Event{ID: uuid.New(), Name: "Spring Cup", Classes: []domain.EventClass{{Name: "H21"}}}

	renderEvent(&buf, event, []domain.Race{{ID: uuid.New(), Name: "Sprint", Date: &date}})

	assert.Contains(t, buf.String(), "Spring Cup")
	assert.Contains(t, buf.String(), "2026-05-01")
}
