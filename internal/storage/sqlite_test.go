package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.CreateSchema())
	return db
}

func sampleRun(id string, startedAt time.Time) report.Run {
	return report.Run{
		ID:        id,
		StartedAt: startedAt,
		Source:    "snapshots/acme",
		Currency:  "USD",
		AsOf:      time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		Version:   report.Version,
		Results: []report.UseCaseResult{
			{
				UseCase:     "ghost-order",
				Category:    "Billing & Usage Leakage",
				Healthy:     3,
				Leakage:     1,
				TotalImpact: decimal.NewFromInt(4400),
				Revenue:     decimal.NewFromInt(10000),
				Outcomes: []report.Outcome{
					{RecordID: "ord-1", Class: report.Leakage, Impact: decimal.NewFromInt(4400)},
				},
			},
		},
	}
}

func TestSaveLoadRun(t *testing.T) {
	db := testDB(t)
	run := sampleRun("run-1", time.Now().UTC())
	require.NoError(t, db.SaveRun(&run))

	got, err := db.LoadRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, run.Currency, got.Currency)
	require.Len(t, got.Results, 1)
	assert.Equal(t, "ghost-order", got.Results[0].UseCase)
	assert.Equal(t, "4400", got.Results[0].TotalImpact.String())
	require.Len(t, got.Results[0].Outcomes, 1)
	assert.Equal(t, report.Leakage, got.Results[0].Outcomes[0].Class)
}

func TestSaveRun_Upsert(t *testing.T) {
	db := testDB(t)
	run := sampleRun("run-1", time.Now().UTC())
	require.NoError(t, db.SaveRun(&run))

	run.Currency = "EUR"
	require.NoError(t, db.SaveRun(&run))

	got, err := db.LoadRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, "EUR", got.Currency)

	rows, err := db.ListRuns(10, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestListRunsAndLatest(t *testing.T) {
	db := testDB(t)
	older := sampleRun("run-old", time.Now().UTC().Add(-time.Hour))
	newer := sampleRun("run-new", time.Now().UTC())
	require.NoError(t, db.SaveRun(&older))
	require.NoError(t, db.SaveRun(&newer))

	rows, err := db.ListRuns(10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "run-new", rows[0].ID)
	assert.Equal(t, 1, rows[0].UseCases)

	latest, err := db.LoadLatestRun()
	require.NoError(t, err)
	assert.Equal(t, "run-new", latest.ID)

	ok, err := db.HasRun("run-old")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = db.HasRun("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListResults(t *testing.T) {
	db := testDB(t)
	run := sampleRun("run-1", time.Now().UTC())
	require.NoError(t, db.SaveRun(&run))

	items, err := db.ListResults("run-1", "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ghost-order", items[0].UseCase)
	assert.Equal(t, 1, items[0].Leakage)
	assert.Equal(t, "4400", items[0].TotalImpact.String())
	assert.Empty(t, items[0].Outcomes, "summary rows carry no outcomes")

	items, err = db.ListResults("run-1", "Billing & Usage Leakage")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	items, err = db.ListResults("run-1", "Nope")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestWaiverLifecycle(t *testing.T) {
	db := testDB(t)

	id, err := db.CreateWaiver("ghost-order", "ord-1", "", "credit agreed", "alice", time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	// expired waiver never shows up in the active list
	_, err = db.CreateWaiver("eternal-trial", "", "", "old", "alice", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	active, err := db.ListWaivers(true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "ghost-order", active[0].UseCase)
	assert.Equal(t, "ord-1", active[0].RecordID)
	assert.Nil(t, active[0].RevokedAt)

	all, err := db.ListWaivers(false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, db.RevokeWaiver(id))
	active, err = db.ListWaivers(true)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestUsersAndSessions(t *testing.T) {
	db := testDB(t)

	uid, err := db.CreateUser("alice", "$2a$10$hash", "admin")
	require.NoError(t, err)

	u, hash, err := db.GetUserByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, uid, u.ID)
	assert.Equal(t, "admin", u.Role)
	assert.Equal(t, "$2a$10$hash", hash)

	require.NoError(t, db.CreateSession(uid, "tok-1", time.Now().Add(time.Hour)))
	su, err := db.GetSession("tok-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", su.Username)

	require.NoError(t, db.DeleteSession("tok-1"))
	_, err = db.GetSession("tok-1")
	require.Error(t, err)

	// expired sessions are invisible
	require.NoError(t, db.CreateSession(uid, "tok-2", time.Now().Add(-time.Minute)))
	_, err = db.GetSession("tok-2")
	require.Error(t, err)

	require.NoError(t, db.LogAudit("alice", "login", "", map[string]any{"ip": "127.0.0.1"}))
}
