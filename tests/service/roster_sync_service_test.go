package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veltra-services/fieldservice-api/internal/directory"
	"github.com/veltra-services/fieldservice-api/internal/repository"
	"github.com/veltra-services/fieldservice-api/internal/service"
	"github.com/veltra-services/fieldservice-api/tests/testutil"
)

type fakeRosterSource struct {
	records []directory.TechnicianRecord
	err     error
}

func (f *fakeRosterSource) ActiveTechnicians(ctx context.Context) ([]directory.TechnicianRecord, error) {
	return f.records, f.err
}

func TestRosterSync_CreatesNewTradesmen(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTradesmanRepository(db)
	ctx := context.Background()

	source := &fakeRosterSource{records: []directory.TechnicianRecord{
		{EmployeeNumber: "E001", FullName: "Ola Hansen", JobTitle: "Plumber", Email: "ola@example.com", Phone: "11111111"},
		{EmployeeNumber: "E002", FullName: "Kari Nordmann", JobTitle: "Electrician", Email: "kari@example.com"},
	}}
	svc := service.NewRosterSyncService(source, repo, testutil.Logger())

	result, err := svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Seen)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 0, result.Failed)

	created, err := repo.GetByEmail(ctx, "ola@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ola Hansen", created.Name)
	assert.Equal(t, "Plumber", created.JobTitle)
}

func TestRosterSync_SkipsExistingEmails(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTradesmanRepository(db)
	ctx := context.Background()

	source := &fakeRosterSource{records: []directory.TechnicianRecord{
		{EmployeeNumber: "E001", FullName: "Ola Hansen", Email: "ola@example.com"},
	}}
	svc := service.NewRosterSyncService(source, repo, testutil.Logger())

	first, err := svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created)

	second, err := svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Skipped, "re-running the sync never duplicates")
}

func TestRosterSync_SkipsRowsWithoutEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTradesmanRepository(db)

	source := &fakeRosterSource{records: []directory.TechnicianRecord{
		{EmployeeNumber: "E001", FullName: "No Email"},
		{EmployeeNumber: "E002", FullName: "Kari Nordmann", Email: "kari@example.com"},
	}}
	svc := service.NewRosterSyncService(source, repo, testutil.Logger())

	result, err := svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Seen)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Skipped)
}

func TestRosterSync_IsAdditiveOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTradesmanRepository(db)
	ctx := context.Background()

	// A local tradesman the directory knows nothing about
	local := testutil.CreateTestTradesman(t, db, "Local Only")

	source := &fakeRosterSource{records: []directory.TechnicianRecord{
		{EmployeeNumber: "E001", FullName: "Ola Hansen", Email: "ola@example.com"},
	}}
	svc := service.NewRosterSyncService(source, repo, testutil.Logger())

	_, err := svc.Sync(ctx)
	require.NoError(t, err)

	kept, err := repo.GetByID(ctx, local.ID)
	require.NoError(t, err)
	assert.Equal(t, "Local Only", kept.Name)
}

func TestRosterSync_SourceFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTradesmanRepository(db)

	source := &fakeRosterSource{err: errors.New("connection refused")}
	svc := service.NewRosterSyncService(source, repo, testutil.Logger())

	_, err := svc.Sync(context.Background())
	assert.Error(t, err)
}
