package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"github.com/veltra-services/fieldservice-api/internal/repository"
	"github.com/veltra-services/fieldservice-api/tests/testutil"
)

func TestNumberSequence_NextNumber(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()

	first, err := repo.NextNumber(ctx, domain.SequenceScopeWorkOrder)
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := repo.NextNumber(ctx, domain.SequenceScopeWorkOrder)
	require.NoError(t, err)
	assert.Equal(t, 2, second)

	third, err := repo.NextNumber(ctx, domain.SequenceScopeWorkOrder)
	require.NoError(t, err)
	assert.Equal(t, 3, third)
}

func TestNumberSequence_ScopesAreIndependent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		n, err := repo.NextNumber(ctx, domain.SequenceScopeWorkOrder)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	n, err := repo.NextNumber(ctx, domain.SequenceScopeInvoice)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "invoice scope starts fresh regardless of work order scope")
}

func TestNumberSequence_CurrentNumber(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()

	current, err := repo.CurrentNumber(ctx, domain.SequenceScopeInvoice)
	require.NoError(t, err)
	assert.Equal(t, 0, current, "missing sequence reads as zero")

	_, err = repo.NextNumber(ctx, domain.SequenceScopeInvoice)
	require.NoError(t, err)

	current, err = repo.CurrentNumber(ctx, domain.SequenceScopeInvoice)
	require.NoError(t, err)
	assert.Equal(t, 1, current)
}

func TestNumberSequence_EnsureAtLeast(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.EnsureAtLeast(ctx, domain.SequenceScopeWorkOrder, 100))

	n, err := repo.NextNumber(ctx, domain.SequenceScopeWorkOrder)
	require.NoError(t, err)
	assert.Equal(t, 101, n)

	// Never lowers
	require.NoError(t, repo.EnsureAtLeast(ctx, domain.SequenceScopeWorkOrder, 5))
	n, err = repo.NextNumber(ctx, domain.SequenceScopeWorkOrder)
	require.NoError(t, err)
	assert.Equal(t, 102, n)
}
