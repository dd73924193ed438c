package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repo "github.com/oksasatya/servicemart/internal/domain/repository"
	"github.com/oksasatya/servicemart/internal/infrastructure/memory"
)

func TestSeedIsRepeatable(t *testing.T) {
	ctx := context.Background()
	repos := memory.New().Set()

	require.NoError(t, seed(ctx, repos))
	require.NoError(t, seed(ctx, repos))

	jts, err := repos.JobTypes.List(ctx)
	require.NoError(t, err)
	assert.Len(t, jts, len(jobTypes))

	_, total, err := repos.Products.List(ctx, repo.ProductFilter{Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}
