package util

import (
	"StreamHub/internal/api/dto"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDTO(t *testing.T) {
	assert.NoError(t, ValidateDTO(&dto.TrendingQueryDTO{}))
	assert.NoError(t, ValidateDTO(&dto.TrendingQueryDTO{Period: "weekly", Limit: 20}))
	assert.NoError(t, ValidateDTO(&dto.TrendingRecomputeReqDTO{Period: "monthly", Category: "music"}))

	err := ValidateDTO(&dto.TrendingQueryDTO{Period: "hourly"})
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "Period", vErr.Field)
	assert.Equal(t, "oneof", vErr.Tag)

	err = ValidateDTO(&dto.TrendingRecomputeReqDTO{})
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "required", vErr.Tag)

	err = ValidateDTO(&dto.TrendingQueryDTO{Limit: 501})
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "Limit", vErr.Field)
}
