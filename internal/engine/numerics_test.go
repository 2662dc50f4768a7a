package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/temcen/pirex/pkg/models"
)

func TestNormalize_BoundaryValues(t *testing.T) {
	assert.Equal(t, 0.0, normalize(1))
	assert.Equal(t, 1.0, normalize(10))
	assert.Equal(t, 0.0, normalize(0))
	assert.Equal(t, 1.0, normalize(11))
	assert.InDelta(t, 0.5, normalize(5.5), 1e-9)
}

func TestRatingVariance_S5(t *testing.T) {
	assert.InDelta(t, 2.667, ratingVariance([]float64{5, 7, 3}), 1e-3)
	assert.Equal(t, 0.0, ratingVariance([]float64{5}))
	assert.Equal(t, 0.0, ratingVariance(nil))
}

func action(itemID int, at string) models.Action {
	ts, err := time.Parse("15:04", at)
	if err != nil {
		panic(err)
	}
	return models.Action{ItemID: itemID, Timestamp: ts}
}

func TestGroupBySessions_S4(t *testing.T) {
	actions := []models.Action{action(1, "10:00"), action(2, "10:15"), action(3, "11:00")}
	sessions := groupBySessions(actions, 30*time.Minute)
	if assert.Len(t, sessions, 2) {
		assert.Len(t, sessions[0], 2)
		assert.Len(t, sessions[1], 1)
	}

	tight := []models.Action{action(1, "10:00"), action(2, "10:29")}
	sessions = groupBySessions(tight, 30*time.Minute)
	if assert.Len(t, sessions, 1) {
		assert.Len(t, sessions[0], 2)
	}
}

func TestGroupBySessions_Empty(t *testing.T) {
	assert.Nil(t, groupBySessions(nil, 30*time.Minute))
}
