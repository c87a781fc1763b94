package engine

import (
	"time"

	"github.com/noah-isme/neuroathlete-api/internal/models"
)

func ptr(v float64) *float64 { return &v }

var testLoc = time.UTC

func day(offset int) time.Time {
	return time.Date(2024, 3, 15, 10, 0, 0, 0, testLoc).AddDate(0, 0, offset)
}

func sessionAt(testID string, start time.Time, results models.TestResults) models.TestSession {
	return models.TestSession{
		ID:         start.Format(time.RFC3339Nano) + testID,
		TestID:     testID,
		StartTime:  start,
		EndTime:    start.Add(time.Minute),
		Results:    results,
		Conditions: models.SessionConditions{TimeOfDay: models.TimeOfDayAt(start), FatigueLevel: 3},
	}
}

func categoryLookup(c Catalog) CategoryLookup {
	return func(id string) (models.TestCategory, bool) {
		t, ok := c.Test(id)
		return t.Category, ok
	}
}
