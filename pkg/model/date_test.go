package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type dateHolder struct {
	D Date `bson:"d"`
}

func TestDate_BSONRoundTrip(t *testing.T) {
	when := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

	data, err := bson.Marshal(dateHolder{D: NewDate(when)})
	require.NoError(t, err)

	raw := bson.Raw(data).Lookup("d")
	assert.Equal(t, bson.TypeDateTime, raw.Type)

	var got dateHolder
	require.NoError(t, bson.Unmarshal(data, &got))
	assert.True(t, when.Equal(got.D.Time))
}

func TestDate_BSONZeroIsNull(t *testing.T) {
	data, err := bson.Marshal(dateHolder{})
	require.NoError(t, err)
	assert.Equal(t, bson.TypeNull, bson.Raw(data).Lookup("d").Type)

	got := dateHolder{D: NewDate(time.Now())}
	require.NoError(t, bson.Unmarshal(data, &got))
	assert.True(t, got.D.IsZero())
}

func TestDate_BSONDecodesLegacyStrings(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{"plain date", "2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"rfc3339", "2024-05-01T08:00:00+02:00", time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)},
		{"empty", "", time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := bson.Marshal(bson.M{"d": tt.value})
			require.NoError(t, err)

			var got dateHolder
			require.NoError(t, bson.Unmarshal(data, &got))
			assert.True(t, tt.want.Equal(got.D.Time), "got %v", got.D.Time)
		})
	}
}

func TestDate_BSONRejectsOtherTypes(t *testing.T) {
	data, err := bson.Marshal(bson.M{"d": int32(20240501)})
	require.NoError(t, err)

	var got dateHolder
	assert.Error(t, bson.Unmarshal(data, &got))
}
