package facility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFacility() Facility {
	return Facility{
		ID:          "f-1",
		Name:        "Watertappunt Vondelpark",
		Description: "Openbaar tappunt bij de ingang",
		Longitude:   4.8687,
		Latitude:    52.3579,
	}
}

func TestFacility_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Facility)
		wantErr string
	}{
		{
			name:   "valid record",
			mutate: func(*Facility) {},
		},
		{
			name:    "empty name",
			mutate:  func(f *Facility) { f.Name = "" },
			wantErr: "naam is required",
		},
		{
			name:    "whitespace name",
			mutate:  func(f *Facility) { f.Name = "   " },
			wantErr: "naam is required",
		},
		{
			name:    "longitude too low",
			mutate:  func(f *Facility) { f.Longitude = -180.01 },
			wantErr: "longitude must be between -180 and 180",
		},
		{
			name:    "longitude too high",
			mutate:  func(f *Facility) { f.Longitude = 180.01 },
			wantErr: "longitude must be between -180 and 180",
		},
		{
			name:    "latitude too low",
			mutate:  func(f *Facility) { f.Latitude = -90.5 },
			wantErr: "latitude must be between -90 and 90",
		},
		{
			name:    "latitude too high",
			mutate:  func(f *Facility) { f.Latitude = 90.5 },
			wantErr: "latitude must be between -90 and 90",
		},
		{
			name: "boundary coordinates are valid",
			mutate: func(f *Facility) {
				f.Longitude = -180
				f.Latitude = 90
			},
		},
		{
			name: "zero coordinates are valid",
			mutate: func(f *Facility) {
				f.Longitude = 0
				f.Latitude = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFacility()
			tt.mutate(&f)

			err := f.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestFacility_IsDraft(t *testing.T) {
	assert.True(t, Facility{Name: "nieuw"}.IsDraft())
	assert.False(t, validFacility().IsDraft())
}
