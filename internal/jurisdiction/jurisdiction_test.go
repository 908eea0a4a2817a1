package jurisdiction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		location string
		want     string
		resolved bool
	}{
		{"CA", "CA", true},
		{"tx", "TX", true},
		{"123 Main St, San Diego, CA 92101", "CA", true},
		{"500 Pine St, Seattle, WA 98101-1234", "WA", true},
		{"Austin, TX", "TX", true},
		{"Miami, FL, USA", "FL", true},
		{"Albany, New York", "NY", true},
		{"12 Washington Ave, Portland, Oregon", "OR", true},
		{"Charleston, West Virginia", "WV", true},
		{"Richmond, Virginia", "VA", true},
		{"somewhere in the mountains or by the sea", Generic, false},
		{"", Generic, false},
		{"Toronto, ON", Generic, false},
		{"san diego, ca 92101", "CA", true},
		{"Los Angeles, Ca", "CA", true},
		{"Los Angeles CA", "CA", true},
		{"Boise, idaho 83702, United States", "ID", true},
		{"12 Washington Ave, Springfield", Generic, false},
		{"40 Virginia St, Reno", Generic, false},
		{"Springfield 62701", Generic, false},
		{"USA", Generic, false},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			j := Resolve(tt.location)
			assert.Equal(t, tt.want, j.Code)
			assert.Equal(t, tt.resolved, j.Resolved)
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	loc := "1 Market St, San Francisco, California 94105"
	first := Resolve(loc)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Resolve(loc))
	}
	assert.Equal(t, "CA", first.Code)
}

func TestName(t *testing.T) {
	assert.Equal(t, "California", Name("ca"))
	assert.Equal(t, Unresolved.Name, Name(Generic))
	assert.True(t, Known("ny"))
	assert.False(t, Known("ZZ"))
}
