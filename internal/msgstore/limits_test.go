package msgstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateCost(t *testing.T) {
	tests := []struct {
		name  string
		count uint64
		op    OperationType
		want  uint64
	}{
		{"store 10", 10, OpStore, 21000 + 25000*10},
		{"store at limit", 50, OpStore, 21000 + 25000*50},
		{"retrieve 25", 25, OpRetrieve, 21000 + 5000*25},
		{"retrieve at limit", 100, OpRetrieve, 521000},
		{"remove 5", 5, OpRemove, 21000 + 20000*5},
		{"single store", 1, OpStore, 46000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DefaultLimits.EstimateCost(tt.count, tt.op)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEstimateCost_Errors(t *testing.T) {
	tests := []struct {
		name  string
		count uint64
		op    OperationType
		code  ErrorCode
	}{
		{"zero count", 0, OpStore, CodeInvalidCount},
		{"zero count wins over bad type", 0, OperationType(9), CodeInvalidCount},
		{"unknown type", 1, OperationType(3), CodeInvalidOperationType},
		{"too many stores", 51, OpStore, CodeTooMany},
		{"too many retrieves", 101, OpRetrieve, CodeTooMany},
		{"too many removes", 51, OpRemove, CodeTooMany},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DefaultLimits.EstimateCost(tt.count, tt.op)
			require.Error(t, err)
			assert.Equal(t, tt.code, CodeOf(err))
		})
	}
}

func TestEstimateCost_TracksStoreLimits(t *testing.T) {
	s := New()
	lim := s.Limits()

	_, err := s.EstimateCost(uint64(lim.MaxStore), OpStore)
	require.NoError(t, err)
	_, err = s.EstimateCost(uint64(lim.MaxStore)+1, OpStore)
	assert.True(t, IsCode(err, CodeTooMany))

	_, err = s.EstimateCost(uint64(lim.MaxRetrieve), OpRetrieve)
	require.NoError(t, err)
	_, err = s.EstimateCost(uint64(lim.MaxRetrieve)+1, OpRetrieve)
	assert.True(t, IsCode(err, CodeTooMany))
}

func TestParseOperationType(t *testing.T) {
	tests := []struct {
		in   string
		want OperationType
	}{
		{"store", OpStore},
		{"Retrieve", OpRetrieve},
		{" remove ", OpRemove},
		{"0", OpStore},
		{"1", OpRetrieve},
		{"2", OpRemove},
		{"7", OperationType(7)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOperationType(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseOperationType("delete")
	assert.True(t, IsCode(err, CodeInvalidOperationType))
}

func TestOperationType_String(t *testing.T) {
	assert.Equal(t, "store", OpStore.String())
	assert.Equal(t, "retrieve", OpRetrieve.String())
	assert.Equal(t, "remove", OpRemove.String())
	assert.Equal(t, "OperationType(5)", OperationType(5).String())
}

func TestLimits_MaxPageSize(t *testing.T) {
	assert.Equal(t, 50, DefaultLimits.MaxPageSize())
}
