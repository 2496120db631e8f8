package log

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestToFieldsPairs(t *testing.T) {
	fields := toFields("entity", "Brakes", "severity", 2, "pending", true)
	assert.Len(t, fields, 3)
	assert.Equal(t, zap.String("entity", "Brakes"), fields[0])
	assert.Equal(t, zap.Int("severity", 2), fields[1])
	assert.Equal(t, zap.Bool("pending", true), fields[2])
}

func TestToFieldsBareError(t *testing.T) {
	err := errors.New("broker unreachable")
	fields := toFields(err, "attempt", 3)
	assert.Len(t, fields, 2)
	assert.Equal(t, zap.Error(err), fields[0])
}

func TestToFieldsPassthrough(t *testing.T) {
	f := zap.Duration("elapsed", time.Second)
	fields := toFields(f, "topic", "sovd/v1/data/Brakes")
	assert.Len(t, fields, 2)
	assert.Equal(t, f, fields[0])
}

func TestToFieldsDegenerateInput(t *testing.T) {
	assert.Nil(t, toFields())

	// Odd trailing argument is kept under a synthetic key.
	fields := toFields("key", "val", "dangling")
	assert.Len(t, fields, 2)
	assert.Equal(t, "extra", fields[1].Key)

	// Non-string keys do not drop their values.
	fields = toFields(42, "meaning")
	assert.Len(t, fields, 2)
	for _, f := range fields {
		assert.NotEmpty(t, f.Key)
	}
}

func TestToFieldsTypedValues(t *testing.T) {
	now := time.Now()
	fields := toFields(
		"at", now,
		"took", 250*time.Millisecond,
		"payload", []byte{0x01},
		"cause", errors.New("timeout"),
	)
	assert.Equal(t, []zap.Field{
		zap.Time("at", now),
		zap.Duration("took", 250*time.Millisecond),
		zap.Binary("payload", []byte{0x01}),
		zap.NamedError("cause", errors.New("timeout")),
	}, fields)
}
