package alert

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afroash/dht-alert/internal/led/ledtest"
	"github.com/afroash/dht-alert/internal/models"
)

const threshold models.Temperature = 350

func newTestController(t *testing.T) (*Controller, *ledtest.Recorder, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	rec := &ledtest.Recorder{}
	c := NewController(threshold, rec, zerolog.New(&buf))
	return c, rec, &buf
}

func logLines(buf *bytes.Buffer) []string {
	s := strings.TrimSpace(buf.String())
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestController_RaiseFromOff(t *testing.T) {
	for _, temp := range []models.Temperature{351, 362, 600, 32767} {
		c, rec, buf := newTestController(t)

		require.Equal(t, CommandOn, c.Apply(temp))
		assert.True(t, c.State().Active)
		assert.Equal(t, []ledtest.Level{ledtest.High}, rec.Writes)
		require.Len(t, logLines(buf), 1)
		assert.Contains(t, buf.String(), "alert raised")
	}
}

func TestController_ClearFromOn(t *testing.T) {
	for _, temp := range []models.Temperature{350, 349, 0, -400, -32768} {
		c, rec, buf := newTestController(t)
		c.Apply(400)
		rec.Reset()
		buf.Reset()

		require.Equal(t, CommandOff, c.Apply(temp))
		assert.False(t, c.State().Active)
		assert.Equal(t, []ledtest.Level{ledtest.Low}, rec.Writes)
		require.Len(t, logLines(buf), 1)
		assert.Contains(t, buf.String(), "alert cleared")
	}
}

func TestController_SteadyStateIsIdempotent(t *testing.T) {
	c, rec, buf := newTestController(t)

	c.Apply(362)
	for i := 0; i < 5; i++ {
		assert.Equal(t, CommandNone, c.Apply(362))
	}
	assert.Equal(t, []ledtest.Level{ledtest.High}, rec.Writes)
	assert.Len(t, logLines(buf), 1)

	c.Apply(200)
	for i := 0; i < 5; i++ {
		assert.Equal(t, CommandNone, c.Apply(200))
	}
	assert.Equal(t, []ledtest.Level{ledtest.High, ledtest.Low}, rec.Writes)
	assert.Len(t, logLines(buf), 2)
}

func TestController_ThresholdIsNormal(t *testing.T) {
	c, rec, _ := newTestController(t)

	assert.Equal(t, CommandNone, c.Apply(threshold))
	assert.False(t, c.State().Active)
	assert.Empty(t, rec.Writes)

	c.Apply(threshold + 1)
	assert.Equal(t, CommandOff, c.Apply(threshold))
	assert.False(t, c.State().Active)
}

func TestController_Sequence(t *testing.T) {
	c, rec, _ := newTestController(t)

	var got []Command
	for _, temp := range []models.Temperature{200, 362, 360, 349} {
		got = append(got, c.Apply(temp))
	}

	assert.Equal(t, []Command{CommandNone, CommandOn, CommandNone, CommandOff}, got)
	assert.Equal(t, []ledtest.Level{ledtest.High, ledtest.Low}, rec.Writes)
	assert.False(t, c.State().Active)
}

func TestController_FirstReadingBelowThreshold(t *testing.T) {
	c, rec, buf := newTestController(t)

	assert.Equal(t, CommandNone, c.Apply(215))
	assert.Empty(t, rec.Writes)
	assert.Empty(t, logLines(buf))
}

func TestController_DecideDoesNotMutate(t *testing.T) {
	c, rec, _ := newTestController(t)

	assert.Equal(t, CommandOn, c.Decide(400))
	assert.Equal(t, CommandOn, c.Decide(400))
	assert.False(t, c.State().Active)
	assert.Empty(t, rec.Writes)
}

func TestController_WriteFailureKeepsState(t *testing.T) {
	c, rec, buf := newTestController(t)
	rec.Fail = true

	assert.Equal(t, CommandNone, c.Apply(400))
	assert.False(t, c.State().Active)
	assert.Contains(t, buf.String(), "failed to raise alert")

	rec.Fail = false
	assert.Equal(t, CommandOn, c.Apply(400))
	assert.True(t, c.State().Active)
}

func TestController_Restore(t *testing.T) {
	c, rec, _ := newTestController(t)

	c.Restore()
	assert.Empty(t, rec.Writes)

	c.Apply(400)
	rec.Reset()
	c.Restore()
	assert.Equal(t, []ledtest.Level{ledtest.High}, rec.Writes)
	assert.True(t, c.State().Active)
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "none", CommandNone.String())
	assert.Equal(t, "on", CommandOn.String())
	assert.Equal(t, "off", CommandOff.String())
	assert.Equal(t, "unknown", Command(42).String())
}

func TestController_Actuator(t *testing.T) {
	c, rec, _ := newTestController(t)
	assert.Same(t, rec, c.Actuator())
}
