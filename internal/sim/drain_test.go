package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kurb-simulator/peripheral/internal/device"
	"github.com/kurb-simulator/peripheral/internal/gatt"
)

func newDrain(step, batteryLevel int) (*DrainScheduler, *device.Core) {
	core := device.NewCore(device.NewClock(), batteryLevel)
	bridge := gatt.NewBridge(core, nil, nil)
	return NewDrainScheduler(bridge, time.Second, step), core
}

func TestTickDrainsByStep(t *testing.T) {
	drain, core := newDrain(7, 100)

	drain.tick()
	assert.Equal(t, 93, core.Battery())

	drain.tick()
	assert.Equal(t, 86, core.Battery())
}

func TestTickFloorsAtZero(t *testing.T) {
	drain, core := newDrain(7, 5)

	drain.tick()
	assert.Equal(t, 0, core.Battery())

	// An empty battery stays empty.
	drain.tick()
	assert.Equal(t, 0, core.Battery())
}

func TestStartWithZeroStepIsNoop(t *testing.T) {
	drain, core := newDrain(0, 50)

	assert.NoError(t, drain.Start())
	assert.Equal(t, 50, core.Battery())
}
