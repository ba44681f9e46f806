package nes

// Standard NES controller. The state of all 8 buttons is latched into a shift
// register when the CPU writes to $4016, then read back one bit per read,
// starting with button A.
type Controller struct {
	live  byte // Current button state, set by the host
	shift byte // Latched state being shifted out to the CPU
}

// Button bits, in the order they are shifted out to the CPU.
const (
	ButtonRight byte = 1 << iota
	ButtonLeft
	ButtonDown
	ButtonUp
	ButtonStart
	ButtonSelect
	ButtonB
	ButtonA
)

func NewController() *Controller {
	return &Controller{}
}

// SetState replaces the live button state. Each bit represents one button.
func (c *Controller) SetState(state byte) {
	c.live = state
}

// GetState returns the live button state.
func (c *Controller) GetState() byte {
	return c.live
}

// Write latches the live button state into the shift register.
func (c *Controller) Write(data byte) {
	c.shift = c.live
}

// Read returns the next button bit and shifts the register. Once all 8 buttons
// have been read, zeroes are returned until the next latch.
func (c *Controller) Read() byte {
	data := (c.shift & 0x80) >> 7
	c.shift <<= 1

	return data
}

// peek returns the next button bit without shifting.
func (c *Controller) peek() byte {
	return (c.shift & 0x80) >> 7
}
