package controller

import (
	"fmt"
	"os"
	"time"

	"github.com/adammck/strider"
	"github.com/adammck/strider/math3d"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "controller",
})

// Controller drives a character from a script, which is run once per tick.
// The script sees:
//
//	t          seconds since boot
//	dt         seconds since the last tick
//	supported  false while the character is falling
//
// and may define:
//
//	speed      forward speed, in units/s
//	turn       rate of turn, in degrees/s (positive is to the right)
//	shutdown   true to stop the character
//
// Anything left undefined is treated as zero (or false).
type Controller struct {
	char     *strider.Character
	compiled *tengo.Compiled
	elapsed  float64
}

// New compiles src, and returns a controller which runs it against char.
func New(char *strider.Character, src []byte) (*Controller, error) {
	script := tengo.NewScript(src)
	_ = script.Add("t", 0.0)
	_ = script.Add("dt", 0.0)
	_ = script.Add("supported", true)

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("controller: compile: %w", err)
	}

	return &Controller{
		char:     char,
		compiled: compiled,
	}, nil
}

// Load reads a script from path and compiles it.
func Load(char *strider.Character, path string) (*Controller, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("controller: load %s: %w", path, err)
	}

	c, err := New(char, src)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}

	return c, nil
}

func (c *Controller) Boot() error {
	log.Infof("booting character=%s", c.char.ID)
	c.elapsed = 0
	return nil
}

func (c *Controller) Tick(now time.Time, dt float64) error {
	c.elapsed += dt

	if err := c.compiled.Set("t", c.elapsed); err != nil {
		return err
	}

	if err := c.compiled.Set("dt", dt); err != nil {
		return err
	}

	if err := c.compiled.Set("supported", c.char.Supported()); err != nil {
		return err
	}

	if err := c.compiled.Run(); err != nil {
		return fmt.Errorf("controller: run: %w", err)
	}

	speed := c.float("speed")
	turn := c.float("turn")

	// Can't steer in the air.
	if c.char.Supported() {
		c.char.Heading = math3d.NormalizeAngle(c.char.Heading + turn*dt)
		fwd := c.char.World().Forward()
		c.char.Movement = math3d.Vector3{X: fwd.X, Y: fwd.Y}.Unit().MultiplyByScalar(speed)
	}

	if c.compiled.IsDefined("shutdown") && c.compiled.Get("shutdown").Bool() {
		if !c.char.Shutdown {
			log.Info("script requested shutdown")
		}

		c.char.Shutdown = true
	}

	return nil
}

func (c *Controller) float(name string) float64 {
	if !c.compiled.IsDefined(name) {
		return 0
	}

	return c.compiled.Get(name).Float()
}
