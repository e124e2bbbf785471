package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adammck/strider"
	"github.com/adammck/strider/components/controller"
	"github.com/adammck/strider/components/ik"
	"github.com/adammck/strider/components/legs"
	"github.com/adammck/strider/config"
	"github.com/adammck/strider/math3d"
	"github.com/adammck/strider/world"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	configPath = flag.String("config", "", "path to the config file")
	frames     = flag.Int("frames", 0, "stop after this many frames, or zero to run until interrupted")
	watch      = flag.Bool("watch", false, "rebuild when the config or script changes")
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "main",
})

// The script used when the config doesn't name one: walk forwards, and
// wander left and right a bit.
const defaultScript = `
math := import("math")
speed := 120
turn := math.sin(t / 2) * 30
`

func main() {
	flag.Parse()

	f, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("error loading config: %s\n", err)
		os.Exit(1)
	}

	setupLogging(f)

	// Catch both SIGINT (ctrl+c) and SIGTERM (kill/systemd).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, f); err != nil {
		log.Errorf("exiting: %s", err)
		os.Exit(1)
	}
}

func setupLogging(f config.File) {
	lvl, err := logrus.ParseLevel(f.LogLevel)
	if err == nil {
		logrus.SetLevel(lvl)
	}

	if f.LogJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func run(ctx context.Context, f config.File) error {
	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)
	reload := make(chan struct{}, 1)

	if *watch && *configPath != "" {
		w, err := config.Watch(*configPath, f.Script)
		if err != nil {
			cancel()
			return fmt.Errorf("watch: %w", err)
		}

		g.Go(func() error {
			defer w.Close()
			for {
				select {
				case <-ctx.Done():
					return nil
				case name, ok := <-w.Events:
					if !ok {
						return nil
					}
					log.Infof("changed: %s", name)
					select {
					case reload <- struct{}{}:
					default:
					}
				case err, ok := <-w.Errors:
					if !ok {
						return nil
					}
					log.Warnf("watch: %s", err)
				}
			}
		})
	}

	g.Go(func() error {
		defer cancel()
		return loop(ctx, f, reload)
	})

	return g.Wait()
}

// sim is everything which is rebuilt when the config changes.
type sim struct {
	world *world.World
	char  *strider.Character
	actor *world.Actor
	legs  *legs.Legs
	ik    *ik.IK
	dt    float64
}

func build(f config.File) (*sim, error) {
	w, err := world.Build(f.World)
	if err != nil {
		return nil, err
	}

	c := f.Character
	char := strider.NewCharacter(c.Position, c.Clearance)
	for ref, p := range c.Joints {
		char.Joints[ref] = p
	}

	// The character's own box sits above its feet, so legs can't stand on it.
	s := &sim{
		world: w,
		char:  char,
		dt:    1 / f.FrameRate,
	}

	if c.Width > 0 && c.Height > 0 {
		s.actor = w.AddActor(c.Position, c.Width, c.Height)
		char.Body = s.actor.Surface
	}

	var ctrl *controller.Controller
	if f.Script != "" {
		ctrl, err = controller.Load(char, f.Script)
	} else {
		ctrl, err = controller.New(char, []byte(defaultScript))
	}
	if err != nil {
		return nil, err
	}

	s.legs = legs.New(f.Legs, char, w, legs.WithListener(&eventLog{}), legs.WithSource(char.ID))
	if err := s.legs.Err(); err != nil {
		return nil, err
	}

	s.ik = ik.New(char, s.legs, c.Chains)

	char.Add(ctrl)
	char.Add(s.legs)
	char.Add(s.ik)

	log.Infof("booting character=%s", char.ID)
	if err := char.Boot(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *sim) step(now time.Time) error {
	s.world.Step(s.dt)
	s.char.Move(s.dt, s.world)
	if s.actor != nil {
		s.actor.Place(s.char.Position)
	}

	if err := s.char.Tick(now, s.dt); err != nil {
		return err
	}

	s.legs.Flush()
	return nil
}

func (s *sim) summary() {
	p := s.legs.Pose()
	m := s.legs.Motion()

	planted := 0
	for _, g := range s.legs.Groups() {
		if !g.Unplanted {
			planted++
		}
	}

	log.WithFields(logrus.Fields{
		"pos":     s.char.Position,
		"heading": fmt.Sprintf("%0.1f", s.char.Heading),
		"speed":   fmt.Sprintf("%0.1f", m.Speed),
		"planted": planted,
		"body":    p.BodyRotation,
		"falling": s.legs.Falling(),
	}).Info("tick")
}

func loop(ctx context.Context, f config.File, reload <-chan struct{}) error {
	s, err := build(f)
	if err != nil {
		return err
	}

	t := time.NewTicker(time.Duration(float64(time.Second) / f.FrameRate))
	defer t.Stop()

	n := 0
	every := int(f.FrameRate)

	log.Info("starting loop")
	for {
		select {
		case <-ctx.Done():
			log.Info("caught signal, shutting down")
			return nil

		case <-reload:
			nf, err := config.Load(*configPath)
			if err != nil {
				log.Warnf("keeping old config: %s", err)
				continue
			}

			ns, err := build(nf)
			if err != nil {
				log.Warnf("keeping old config: %s", err)
				continue
			}

			// Carry on from where the old character was.
			ns.char.Position = s.char.Position
			ns.char.Heading = s.char.Heading
			s, f = ns, nf
			setupLogging(f)
			t.Reset(time.Duration(float64(time.Second) / f.FrameRate))
			every = int(f.FrameRate)
			log.Info("rebuilt")

		case now := <-t.C:
			if err := s.step(now); err != nil {
				return err
			}

			n += 1
			if every > 0 && n%every == 0 {
				s.summary()
			}

			if s.char.Shutdown {
				log.Info("shutdown requested")
				return nil
			}

			if *frames > 0 && n >= *frames {
				s.summary()
				return nil
			}
		}
	}
}

// eventLog logs every step event.
type eventLog struct{}

func (eventLog) FootRaised(leg int, joint string, pos math3d.Vector3) {
	log.WithFields(logrus.Fields{"leg": leg, "joint": joint, "pos": pos}).Debug("foot raised")
}

func (eventLog) FootPlanted(leg int, joint string, pos math3d.Vector3) {
	log.WithFields(logrus.Fields{"leg": leg, "joint": joint, "pos": pos}).Debug("foot planted")
}

func (eventLog) GroupRaised(group int, avg math3d.Vector3) {
	log.WithFields(logrus.Fields{"group": group, "pos": avg}).Debug("group raised")
}

func (eventLog) GroupPlanted(group int, avg math3d.Vector3) {
	log.WithFields(logrus.Fields{"group": group, "pos": avg}).Debug("group planted")
}

func (eventLog) Landed(pos math3d.Vector3) {
	log.WithFields(logrus.Fields{"pos": pos}).Info("landed")
}
