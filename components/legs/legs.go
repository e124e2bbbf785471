package legs

import (
	"fmt"
	"math"
	"time"

	"github.com/adammck/strider/components/legs/gait"
	"github.com/adammck/strider/math3d"
	"github.com/adammck/strider/utils"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/metric"
)

type State string

const (
	sWarmup   State = "sWarmup"
	sReady    State = "sReady"
	sDisabled State = "sDisabled"

	// The number of frames to wait before capturing the resting pose, so the
	// host has a chance to put the character where it belongs.
	settleFrames = 2
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "legs",
})

// LegOutput is the goal for one leg's IK chain.
type LegOutput struct {

	// World location of the foot.
	Location math3d.Vector3

	// World location the foot is headed for.
	Target math3d.Vector3

	// Foot rotation, in the character frame.
	Rotation mgl64.Quat

	// False when no ground was found under the foot, in which case the IK
	// should relax the leg.
	Enabled bool
}

// Pose is the output of a tick. A disabled or warming up engine returns the
// zero pose.
type Pose struct {
	Legs []LegOutput

	// Rotation and offset of the torso, relative to the character.
	BodyRotation math3d.Rotator
	BodyOffset   math3d.Vector3

	// The distance at which the IK should consider a goal reached.
	Precision float64
}

// Legs places the feet of a character with any number of legs, and derives
// the pose of its body from them.
type Legs struct {
	cfg   Config
	owner Body
	geo   Geometry

	speedCurve  gait.Curve
	heightCurve gait.Curve
	groupOf     []int
	radius      float64

	// The state that the engine is in.
	State        State
	stateCounter int
	err          error

	legs   []legState
	groups []groupState
	cursor int
	motion motionState
	body   bodyState
	dt     float64

	airborne utils.Latch
	grounded utils.Latch

	listener Listener
	queue    *queue
	source   uuid.UUID
	meter    metric.Meter
	metrics  *instruments
}

// Option configures optional collaborators of a Legs.
type Option func(*Legs)

// WithListener binds the receiver of step and landing events.
func WithListener(ls Listener) Option {
	return func(l *Legs) {
		l.listener = ls
	}
}

// WithMeter sets the meter which instruments are created on. By default, the
// global provider is used.
func WithMeter(m metric.Meter) Option {
	return func(l *Legs) {
		l.meter = m
	}
}

// WithSource sets the ID stamped onto every event.
func WithSource(id uuid.UUID) Option {
	return func(l *Legs) {
		l.source = id
	}
}

// New returns an engine for the given character. It never fails: if the
// config is invalid, the error is logged and a disabled engine is returned.
func New(cfg Config, owner Body, geo Geometry, opts ...Option) *Legs {
	l := &Legs{
		cfg:   cfg,
		owner: owner,
		geo:   geo,
		State: sWarmup,
		body:  newBodyState(),
	}

	for _, o := range opts {
		o(l)
	}

	l.metrics = newInstruments(l.meter)
	l.grounded.Set(true)

	if err := l.init(); err != nil {
		l.disable(err)
	}

	return l
}

func (l *Legs) init() error {
	if l.owner == nil || l.geo == nil {
		return fmt.Errorf("%w: body and geometry are required", ErrInvalidConfig)
	}

	if err := l.cfg.Validate(); err != nil {
		return err
	}

	var err error
	l.speedCurve, err = l.cfg.SpeedCurve.Curve()
	if err != nil {
		return err
	}

	l.heightCurve, err = l.cfg.HeightCurve.Curve()
	if err != nil {
		return err
	}

	l.groupOf = l.cfg.groupOf()
	l.radius = l.cfg.FallbackRadiusMultiplier * math.Max(l.cfg.StepDistanceForward, l.cfg.StepDistanceRight)
	l.legs = make([]legState, len(l.cfg.Legs))
	l.groups = make([]groupState, len(l.cfg.Groups))

	for i := range l.legs {
		l.legs[i].rotation = mgl64.QuatIdent()
	}

	if l.listener != nil {
		l.queue = &queue{}
	}

	return nil
}

func (l *Legs) SetState(s State) {
	log.Infof("state=%v", s)
	l.stateCounter = 0
	l.State = s
}

func (l *Legs) disable(err error) {
	log.Warnf("disabled: %s", err)
	l.err = err
	l.SetState(sDisabled)
}

// Err returns the reason that the engine was disabled, or nil.
func (l *Legs) Err() error {
	return l.err
}

// Boot restarts the warmup, so the resting pose is captured again a couple of
// frames from now. It never fails; a disabled engine stays disabled.
func (l *Legs) Boot() error {
	if l.State != sDisabled {
		l.SetState(sWarmup)
	}

	return nil
}

// Tick evaluates one frame. It's here to satisfy the component interface.
func (l *Legs) Tick(now time.Time, dt float64) error {
	l.Evaluate(dt)
	return nil
}

// Evaluate advances the engine by dt seconds and returns the new pose. It must
// not be called concurrently with itself.
func (l *Legs) Evaluate(dt float64) Pose {
	l.stateCounter += 1
	l.dt = dt

	switch l.State {
	case sDisabled:
		return Pose{}

	case sWarmup:
		if l.stateCounter <= settleFrames {
			return Pose{}
		}

		if err := l.capture(); err != nil {
			l.disable(err)
			return Pose{}
		}

		l.SetState(sReady)
		l.reset()
	}

	t := l.owner.Transform()
	supported := l.owner.Supported()

	if l.airborne.Run(!supported) {
		log.Warn("started falling")
		l.Reset()
	}

	if l.grounded.Run(supported) {
		log.Infof("landed at %s", t.Location)
		l.Reset()
		l.emit(Event{Kind: Landed, Leg: -1, Group: -1, Position: t.Location})
	}

	l.motion.sample(&l.cfg, t, l.owner.Velocity(), &l.body, dt)

	for i := range l.legs {
		l.legs[i].att.update()
	}

	for i := range l.legs {
		l.probe(i, t, dt)
	}

	if !l.falling() {
		l.unplant()
	}

	l.swing(t, dt)

	if !l.falling() {
		l.plant()
	}

	l.estimate(t, dt)

	return l.Pose()
}

// capture records the resting pose of every leg from the current joint
// locations.
func (l *Legs) capture() error {
	t := l.owner.Transform()
	hh := l.owner.HalfHeight()

	for i := range l.cfg.Legs {
		cfg := &l.cfg.Legs[i]
		leg := &l.legs[i]

		parent, ok := l.owner.Joint(cfg.ParentJoint)
		if !ok {
			return fmt.Errorf("%w: leg %d (%s): no joint %q", ErrInvalidLeg, i, cfg.Name, cfg.ParentJoint)
		}

		if _, ok := l.owner.Joint(cfg.TipJoint); !ok {
			return fmt.Errorf("%w: leg %d (%s): no joint %q", ErrInvalidLeg, i, cfg.Name, cfg.TipJoint)
		}

		leg.joint = t.InverseTransformLocation(parent)
		rel := leg.joint.Add(cfg.Offset)

		// Feet are assumed to rest at the bottom of the character.
		leg.rest = math3d.Vector3{X: rel.X, Y: rel.Y, Z: -hh}
		leg.length = rel.Z + hh
		if leg.length <= 0 {
			return fmt.Errorf("%w: leg %d (%s) has length %0.2f", ErrInvalidLeg, i, cfg.Name, leg.length)
		}

		p := t.TransformLocation(leg.rest)
		leg.foot = p
		leg.target = p
		leg.anchor = p

		leg.forward, leg.backward = classify(rel.X)
		leg.right, leg.left = classify(rel.Y)

		log.WithFields(logrus.Fields{
			"leg":    cfg.Name,
			"length": leg.length,
			"rest":   leg.rest,
		}).Debug("captured")
	}

	l.motion.capture(t)

	return nil
}

// classify returns whether an offset is on the positive side, the negative
// side, or (if near zero) both.
func classify(v float64) (pos bool, neg bool) {
	if math.Abs(v) <= 0.001 {
		return true, true
	}

	return v > 0, v < 0
}

// Reset re-probes every foothold, snaps the feet back to their resting
// positions, and plants every group. It does nothing until the warmup is over.
func (l *Legs) Reset() {
	if l.State != sReady {
		return
	}

	l.reset()
	l.metrics.reset()
	log.Info("reset")
}

func (l *Legs) reset() {
	t := l.owner.Transform()

	for i := range l.legs {
		l.probe(i, t, l.dt)
	}

	for i := range l.legs {
		leg := &l.legs[i]
		p := t.TransformLocation(leg.rest)
		leg.foot = p
		leg.anchor = p
		leg.att.attach(leg.hit.Surface, p)
	}

	l.cursor = 0
	for g := range l.groups {
		l.groups[g] = groupState{}
	}
}

// Flush delivers every queued event to the listener, oldest first, and
// returns how many there were. May be called from any goroutine, including
// while another is ticking, but not concurrently with itself.
func (l *Legs) Flush() int {
	if l.listener == nil || l.queue == nil {
		return 0
	}

	evs := l.queue.consume()
	for _, e := range evs {
		e.deliver(l.listener)
	}

	return len(evs)
}

// Pose returns the current output without advancing.
func (l *Legs) Pose() Pose {
	if l.State != sReady {
		return Pose{}
	}

	p := Pose{
		Legs:         make([]LegOutput, len(l.legs)),
		BodyRotation: l.body.rotation,
		BodyOffset:   l.body.offset,
		Precision:    l.cfg.Precision,
	}

	for i := range l.legs {
		leg := &l.legs[i]
		p.Legs[i] = LegOutput{
			Location: leg.foot,
			Target:   leg.target,
			Rotation: leg.rotation,
			Enabled:  leg.enabled,
		}
	}

	return p
}

// Ready returns true once the resting pose has been captured.
func (l *Legs) Ready() bool {
	return l.State == sReady
}

// Falling returns true while the character has no ground under it.
func (l *Legs) Falling() bool {
	return l.falling()
}

func (l *Legs) falling() bool {
	return l.airborne.Value()
}

// GroupStatus is a copy of the state of one leg group.
type GroupStatus struct {
	Unplanted bool
	Fraction  float64
}

// Groups returns the state of every leg group, in config order.
func (l *Legs) Groups() []GroupStatus {
	out := make([]GroupStatus, len(l.groups))
	for g, gs := range l.groups {
		out[g] = GroupStatus{Unplanted: gs.unplanted, Fraction: gs.fraction}
	}
	return out
}

// Cursor returns the index of the next group which may be raised.
func (l *Legs) Cursor() int {
	return l.cursor
}

// Motion is what was derived from the character's movement on the last tick.
type Motion struct {
	Speed        float64
	Forward      float64
	Right        float64
	YawDelta     float64
	StepLength   float64
	StepDuration float64
	ForwardAccel float64
	RightAccel   float64
}

func (l *Legs) Motion() Motion {
	m := &l.motion
	return Motion{
		Speed:        m.speed,
		Forward:      m.forward,
		Right:        m.right,
		YawDelta:     m.yawDelta,
		StepLength:   m.stepLength,
		StepDuration: m.stepDuration,
		ForwardAccel: m.forwardAccel,
		RightAccel:   m.rightAccel,
	}
}
