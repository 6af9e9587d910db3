package course

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// HoleTargetKey is the lookup key distance measuring consumers use to find the
// hole target nested in the green complex.
const HoleTargetKey = "hole_target"

var upAxis = mgl64.Vec3{0, 1, 0}

// Instance is a placed template. Instances are created once and never moved.
type Instance struct {
	ID       uuid.UUID
	Template string
	Kind     string
	Key      string // lookup key, set on nested targets
	Position mgl64.Vec3
	Yaw      float64 // degrees about +Y
	Scale    float64
	Children []*Instance
}

// Rotation returns the yaw as a quaternion about the vertical axis.
func (i *Instance) Rotation() mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(i.Yaw), upAxis)
}

// Scene holds everything placed on the course.
type Scene struct {
	mu        sync.RWMutex
	instances []*Instance
	named     map[string]*Instance
}

func NewScene() *Scene {
	return &Scene{named: make(map[string]*Instance)}
}

// Add appends a root instance.
func (s *Scene) Add(inst *Instance) {
	if inst == nil {
		return
	}
	s.mu.Lock()
	s.instances = append(s.instances, inst)
	s.mu.Unlock()
}

// Register exposes inst under key, replacing any previous holder.
func (s *Scene) Register(key string, inst *Instance) {
	if key == "" || inst == nil {
		return
	}
	s.mu.Lock()
	s.named[key] = inst
	s.mu.Unlock()
}

func (s *Scene) Lookup(key string) (*Instance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.named[key]
	return inst, ok
}

// Instances returns the root instances in placement order.
func (s *Scene) Instances() []*Instance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dup := make([]*Instance, len(s.instances))
	copy(dup, s.instances)
	return dup
}

// CountKind counts root instances of a template kind.
func (s *Scene) CountKind(kind string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, inst := range s.instances {
		if inst.Kind == kind {
			n++
		}
	}
	return n
}

func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.instances)
}

// Reset drops all instances and lookup keys. Used before a course load
// replaces the scene wholesale.
func (s *Scene) Reset() {
	s.mu.Lock()
	s.instances = nil
	s.named = make(map[string]*Instance)
	s.mu.Unlock()
}
