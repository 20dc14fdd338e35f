package scene

import (
	"fmt"
	"sync"

	"cogentcore.org/core/base/errors"
	"github.com/Carmen-Shannon/oxy-spine/common"
)

const defaultMaxNodes = 1024

// ErrNodeCapacity is returned by NewNode when the scene holds its maximum number of nodes.
var ErrNodeCapacity = errors.New("scene: node capacity reached")

// ErrUnknownNode is returned when an operation names a node that does not exist.
var ErrUnknownNode = errors.New("scene: unknown node")

// node is one entry of the scene graph.
type node struct {
	id       uint64
	parent   uint64
	children []uint64
	local    common.Transform
	bone     bool
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.RWMutex

	name        string
	nodes       map[uint64]*node
	nextID      uint64
	maxNodes    int
	scaleAlongZ bool
}

// Scene is an in-memory scene graph: nodes with a local transform, an optional parent
// and a bone flag. World transforms are resolved on demand by composing parents.
//
// Children are kept newest first, so attaching nodes to a parent in reverse order
// yields children in creation order.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Count returns the number of live nodes.
	Count() int

	// ScaleAlongZ reports whether Z scale propagates from parents to children.
	ScaleAlongZ() bool

	// SetScaleAlongZ sets whether Z scale propagates from parents to children.
	//
	// Parameters:
	//   - scale: true to propagate Z scale
	SetScaleAlongZ(scale bool)

	// NewNode creates a root node with the given local transform.
	//
	// Parameters:
	//   - local: the local transform
	//
	// Returns:
	//   - uint64: the node id
	//   - error: ErrNodeCapacity when the scene is full
	NewNode(local common.Transform) (uint64, error)

	// DeleteNode removes a node. Its children become roots.
	//
	// Parameters:
	//   - id: the node id
	DeleteNode(id uint64)

	// Exists reports whether a node is live.
	//
	// Parameters:
	//   - id: the node id
	//
	// Returns:
	//   - bool: true if the node exists
	Exists(id uint64) bool

	// SetParent attaches child under parent, or makes it a root when parent is 0.
	//
	// Parameters:
	//   - child: the child node id
	//   - parent: the parent node id (0 for none)
	//
	// Returns:
	//   - error: ErrUnknownNode, or an error when the link would form a cycle
	SetParent(child, parent uint64) error

	// Parent returns the parent of a node (0 for roots and unknown nodes).
	Parent(id uint64) uint64

	// Children returns the children of a node, newest first.
	Children(id uint64) []uint64

	// SetBone flags a node as a bone proxy.
	//
	// Parameters:
	//   - id: the node id
	//   - bone: the bone flag
	SetBone(id uint64, bone bool)

	// IsBone reports whether a node is a bone proxy.
	IsBone(id uint64) bool

	// Local returns the local transform of a node.
	Local(id uint64) common.Transform

	// SetLocal sets the local transform of a node.
	//
	// Parameters:
	//   - id: the node id
	//   - local: the local transform
	SetLocal(id uint64, local common.Transform)

	// WorldTransform composes the local transforms from the root down to the node.
	//
	// Parameters:
	//   - id: the node id
	//
	// Returns:
	//   - common.Transform: the world transform (identity for unknown nodes)
	WorldTransform(id uint64) common.Transform

	// SetBoneTransforms writes transforms[i] to the local transform of bones[i] under a
	// single lock, until either slice runs out. Unknown nodes and nodes not flagged as
	// bones are skipped.
	//
	// Parameters:
	//   - bones: the bone proxy nodes, in bone order
	//   - transforms: the local transforms to write
	//
	// Returns:
	//   - int: the number of bones written
	SetBoneTransforms(bones []uint64, transforms []common.Transform) int
}

var _ Scene = &scene{}

// NewScene creates an empty Scene configured with the provided options.
//
// Parameters:
//   - name: the scene name
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:          &sync.RWMutex{},
		name:        name,
		nodes:       make(map[uint64]*node),
		nextID:      1,
		maxNodes:    defaultMaxNodes,
		scaleAlongZ: true,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

func (s *scene) ScaleAlongZ() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scaleAlongZ
}

func (s *scene) SetScaleAlongZ(scale bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scaleAlongZ = scale
}

func (s *scene) NewNode(local common.Transform) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.nodes) >= s.maxNodes {
		return 0, fmt.Errorf("%w (%d)", ErrNodeCapacity, s.maxNodes)
	}
	id := s.nextID
	s.nextID++
	s.nodes[id] = &node{id: id, local: local}
	return id, nil
}

func (s *scene) DeleteNode(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[id]
	if !ok {
		return
	}
	s.detach(n)
	for _, c := range n.children {
		if child, ok := s.nodes[c]; ok {
			child.parent = 0
		}
	}
	delete(s.nodes, id)
}

func (s *scene) Exists(id uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.nodes[id]
	return ok
}

func (s *scene) SetParent(child, parent uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.nodes[child]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownNode, child)
	}
	var p *node
	if parent != 0 {
		if p, ok = s.nodes[parent]; !ok {
			return fmt.Errorf("%w: %d", ErrUnknownNode, parent)
		}
		for a := parent; a != 0; a = s.nodes[a].parent {
			if a == child {
				return fmt.Errorf("scene: parenting %d under %d forms a cycle", child, parent)
			}
		}
	}
	s.detach(c)
	c.parent = parent
	if p != nil {
		p.children = append([]uint64{child}, p.children...)
	}
	return nil
}

// detach removes n from its parent's children.
func (s *scene) detach(n *node) {
	if n.parent == 0 {
		return
	}
	if p, ok := s.nodes[n.parent]; ok {
		for i, c := range p.children {
			if c == n.id {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}
	n.parent = 0
}

func (s *scene) Parent(id uint64) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n, ok := s.nodes[id]; ok {
		return n.parent
	}
	return 0
}

func (s *scene) Children(id uint64) []uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n, ok := s.nodes[id]; ok {
		return append([]uint64(nil), n.children...)
	}
	return nil
}

func (s *scene) SetBone(id uint64, bone bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.nodes[id]; ok {
		n.bone = bone
	}
}

func (s *scene) IsBone(id uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	return ok && n.bone
}

func (s *scene) Local(id uint64) common.Transform {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n, ok := s.nodes[id]; ok {
		return n.local
	}
	return common.IdentityTransform()
}

func (s *scene) SetLocal(id uint64, local common.Transform) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.nodes[id]; ok {
		n.local = local
	}
}

func (s *scene) WorldTransform(id uint64) common.Transform {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.world(id)
}

func (s *scene) world(id uint64) common.Transform {
	n, ok := s.nodes[id]
	if !ok {
		return common.IdentityTransform()
	}
	if n.parent == 0 {
		return n.local
	}
	parent := s.world(n.parent)
	if s.scaleAlongZ {
		return parent.Mul(n.local)
	}
	return parent.MulNoScaleZ(n.local)
}

func (s *scene) SetBoneTransforms(bones []uint64, transforms []common.Transform) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	written := 0
	for i := range min(len(bones), len(transforms)) {
		n, ok := s.nodes[bones[i]]
		if !ok || !n.bone {
			continue
		}
		n.local = transforms[i]
		written++
	}
	return written
}
