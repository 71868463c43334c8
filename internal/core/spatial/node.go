package spatial

import (
	"sync"

	"cogentcore.org/core/math32"

	"github.com/zeusync/changebus/internal/core/changes"
	"github.com/zeusync/changebus/internal/core/observability/log"
	"github.com/zeusync/changebus/internal/core/observer"
	"github.com/zeusync/changebus/internal/core/spatial/types"
)

var (
	_ observer.Observer = (*Node)(nil)
	_ observer.Source   = (*Node)(nil)
)

// NodeOption configures a Node.
type NodeOption func(*Node)

// WithLogger sets the logger that reports propagation failures.
func WithLogger(logger log.Log) NodeOption {
	return func(n *Node) {
		n.log = logger
	}
}

// Node is a spatial object on the bus. It owns a Subject and a Manager,
// listens to the world changes of whatever subject it is linked to as a
// child, and re-posts its own world changes once per batch.
//
// A Node must not observe its own subject.
type Node struct {
	mu       sync.Mutex
	manager  *Manager
	subject  *observer.Subject
	registry *observer.Registry
	handle   observer.Handle
	log      log.Log
}

// NewNode creates a node and registers it as an observer in registry.
func NewNode(name string, registry *observer.Registry, opts ...NodeOption) *Node {
	n := &Node{
		manager:  NewManager(),
		registry: registry,
		log:      log.Provide(),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.subject = observer.NewSubject(name, registry, n)
	n.handle = registry.Register(n)
	return n
}

func (n *Node) Subject() *observer.Subject { return n.subject }
func (n *Node) Handle() observer.Handle    { return n.handle }
func (n *Node) Name() string               { return n.subject.Name() }

// Get answers spatial flags from the node's manager.
func (n *Node) Get(bits changes.BitMask) observer.Value {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.manager.Get(bits)
}

// OnChange feeds parent changes to the manager and re-posts the resulting
// world changes. A destroyed parent leaves the cached parent state in place.
// There is no caller to return an error to, so failures to reach children
// are logged.
func (n *Node) OnChange(subject *observer.Subject, changed changes.BitMask) {
	if changed == changes.None {
		return
	}

	n.mu.Lock()
	world := n.manager.ChangeOccurred(subject, changed)
	n.mu.Unlock()

	if world == changes.None {
		return
	}
	if err := n.subject.PostChanges(world); err != nil {
		n.log.Warn("world change propagation failed",
			log.String("node", n.Name()),
			log.String("parent", subject.Name()),
			log.Mask("changed", world),
			log.Error(err),
		)
	}
}

func (n *Node) SetLocalPosition(v math32.Vector3) error {
	return n.Apply(func(m *Manager) { m.SetLocalPosition(v) })
}

func (n *Node) SetLocalRotation(euler math32.Vector3) error {
	return n.Apply(func(m *Manager) { m.SetLocalRotation(euler) })
}

func (n *Node) SetLocalRotationQuat(q math32.Quat) error {
	return n.Apply(func(m *Manager) { m.SetLocalRotationQuat(q) })
}

func (n *Node) SetLocalScale(v math32.Vector3) error {
	return n.Apply(func(m *Manager) { m.SetLocalScale(v) })
}

func (n *Node) SetLocalSpace(s types.SpatialData) error {
	return n.Apply(func(m *Manager) { m.SetLocalSpace(s) })
}

// Apply runs fn against the manager, recomposes world state once and posts
// the world changes. Several setters called from one fn produce one post.
func (n *Node) Apply(fn func(*Manager)) error {
	n.mu.Lock()
	fn(n.manager)
	world := n.manager.Update()
	n.mu.Unlock()
	return n.subject.PostChanges(world)
}

// WorldSpace returns a copy of the node's world state.
func (n *Node) WorldSpace() types.SpatialTransformData {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.manager.WorldSpace()
}

// LocalSpace returns a copy of the node's local state.
func (n *Node) LocalSpace() types.SpatialTransformData {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.manager.LocalSpace()
}

// UpdateCount returns the manager's recomposition count.
func (n *Node) UpdateCount() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.manager.UpdateCount()
}

// Destroy notifies the node's observers that it is gone and releases its handle,
// so subjects it is still attached to drop it on their next post.
func (n *Node) Destroy() error {
	n.subject.PreDestruct()
	return n.registry.Release(n.handle)
}
