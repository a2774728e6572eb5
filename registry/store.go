package registry

import (
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/handle"
)

// recognized holds the values synthesized for any key when nothing was stored.
// Names are folded.
var recognized = map[string]Value{
	"language": StringValue("english"),
}

type node struct {
	children map[string]*node
	values   map[string]Value
	name     string
	names    map[string]string // folded value name -> name as first written
}

func newNode(name string) *node {
	return &node{
		name:     name,
		children: make(map[string]*node),
		values:   make(map[string]Value),
		names:    make(map[string]string),
	}
}

// Store is an in-memory registry: one key tree per supported root.
// Thread-safe.
type Store struct {
	roots map[Root]*node
	mu    sync.RWMutex
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		roots: map[Root]*node{
			CurrentUser:  newNode(CurrentUser.String()),
			LocalMachine: newNode(LocalMachine.String()),
		},
	}
}

// Open returns the key at path under root. Opening never fails for a supported
// root: missing keys are synthesized and read as empty. Any other root aborts.
func (s *Store) Open(root Root, path string) *Key {
	checkRoot(root, "RegOpenKeyEx")
	return &Key{store: s, root: root, path: SplitPath(path)}
}

// Create is Open that also materializes every key along path.
func (s *Store) Create(root Root, path string) *Key {
	checkRoot(root, "RegCreateKeyEx")
	k := &Key{store: s, root: root, path: SplitPath(path)}
	s.mu.Lock()
	s.walk(root, k.path, true)
	s.mu.Unlock()
	return k
}

func checkRoot(root Root, call string) {
	if !root.Supported() {
		errors.Abort(errors.New(errors.PhaseRegistry, errors.KindUnimplemented).
			Call(call).
			Value(uint32(root)).
			Detail("root %s is not emulated", root).
			Build())
	}
}

// walk finds the node for path. With create set, missing nodes are added;
// the caller must then hold the write lock.
func (s *Store) walk(root Root, path []string, create bool) *node {
	n := s.roots[root]
	for _, seg := range path {
		folded := fold(seg)
		child, ok := n.children[folded]
		if !ok {
			if !create {
				return nil
			}
			child = newNode(seg)
			n.children[folded] = child
		}
		n = child
	}
	return n
}

// SplitPath splits a subkey path on '/' and '\', dropping empty segments.
func SplitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})
}

func fold(s string) string {
	return cases.Fold().String(s)
}

// Key is an opened registry key. It is stored in the handle table.
type Key struct {
	store *Store
	path  []string
	root  Root
}

// ObjectType implements handle.Object.
func (k *Key) ObjectType() handle.ObjectType {
	return handle.ObjectRegistryKey
}

// Root returns the predefined key this key lives under.
func (k *Key) Root() Root {
	return k.root
}

// Path returns the backslash-joined subkey path.
func (k *Key) Path() string {
	return strings.Join(k.path, `\`)
}

// Query returns the named value. Stored values win over recognized defaults.
// An unknown, unset value reports KindNotFound.
func (k *Key) Query(name string) (Value, error) {
	folded := fold(name)

	k.store.mu.RLock()
	n := k.store.walk(k.root, k.path, false)
	var (
		v  Value
		ok bool
	)
	if n != nil {
		v, ok = n.values[folded]
	}
	k.store.mu.RUnlock()

	if ok {
		return v, nil
	}
	if v, ok := recognized[folded]; ok {
		Logger().Debug("synthesized value",
			zap.String("key", k.Path()),
			zap.String("name", name))
		return v, nil
	}

	Logger().Warn("registry value not set",
		zap.Stringer("root", k.root),
		zap.String("key", k.Path()),
		zap.String("name", name))
	err := errors.NotFound(errors.PhaseRegistry, "value", name)
	err.Path = append([]string{k.root.String()}, k.path...)
	return Value{}, err
}

// Set stores a value on the key, creating the key if needed.
func (k *Key) Set(name string, v Value) error {
	if v.Type != TypeString && v.Type != TypeDWORD {
		return unsupportedType(v.Type)
	}
	folded := fold(name)

	k.store.mu.Lock()
	defer k.store.mu.Unlock()
	n := k.store.walk(k.root, k.path, true)
	n.values[folded] = v
	if _, ok := n.names[folded]; !ok {
		n.names[folded] = name
	}
	return nil
}

// ValueNames returns the names of values stored on the key, sorted.
// Recognized defaults are not included.
func (k *Key) ValueNames() []string {
	k.store.mu.RLock()
	defer k.store.mu.RUnlock()
	n := k.store.walk(k.root, k.path, false)
	if n == nil {
		return nil
	}
	names := make([]string, 0, len(n.names))
	for _, name := range n.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Subkeys returns the names of the key's direct children, sorted.
func (k *Key) Subkeys() []string {
	k.store.mu.RLock()
	defer k.store.mu.RUnlock()
	n := k.store.walk(k.root, k.path, false)
	if n == nil {
		return nil
	}
	names := make([]string, 0, len(n.children))
	for _, c := range n.children {
		names = append(names, c.name)
	}
	sort.Strings(names)
	return names
}

// Open returns the key at sub relative to k.
func (k *Key) Open(sub string) *Key {
	path := append(append([]string(nil), k.path...), SplitPath(sub)...)
	return &Key{store: k.store, root: k.root, path: path}
}

// Create is Open that also materializes the key.
func (k *Key) Create(sub string) *Key {
	child := k.Open(sub)
	k.store.mu.Lock()
	k.store.walk(child.root, child.path, true)
	k.store.mu.Unlock()
	return child
}

// Exists reports whether the key has been materialized by a write or a seed.
func (k *Key) Exists() bool {
	k.store.mu.RLock()
	defer k.store.mu.RUnlock()
	return k.store.walk(k.root, k.path, false) != nil
}
