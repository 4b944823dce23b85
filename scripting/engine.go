// Package scripting exposes an arbor hierarchy to Lua scripts.
//
// Scripts see a global table named hierarchy:
//
//	hierarchy.parent(id)            -- parent id, or nil for roots
//	hierarchy.ancestors(id)         -- array, nearest first
//	hierarchy.children(id)          -- array of direct children
//	hierarchy.objects()             -- array in hierarchy order
//	hierarchy.contains(id)
//	hierarchy.set_parent(id, p)     -- p == nil makes id a root
//	hierarchy.set_enabled(id, bool)
//	hierarchy.is_active(id)
//	hierarchy.is_enabled(id)
//	hierarchy.mark_dirty(id)
//	hierarchy.find(name)            -- id, or nil
//	hierarchy.log(msg)
//
// Unknown ids and cycles raise Lua errors instead of panicking the host.
package scripting

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"

	"github.com/phanxgames/arbor"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Tree is the hierarchy surface scripts can reach. Every
// *arbor.Hierarchy[E] satisfies it.
type Tree interface {
	Contains(id arbor.ObjectID) bool
	Objects() []arbor.ObjectID
	Parent(id arbor.ObjectID) (arbor.ObjectID, bool)
	Ancestors(id arbor.ObjectID) []arbor.ObjectID
	Children(id arbor.ObjectID) iter.Seq[arbor.ObjectID]
	SetParent(id, parent arbor.ObjectID) error
	SetEnabled(id arbor.ObjectID, enabled bool)
	IsActive(id arbor.ObjectID) bool
	IsEnabled(id arbor.ObjectID) bool
	MarkDirty(id arbor.ObjectID)
}

// Engine wraps a single gopher-lua VM bound to one tree.
// Single-goroutine access only, same as the tree itself.
type Engine struct {
	vm    *lua.LState
	tree  Tree
	names *arbor.NameRegistry
	log   *zap.Logger
}

// NewEngine creates a Lua VM with the hierarchy table installed. names may
// be nil, in which case hierarchy.find always returns nil.
func NewEngine(tree Tree, names *arbor.NameRegistry, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		vm:    lua.NewState(),
		tree:  tree,
		names: names,
		log:   log.Named("lua"),
	}
	e.vm.SetGlobal("API_VERSION", lua.LNumber(1))
	e.vm.SetGlobal("hierarchy", e.vm.SetFuncs(e.vm.NewTable(), map[string]lua.LGFunction{
		"parent":      e.luaParent,
		"ancestors":   e.luaAncestors,
		"children":    e.luaChildren,
		"objects":     e.luaObjects,
		"contains":    e.luaContains,
		"set_parent":  e.luaSetParent,
		"set_enabled": e.luaSetEnabled,
		"is_active":   e.luaIsActive,
		"is_enabled":  e.luaIsEnabled,
		"mark_dirty":  e.luaMarkDirty,
		"find":        e.luaFind,
		"log":         e.luaLog,
	}))
	return e
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// DoString runs a chunk of Lua source.
func (e *Engine) DoString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("run lua: %w", err)
	}
	return nil
}

// DoFile runs a Lua file.
func (e *Engine) DoFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	e.log.Debug("loaded lua script", zap.String("file", path))
	return nil
}

// LoadDir runs every .lua file in dir in name order. A missing dir is not
// an error.
func (e *Engine) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		if err := e.DoFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Call invokes the global Lua function name with id as its only argument.
// A missing function is a no-op.
func (e *Engine) Call(name string, id arbor.ObjectID) error {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return nil
	}
	if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, lua.LNumber(id)); err != nil {
		return fmt.Errorf("call %s(%d): %w", name, id, err)
	}
	return nil
}

// checkObject reads argument n as an id that must be in the tree.
func (e *Engine) checkObject(L *lua.LState, n int) arbor.ObjectID {
	v := L.CheckInt64(n)
	id := arbor.ObjectID(v)
	if v <= 0 || int64(id) != v || !e.tree.Contains(id) {
		L.ArgError(n, fmt.Sprintf("unknown object %d", v))
	}
	return id
}

func (e *Engine) pushIDs(L *lua.LState, ids []arbor.ObjectID) {
	t := L.CreateTable(len(ids), 0)
	for _, id := range ids {
		t.Append(lua.LNumber(id))
	}
	L.Push(t)
}

func (e *Engine) luaParent(L *lua.LState) int {
	if p, ok := e.tree.Parent(e.checkObject(L, 1)); ok {
		L.Push(lua.LNumber(p))
	} else {
		L.Push(lua.LNil)
	}
	return 1
}

func (e *Engine) luaAncestors(L *lua.LState) int {
	e.pushIDs(L, e.tree.Ancestors(e.checkObject(L, 1)))
	return 1
}

func (e *Engine) luaChildren(L *lua.LState) int {
	t := L.NewTable()
	for c := range e.tree.Children(e.checkObject(L, 1)) {
		t.Append(lua.LNumber(c))
	}
	L.Push(t)
	return 1
}

func (e *Engine) luaObjects(L *lua.LState) int {
	e.pushIDs(L, e.tree.Objects())
	return 1
}

func (e *Engine) luaContains(L *lua.LState) int {
	v := L.CheckInt64(1)
	L.Push(lua.LBool(v > 0 && v <= int64(^uint32(0)) && e.tree.Contains(arbor.ObjectID(v))))
	return 1
}

func (e *Engine) luaSetParent(L *lua.LState) int {
	id := e.checkObject(L, 1)
	parent := arbor.NoObject
	if L.Get(2) != lua.LNil {
		parent = e.checkObject(L, 2)
	}
	if err := e.tree.SetParent(id, parent); err != nil {
		L.RaiseError("set_parent: %s", err.Error())
	}
	return 0
}

func (e *Engine) luaSetEnabled(L *lua.LState) int {
	id := e.checkObject(L, 1)
	e.tree.SetEnabled(id, L.CheckBool(2))
	return 0
}

func (e *Engine) luaIsActive(L *lua.LState) int {
	L.Push(lua.LBool(e.tree.IsActive(e.checkObject(L, 1))))
	return 1
}

func (e *Engine) luaIsEnabled(L *lua.LState) int {
	L.Push(lua.LBool(e.tree.IsEnabled(e.checkObject(L, 1))))
	return 1
}

func (e *Engine) luaMarkDirty(L *lua.LState) int {
	e.tree.MarkDirty(e.checkObject(L, 1))
	return 0
}

func (e *Engine) luaFind(L *lua.LState) int {
	name := L.CheckString(1)
	if e.names != nil {
		if id, ok := e.names.Find(name); ok && e.tree.Contains(id) {
			L.Push(lua.LNumber(id))
			return 1
		}
	}
	L.Push(lua.LNil)
	return 1
}

func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Info(L.CheckString(1))
	return 0
}
