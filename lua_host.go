// lua_host.go - Lua scripting surface over the chip host

package main

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

const luaMaxGenerateFrames = 1 << 22

func init() {
	compiledFeatures = append(compiledFeatures, "script:lua")
}

// LuaHost runs scripts against a ChipHost. Frames rendered with
// chip.generate are collected so the CLI can write them out afterwards.
type LuaHost struct {
	host   *ChipHost
	state  *lua.LState
	output []int32
}

func NewLuaHost(host *ChipHost) *LuaHost {
	if host == nil {
		host = NewChipHost(nil)
	}
	h := &LuaHost{host: host, state: lua.NewState()}
	h.register()
	return h
}

func (h *LuaHost) Close() {
	h.state.Close()
}

// Output returns the interleaved stereo frames gathered so far.
func (h *LuaHost) Output() []int32 {
	return h.output
}

func (h *LuaHost) RunFile(path string) error {
	if err := h.state.DoFile(path); err != nil {
		return fmt.Errorf("lua_host: %w", err)
	}
	return nil
}

func (h *LuaHost) RunString(src string) error {
	if err := h.state.DoString(src); err != nil {
		return fmt.Errorf("lua_host: %w", err)
	}
	return nil
}

func (h *LuaHost) register() {
	L := h.state
	mod := L.NewTable()
	L.SetFuncs(mod, map[string]lua.LGFunction{
		"add":      h.luaAdd,
		"write":    h.luaWrite,
		"generate": h.luaGenerate,
		"remove":   h.luaRemove,
		"load":     h.luaLoad,
		"seek":     h.luaSeek,
		"read":     h.luaRead,
		"reset":    h.luaReset,
		"family":   h.luaFamily,
		"count":    h.luaCount,
	})
	for family := ChipFamily(0); family < CHIP_FAMILIES; family++ {
		mod.RawSetString(family.String(), lua.LNumber(family))
	}
	L.SetGlobal("chip", mod)
}

func checkUint16(L *lua.LState, n int) uint16 {
	v := L.CheckInt(n)
	if v < 0 || v > 0xFFFF {
		L.ArgError(n, "out of range")
	}
	return uint16(v)
}

// chip.add(family, clock) -> sample rate, 0 for an unknown family
func (h *LuaHost) luaAdd(L *lua.LState) int {
	id := checkUint16(L, 1)
	clock := uint32(L.CheckInt64(2))
	L.Push(lua.LNumber(h.host.AddChip(id, clock)))
	return 1
}

// chip.write(family, index, reg, data)
func (h *LuaHost) luaWrite(L *lua.LState) int {
	id := checkUint16(L, 1)
	index := checkUint16(L, 2)
	reg := uint32(L.CheckInt(3))
	data := uint8(L.CheckInt(4))
	if err := h.host.Write(id, index, reg, data); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// chip.generate(family, index, frames) -> left sum, right sum
func (h *LuaHost) luaGenerate(L *lua.LState) int {
	id := checkUint16(L, 1)
	index := checkUint16(L, 2)
	frames := L.OptInt(3, 1)
	if frames <= 0 || frames > luaMaxGenerateFrames {
		L.ArgError(3, "frame count out of range")
	}
	buf := make([]int32, frames*2)
	if err := h.host.Generate(id, index, buf); err != nil {
		L.RaiseError("%v", err)
	}
	var left, right int64
	for i := 0; i < len(buf); i += 2 {
		left += int64(buf[i])
		right += int64(buf[i+1])
	}
	h.output = append(h.output, buf...)
	L.Push(lua.LNumber(left))
	L.Push(lua.LNumber(right))
	return 2
}

// chip.remove(family)
func (h *LuaHost) luaRemove(L *lua.LState) int {
	h.host.RemoveChip(checkUint16(L, 1))
	return 0
}

// chip.load(family, access code, data, start)
func (h *LuaHost) luaLoad(L *lua.LState) int {
	id := checkUint16(L, 1)
	code := checkUint16(L, 2)
	data := L.CheckString(3)
	start := uint32(L.OptInt64(4, 0))
	h.host.AddROMData(id, code, []byte(data), start)
	return 0
}

// chip.seek(family, index, pos) positions the PCM stream cursor
func (h *LuaHost) luaSeek(L *lua.LState) int {
	id := checkUint16(L, 1)
	index := checkUint16(L, 2)
	pos := uint32(L.CheckInt64(3))
	if err := h.host.SeekPCM(id, index, pos); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// chip.read(family, index, offset) -> byte, or nil without a read port
func (h *LuaHost) luaRead(L *lua.LState) int {
	id := checkUint16(L, 1)
	index := checkUint16(L, 2)
	offset := uint32(L.CheckInt64(3))
	value, ok, err := h.host.ReadRegister(id, index, offset)
	if err != nil {
		L.RaiseError("%v", err)
	}
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(value))
	return 1
}

// chip.reset(family, index)
func (h *LuaHost) luaReset(L *lua.LState) int {
	if err := h.host.ResetChip(checkUint16(L, 1), checkUint16(L, 2)); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// chip.family(name) -> family id
func (h *LuaHost) luaFamily(L *lua.LState) int {
	family, err := ParseChipFamily(L.CheckString(1))
	if err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(lua.LNumber(family))
	return 1
}

// chip.count(family) -> active instances
func (h *LuaHost) luaCount(L *lua.LState) int {
	L.Push(lua.LNumber(h.host.Registry().Count(ChipFamily(checkUint16(L, 1)))))
	return 1
}
