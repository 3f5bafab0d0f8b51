//go:build !(amd64 || arm64 || 386 || arm || riscv64 || loong64 || mipsle || mips64le || ppc64le || wasm)

package main

// The audio backends hand float32 sample slices to the device as raw bytes,
// which assumes little-endian byte order.
var _ = "ChipMix requires a little-endian architecture" + 1
