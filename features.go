package main

import (
	"fmt"
	"runtime"
	"sort"
)

// compiledFeatures tracks build-time feature flags via init() registration.
var compiledFeatures []string

func printFeatures() {
	fmt.Printf("ChipMix %s\n", Version)
	fmt.Printf("  Go version: %s\n", runtime.Version())
	fmt.Printf("  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Println()
	fmt.Println("Compiled features:")

	sort.Strings(compiledFeatures)
	for _, f := range compiledFeatures {
		fmt.Printf("  %s\n", f)
	}
	if len(compiledFeatures) == 0 {
		fmt.Println("  (none)")
	}

	fmt.Println()
	fmt.Println("Chip families:")
	for f := ChipFamily(0); f < CHIP_FAMILIES; f++ {
		core := "register file"
		if hasSynthCore(f) {
			core = "synthesis"
		}
		fmt.Printf("  %2d %-8s %d outputs, clock/%d, %s core\n", f, f, f.Outputs(), chipFamilies[f].divisor, core)
	}
}
