//go:build !focdebug

package foc

const debugChecks = false

func assertFinite(string, ...float64) {}

func assertNormalized(string, float64) {}

func assertSector(string, Sector) {}
