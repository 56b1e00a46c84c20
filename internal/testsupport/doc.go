// Package testsupport holds helpers shared by package tests: temp-directory
// configs, stub executables, and icon fixtures.
package testsupport
