// Package loomtest provides mocks and helpers for testing handlers,
// decorators and the extensions built on top of them.
package loomtest
