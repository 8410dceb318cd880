//go:build !linux

package ipc

const namespacedSupported = false
