//go:build linux

package logger

// ioctlGetTermios is TCGETS on Linux.
const ioctlGetTermios = 0x5401
