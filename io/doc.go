// Package io provides the storage the emulator runs against: a read-only
// program image (Rom) and a flat little-endian data memory (Memory).
package io
