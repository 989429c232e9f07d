// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package entity defines the canonical configuration model: the strict,
// typed entity graph that the YAML dialect is parsed into and exported
// from. The structs here are the contract shared by both transform
// directions and by the JSON form the boundary serializes outward, so
// every field carries a JSON tag matching the wire name.
//
// Optional boolean fields whose documented default is true (such as a
// stage's fetch_materials) are pointers: nil means "not stated, use the
// default". Booleans that default to false are plain values. This keeps
// the JSON form free of noise while letting the transforms tell "absent"
// apart from "explicitly false".
package entity
