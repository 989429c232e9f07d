// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package entity

// Template is a reusable stage sequence that pipelines reference by name
// instead of declaring their own stages.
type Template struct {
	Name   string  `json:"name"`
	Stages []Stage `json:"stages"`
}
