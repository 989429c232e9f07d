// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package entity

// Environment groups pipelines and agents under a name and a shared set of
// variables. Pipelines and Agents are weak references by identifier: the
// collection checks their shape, not their existence.
type Environment struct {
	Name                 string                `json:"name"`
	EnvironmentVariables []EnvironmentVariable `json:"environment_variables,omitempty"`
	Pipelines            []string              `json:"pipelines,omitempty"`
	Agents               []string              `json:"agents,omitempty"`
}
