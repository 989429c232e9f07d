// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package entity

// Job is one unit of work inside a stage. Jobs of a stage run in parallel;
// the task list inside a job runs in order.
type Job struct {
	Name string `json:"name"`

	// Timeout is the inactivity timeout in minutes. 0 means never time
	// out; nil means use the server default.
	Timeout *int `json:"timeout,omitempty"`

	// RunInstanceCount is a positive integer or the literal "all".
	RunInstanceCount string `json:"run_instance_count,omitempty"`

	ElasticProfileID string   `json:"elastic_profile_id,omitempty"`
	Resources        []string `json:"resources,omitempty"`

	Tabs                 []Tab                 `json:"tabs,omitempty"`
	Artifacts            []Artifact            `json:"artifacts,omitempty"`
	EnvironmentVariables []EnvironmentVariable `json:"environment_variables,omitempty"`
	Tasks                []Task                `json:"tasks"`
}

// Tab exposes a file produced by the job as a named tab in the build detail
// view.
type Tab struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Artifact kinds.
const (
	ArtifactBuild    = "build"
	ArtifactTest     = "test"
	ArtifactExternal = "external"
)

// Artifact declares an output the job publishes. Build and test artifacts
// copy Source to Destination on the server; external artifacts hand an ID
// and free-form configuration to an artifact store plugin.
type Artifact struct {
	Type        string `json:"type"`
	Source      string `json:"source,omitempty"`
	Destination string `json:"destination,omitempty"`

	ID            string                  `json:"id,omitempty"`
	StoreID       string                  `json:"store_id,omitempty"`
	Configuration []ConfigurationProperty `json:"configuration,omitempty"`
}
