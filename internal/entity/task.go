// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package entity

// TaskType tags the variant of a Task. The set is closed: both transform
// directions switch exhaustively over these values and reject anything
// else, so adding a kind is a localized, compile-visible change.
type TaskType string

// The supported task kinds.
const (
	TaskExec   TaskType = "exec"
	TaskFetch  TaskType = "fetch"
	TaskPlugin TaskType = "plugin"
	TaskRake   TaskType = "rake"
	TaskAnt    TaskType = "ant"
	TaskNant   TaskType = "nant"
)

// TaskTypes lists every supported kind, in canonical order.
var TaskTypes = []TaskType{TaskExec, TaskFetch, TaskPlugin, TaskRake, TaskAnt, TaskNant}

// Run conditions accepted on a task.
const (
	RunIfPassed = "passed"
	RunIfFailed = "failed"
	RunIfAny    = "any"
)

// Artifact origins accepted on a fetch task.
const (
	ArtifactOriginGoCD     = "gocd"
	ArtifactOriginExternal = "external"
)

// Task is a tagged union over the task kinds. Type selects which field
// group is meaningful:
//
//	exec            Command, Arguments, WorkingDirectory
//	rake, ant, nant BuildFile, Target, WorkingDirectory
//	fetch           Pipeline, Stage, Job and either Source/IsFile
//	                (gocd origin) or ArtifactID/Configuration (external)
//	plugin          PluginConfiguration, Configuration
//
// RunIf and OnCancel apply to every kind.
type Task struct {
	Type TaskType `json:"type"`

	// RunIf gates the task on the state of the job so far; empty means
	// "passed".
	RunIf    string `json:"run_if,omitempty"`
	OnCancel *Task  `json:"on_cancel,omitempty"`

	Command          string   `json:"command,omitempty"`
	Arguments        []string `json:"arguments,omitempty"`
	WorkingDirectory string   `json:"working_directory,omitempty"`

	BuildFile string `json:"build_file,omitempty"`
	Target    string `json:"target,omitempty"`

	Pipeline       string `json:"pipeline,omitempty"`
	Stage          string `json:"stage,omitempty"`
	Job            string `json:"job,omitempty"`
	Source         string `json:"source,omitempty"`
	IsFile         bool   `json:"is_source_a_file,omitempty"`
	Destination    string `json:"destination,omitempty"`
	ArtifactOrigin string `json:"artifact_origin,omitempty"`
	ArtifactID     string `json:"artifact_id,omitempty"`

	PluginConfiguration *PluginConfiguration    `json:"plugin_configuration,omitempty"`
	Configuration       []ConfigurationProperty `json:"configuration,omitempty"`
}

// PluginConfiguration identifies the plugin a pluggable task or material
// delegates to.
type PluginConfiguration struct {
	ID      string `json:"id"`
	Version string `json:"version,omitempty"`
}

// ConfigurationProperty is one key/value of a plugin's free-form
// configuration block. Exactly one of Value and EncryptedValue is set.
type ConfigurationProperty struct {
	Key            string `json:"key"`
	Value          string `json:"value,omitempty"`
	EncryptedValue string `json:"encrypted_value,omitempty"`
}
