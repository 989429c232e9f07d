// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package entity

// Pipeline is one build pipeline of the merged configuration. Its name must
// be non-empty and unique across the whole collection, even when the
// contributing definitions come from different files.
type Pipeline struct {
	Name          string `json:"name"`
	Group         string `json:"group,omitempty"`
	LabelTemplate string `json:"label_template,omitempty"`
	LockBehavior  string `json:"lock_behavior,omitempty"`
	DisplayOrder  *int   `json:"display_order_weight,omitempty"`

	// Template names a stage template this pipeline instantiates. A
	// pipeline carries either a template reference or its own stages,
	// never both.
	Template string `json:"template,omitempty"`

	Timer        *Timer        `json:"timer,omitempty"`
	TrackingTool *TrackingTool `json:"tracking_tool,omitempty"`

	Parameters           []Parameter           `json:"parameters,omitempty"`
	EnvironmentVariables []EnvironmentVariable `json:"environment_variables,omitempty"`

	Materials []Material `json:"materials"`
	Stages    []Stage    `json:"stages,omitempty"`
}

// Timer schedules pipeline runs from a cron-like spec.
type Timer struct {
	Spec          string `json:"spec"`
	OnlyOnChanges bool   `json:"only_on_changes,omitempty"`
}

// TrackingTool links build results to an external issue tracker.
type TrackingTool struct {
	Link  string `json:"link"`
	Regex string `json:"regex"`
}

// Parameter is a named value substituted into templated pipelines.
type Parameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// LockBehavior values accepted on a pipeline.
const (
	LockNone               = "none"
	LockOnFailure          = "lockOnFailure"
	LockUnlockWhenFinished = "unlockWhenFinished"
)
