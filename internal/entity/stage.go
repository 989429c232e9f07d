// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package entity

// Stage is one sequential phase of a pipeline. Stage order is execution
// order; job names are unique within their stage.
type Stage struct {
	Name string `json:"name"`

	// FetchMaterials defaults to true when absent.
	FetchMaterials        *bool `json:"fetch_materials,omitempty"`
	CleanWorkingDirectory bool  `json:"clean_working_directory,omitempty"`
	NeverCleanupArtifacts bool  `json:"never_cleanup_artifacts,omitempty"`

	Approval             *Approval             `json:"approval,omitempty"`
	EnvironmentVariables []EnvironmentVariable `json:"environment_variables,omitempty"`
	Jobs                 []Job                 `json:"jobs"`
}

// Approval types.
const (
	ApprovalSuccess = "success"
	ApprovalManual  = "manual"
)

// Approval is a stage's trigger policy: automatic on upstream success, or
// manual, optionally restricted to the listed roles and users.
type Approval struct {
	Type               string   `json:"type"`
	Roles              []string `json:"roles,omitempty"`
	Users              []string `json:"users,omitempty"`
	AllowOnlyOnSuccess bool     `json:"allow_only_on_success,omitempty"`
}

// IsDefault reports whether the approval is indistinguishable from the
// documented default (automatic, unrestricted).
func (a *Approval) IsDefault() bool {
	return a == nil || (a.Type == ApprovalSuccess && len(a.Roles) == 0 &&
		len(a.Users) == 0 && !a.AllowOnlyOnSuccess)
}
