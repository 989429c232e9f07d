// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package entity

// MaterialType tags the variant of a Material. Like TaskType it is a
// closed set with exhaustive handling in both transform directions.
type MaterialType string

// The supported material kinds.
const (
	MaterialGit        MaterialType = "git"
	MaterialHg         MaterialType = "hg"
	MaterialSvn        MaterialType = "svn"
	MaterialP4         MaterialType = "p4"
	MaterialDependency MaterialType = "dependency"
	MaterialPlugin     MaterialType = "plugin"
)

// MaterialTypes lists every supported kind, in canonical order.
var MaterialTypes = []MaterialType{
	MaterialGit, MaterialHg, MaterialSvn, MaterialP4, MaterialDependency, MaterialPlugin,
}

// Material is a tagged union over the material kinds. Type selects which
// field group is meaningful:
//
//	git         URL, Branch, ShallowClone plus the common SCM fields
//	hg          URL, Branch plus the common SCM fields
//	svn         URL, CheckExternals, Username/EncryptedPassword
//	p4          Port, View, UseTickets, Username/EncryptedPassword
//	dependency  Pipeline, Stage, IgnoreForScheduling
//	plugin      PluginConfiguration, Configuration plus Destination/Filter
//
// Name is the material's display name; for dependency materials it is also
// how downstream fetch tasks refer to the upstream.
type Material struct {
	Type MaterialType `json:"type"`
	Name string       `json:"name,omitempty"`

	URL    string `json:"url,omitempty"`
	Branch string `json:"branch,omitempty"`

	// ShallowClone applies to git only and defaults to false.
	ShallowClone bool `json:"shallow_clone,omitempty"`

	// AutoUpdate defaults to true when absent.
	AutoUpdate  *bool    `json:"auto_update,omitempty"`
	Destination string   `json:"destination,omitempty"`
	Ignore      []string `json:"ignore,omitempty"`
	Includes    []string `json:"includes,omitempty"`

	Username          string `json:"username,omitempty"`
	EncryptedPassword string `json:"encrypted_password,omitempty"`

	CheckExternals bool `json:"check_externals,omitempty"`

	Port       string `json:"port,omitempty"`
	View       string `json:"view,omitempty"`
	UseTickets bool   `json:"use_tickets,omitempty"`

	Pipeline            string `json:"pipeline,omitempty"`
	Stage               string `json:"stage,omitempty"`
	IgnoreForScheduling bool   `json:"ignore_for_scheduling,omitempty"`

	PluginConfiguration *PluginConfiguration    `json:"plugin_configuration,omitempty"`
	Configuration       []ConfigurationProperty `json:"configuration,omitempty"`
}
