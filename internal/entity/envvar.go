// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package entity

// EnvironmentVariable is one variable declared on a pipeline, stage, job or
// environment. Exactly one of Value and EncryptedValue is set; encrypted
// values come from the dialect's secure_variables block and are passed
// through opaquely.
type EnvironmentVariable struct {
	Name           string `json:"name"`
	Value          string `json:"value,omitempty"`
	EncryptedValue string `json:"encrypted_value,omitempty"`
}

// Secure reports whether the variable carries an encrypted value.
func (v EnvironmentVariable) Secure() bool {
	return v.EncryptedValue != ""
}
