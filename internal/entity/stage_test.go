// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApproval_IsDefault(t *testing.T) {
	t.Parallel()

	require.True(t, (*Approval)(nil).IsDefault())
	require.True(t, (&Approval{Type: ApprovalSuccess}).IsDefault())
	require.False(t, (&Approval{Type: ApprovalManual}).IsDefault())
	require.False(t, (&Approval{Type: ApprovalSuccess, Roles: []string{"ops"}}).IsDefault())
	require.False(t, (&Approval{Type: ApprovalSuccess, AllowOnlyOnSuccess: true}).IsDefault())
}

func TestEnvironmentVariable_Secure(t *testing.T) {
	t.Parallel()

	require.False(t, EnvironmentVariable{Name: "A", Value: "x"}.Secure())
	require.True(t, EnvironmentVariable{Name: "B", EncryptedValue: "AES:x=="}.Secure())
}
