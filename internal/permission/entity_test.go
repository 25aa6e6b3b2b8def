// FrancescoMazzola | 2026
// entity_test.go

package permission

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultCapabilities(t *testing.T) {
	tests := []struct {
		role Role
		want Capabilities
	}{
		{
			role: RoleCreator,
			want: Capabilities{
				View: true, Upload: true, Download: true,
				Edit: true, Delete: true, AIAccess: true,
			},
		},
		{
			role: RoleEditor,
			want: Capabilities{
				View: true, Upload: true, Download: true,
				Edit: true, Delete: true,
			},
		},
		{
			role: RoleContributor,
			want: Capabilities{View: true, Upload: true, Download: true},
		},
		{
			role: RoleViewer,
			want: Capabilities{View: true},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			require.Equal(t, tt.want, DefaultCapabilities(tt.role))
		})
	}
}

func TestRoleValid(t *testing.T) {
	require.True(t, RoleCreator.Valid())
	require.True(t, RoleViewer.Valid())
	require.False(t, Role("Admin").Valid())
	require.False(t, Role("").Valid())
}

func TestPermissionExpired(t *testing.T) {
	var now int64 = 1_700_000_000

	perm := Permission{}
	require.False(t, perm.Expired(now))

	past := now - 1
	perm.ExpiresAt = &past
	require.True(t, perm.Expired(now))

	future := now + 3600
	perm.ExpiresAt = &future
	require.False(t, perm.Expired(now))
}
