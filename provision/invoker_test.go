package provision

import (
	"os"
	"os/user"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveInvokerFromSudoUID(t *testing.T) {
	t.Setenv("SUDO_UID", "1000")
	t.Setenv("SUDO_USER", "alice")

	inv, err := ResolveInvoker()
	require.NoError(t, err)
	assert.Equal(t, uint32(1000), inv.UID)
	assert.Equal(t, "alice", inv.Name)
}

func TestResolveInvokerFallsBackToSudoUser(t *testing.T) {
	me, err := user.Current()
	require.NoError(t, err)

	t.Setenv("SUDO_UID", "")
	t.Setenv("SUDO_USER", me.Username)

	inv, err := ResolveInvoker()
	require.NoError(t, err)
	assert.Equal(t, me.Username, inv.Name)
	assert.Equal(t, me.Uid, strconv.FormatUint(uint64(inv.UID), 10))
}

func TestResolveInvokerMalformedUID(t *testing.T) {
	t.Setenv("SUDO_UID", "notanumber")

	_, err := ResolveInvoker()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "SUDO_UID")
}

func TestResolveInvokerMissingContext(t *testing.T) {
	t.Setenv("SUDO_UID", "")
	t.Setenv("SUDO_USER", "")

	_, err := ResolveInvoker()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sudo")
}

func TestRequireRoot(t *testing.T) {
	if os.Geteuid() == 0 {
		assert.NoError(t, RequireRoot())
		return
	}
	err := RequireRoot()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "root")
}
