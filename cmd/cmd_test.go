package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestMigrateDryRunListsEveryTable(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"migrate", "--dry-run"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		migrateDryRun = false
	})

	require.NoError(t, rootCmd.Execute())
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, len(schema()))
	assert.Equal(t, "*user.User", lines[0])
	assert.Contains(t, lines, "*calendar.ScheduleEvent")
	assert.Contains(t, lines, "*profile.PerformanceStat")
}

func TestServerGraphIsComplete(t *testing.T) {
	require.NoError(t, fx.ValidateApp(serverModule()))
}
