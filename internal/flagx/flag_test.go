package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-d", "studio.db", "-x", "1"},
			allowedFlags: []string{"-d", "-k"},
			want:         []string{"-d", "studio.db"},
		},
		{
			name:         "equals form",
			args:         []string{"--config=alt.json", "-x", "1"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=alt.json"},
		},
		{
			name:         "unknown flags and positionals dropped",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-d"},
			want:         []string{},
		},
		{
			name:         "flag followed by another flag keeps no value",
			args:         []string{"-d", "-k"},
			allowedFlags: []string{"-d"},
			want:         []string{"-d"},
		},
		{
			name:         "multiple allowed flags preserve order",
			args:         []string{"-k", "key123", "-d", "studio.db", "--other", "x"},
			allowedFlags: []string{"-d", "-k"},
			want:         []string{"-k", "key123", "-d", "studio.db"},
		},
		{
			name:         "repeated flag is preserved",
			args:         []string{"-d", "one.db", "-d", "two.db"},
			allowedFlags: []string{"-d"},
			want:         []string{"-d", "one.db", "-d", "two.db"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-d"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short -c with value", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/path/short.json"}
		assert.Equal(t, "/path/short.json", JsonConfigFlags())
	})

	t.Run("long -config with value", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", "/path/long.json"}
		assert.Equal(t, "/path/long.json", JsonConfigFlags())
	})

	t.Run("unknown flags are ignored", func(t *testing.T) {
		os.Args = []string{"testbin", "-x", "1", "-y", "2"}
		assert.Empty(t, JsonConfigFlags())
	})

	t.Run("multiple flags, last wins", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/path/1.json", "-config", "/path/2.json"}
		assert.Equal(t, "/path/2.json", JsonConfigFlags())
	})
}
