package operator

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/staffdir/internal/cmd/base"
)

func newCheckSeed(t *testing.T, files map[string]string) (*CheckSeedCommand, *cli.MockUi) {
	t.Helper()

	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}

	ui := cli.NewMockUi()
	return &CheckSeedCommand{
		Command: base.NewCommand(hclog.NewNullLogger(), ui),
		Fs:      fs,
	}, ui
}

func TestCheckSeedCommand(t *testing.T) {
	tests := []struct {
		name       string
		files      map[string]string
		args       []string
		wantCode   int
		wantOutput string
		wantErrors []string
	}{
		{
			name: "valid file",
			files: map[string]string{
				"seed.json": `[{"id":"1","employee_name":"Tiger Nixon","employee_salary":"320800","employee_age":"61","profile_image":""}]`,
			},
			args:       []string{"seed.json"},
			wantOutput: "seed.json: 1 employees, all valid",
		},
		{
			name:       "embedded snapshot",
			args:       []string{"-embedded"},
			wantOutput: "24 employees, all valid",
		},
		{
			name: "invalid records",
			files: map[string]string{
				"seed.yaml": `
- id: "1"
  employee_name: "Tiger!"
- id: "1"
  employee_name: Garrett Winters
`,
			},
			args:       []string{"seed.yaml"},
			wantCode:   1,
			wantErrors: []string{"employee_name", `duplicate id "1"`, "2 problems found in 2 employees"},
		},
		{
			name:       "missing file",
			args:       []string{"nope.json"},
			wantCode:   1,
			wantErrors: []string{"error loading seed snapshot"},
		},
		{
			name:       "no arguments",
			wantCode:   1,
			wantErrors: []string{"exactly one seed file argument is required"},
		},
		{
			name:       "file and embedded",
			args:       []string{"-embedded", "seed.json"},
			wantCode:   1,
			wantErrors: []string{"no file argument is allowed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ui := newCheckSeed(t, tt.files)

			code := c.Run(tt.args)
			assert.Equal(t, tt.wantCode, code, ui.ErrorWriter.String())
			if tt.wantOutput != "" {
				assert.Contains(t, ui.OutputWriter.String(), tt.wantOutput)
			}
			for _, msg := range tt.wantErrors {
				assert.Contains(t, ui.ErrorWriter.String(), msg)
			}
		})
	}
}
