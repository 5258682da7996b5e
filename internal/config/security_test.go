package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inkerrors "github.com/conneroisu/templar-inkwell/internal/errors"
)

func TestValidatePath_Security(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantCode string
	}{
		{name: "valid relative path", path: "./theme/inkwell.config.yml"},
		{name: "valid nested path", path: "web/assets/css"},
		{name: "absolute path", path: "/srv/app/inkwell.config.yml"},
		{name: "dot dot inside a name", path: "web/..css/out"},
		{name: "empty path", path: "", wantCode: inkerrors.ErrCodeInvalidPath},
		{name: "blank path", path: "   ", wantCode: inkerrors.ErrCodeInvalidPath},
		{name: "path traversal attempt", path: "../../../etc/passwd", wantCode: inkerrors.ErrCodePathTraversal},
		{name: "traversal after cleaning", path: "web/../../secrets", wantCode: inkerrors.ErrCodePathTraversal},
		{name: "command injection in path", path: "./css; rm -rf /", wantCode: inkerrors.ErrCodeInvalidPath},
		{name: "pipe in path", path: "./css | cat /etc/passwd", wantCode: inkerrors.ErrCodeInvalidPath},
		{name: "backtick in path", path: "./css`whoami`", wantCode: inkerrors.ErrCodeInvalidPath},
		{name: "dollar in path", path: "./css$(malicious)", wantCode: inkerrors.ErrCodeInvalidPath},
		{name: "markup in path", path: "<script>.yml", wantCode: inkerrors.ErrCodeInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePath("output_dir", tt.path)

			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var inkErr *inkerrors.InkwellError
			require.True(t, errors.As(err, &inkErr))
			assert.Equal(t, tt.wantCode, inkErr.Code)
			assert.Equal(t, inkerrors.ErrorTypeConfig, inkErr.Type)
		})
	}
}

func TestSecurityRegression_PluginOptions(t *testing.T) {
	t.Run("resolved defaults stay inside the project", func(t *testing.T) {
		resolved, err := ResolvePluginOptions(PluginOptions{ConfigFile: "theme/inkwell.config.yml"})
		require.NoError(t, err)
		assert.Equal(t, "theme/.inkwell/css", resolved.OutputDir)
	})

	t.Run("traversing config file is rejected before defaults apply", func(t *testing.T) {
		_, err := ResolvePluginOptions(PluginOptions{ConfigFile: "../outside.yml"})
		require.Error(t, err)
		assert.True(t, inkerrors.IsType(err, inkerrors.ErrorTypeConfig))
	})

	t.Run("extension cannot smuggle a directory", func(t *testing.T) {
		for _, ext := range []string{"./css", `.c\ss`, "css", "."} {
			_, err := ResolvePluginOptions(PluginOptions{ExtName: ext})
			assert.Error(t, err, "ext %q", ext)
		}
	})

	t.Run("unknown import mode is rejected", func(t *testing.T) {
		err := Validate(Options{Import: &ImportOptions{Mode: "auto; rm -rf /"}})
		require.Error(t, err)
		assert.True(t, inkerrors.IsType(err, inkerrors.ErrorTypeConfig))
	})
}
