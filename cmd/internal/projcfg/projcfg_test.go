package projcfg_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/basewarphq/bwstage/cmd/internal/projcfg"
	"github.com/basewarphq/bwstage/cmd/internal/testutil"
	"github.com/cockroachdb/errors"
)

func TestLoadFrom(t *testing.T) {
	t.Parallel()
	dir := testutil.Setup(t, map[string]string{
		"bwstage.toml": `[paths]
config = "serverless.yml"
template = ".serverless/cloudformation-template-update-stack.json"

[api]
rest_api_id = "ApiGatewayRestApi"
`,
		"nested/deeper/.keep": "",
	})

	cfg, err := projcfg.LoadFrom(filepath.Join(dir, "nested", "deeper"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Root != dir {
		t.Errorf("Root = %q, want %q", cfg.Root, dir)
	}
	if got, want := cfg.ConfigPath(), filepath.Join(dir, "serverless.yml"); got != want {
		t.Errorf("ConfigPath() = %q, want %q", got, want)
	}
	if got, want := cfg.TemplatePath(), filepath.Join(dir, ".serverless", "cloudformation-template-update-stack.json"); got != want {
		t.Errorf("TemplatePath() = %q, want %q", got, want)
	}
	if cfg.OutPath() != "" {
		t.Errorf("OutPath() = %q, want empty when unset", cfg.OutPath())
	}
	if cfg.API.RestAPIID != "ApiGatewayRestApi" {
		t.Errorf("API.RestAPIID = %q", cfg.API.RestAPIID)
	}
}

func TestLoadFrom_NotFound(t *testing.T) {
	t.Parallel()
	dir := testutil.Setup(t, map[string]string{})

	_, err := projcfg.LoadFrom(dir)
	if !errors.Is(err, projcfg.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{name: "absolute path", content: "[paths]\nout = \"/tmp/out.json\"\n", errText: "paths.out must be relative"},
		{name: "bad toml", content: "[paths\n", errText: "parsing bwstage.toml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := testutil.Setup(t, map[string]string{"bwstage.toml": tt.content})

			_, err := projcfg.LoadFrom(dir)
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.Is(err, projcfg.ErrNotFound) {
				t.Errorf("an invalid file is not a missing file: %v", err)
			}
			if !strings.Contains(err.Error(), tt.errText) {
				t.Errorf("error %q should contain %q", err.Error(), tt.errText)
			}
		})
	}
}
