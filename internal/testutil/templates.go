package testutil

import (
	"testing"

	"github.com/dalemusser/clubhub/internal/app/resources"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// BootTemplates compiles the shared layout plus every template set the
// test binary registered, installs the engine for templates.Render, and
// uninstalls it when the test ends.
func BootTemplates(t *testing.T) {
	t.Helper()
	resources.LoadSharedTemplates()
	eng := templates.New(false)
	if err := eng.Boot(zap.NewNop()); err != nil {
		t.Fatalf("boot templates: %v", err)
	}
	templates.UseEngine(eng, zap.NewNop())
	t.Cleanup(func() { templates.UseEngine(nil, nil) })
}
