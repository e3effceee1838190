package serverfx

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/joeydtaylor/steeze-scorefn/pkg/parsefield"
	"github.com/joeydtaylor/steeze-scorefn/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

const testManifest = `
[registry]
policy = "strict"

[[function]]
name = "decay_gauss"
kind = "gauss"
replaced_with = "gauss"
`

func TestModuleGraph(t *testing.T) {
	require.NoError(t, fx.ValidateApp(Module(WithService("test")), fx.NopLogger))
}

func TestProvideRegistryFromManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.toml")
	require.NoError(t, os.WriteFile(path, []byte(testManifest), 0o600))
	t.Setenv("SCOREFN_MANIFEST", path)

	log := zaptest.NewLogger(t)
	man, err := provideManifest(defaultConfig(), log)
	require.NoError(t, err)
	assert.Equal(t, parsefield.Strict, man.Registry.MatchPolicy())

	var seen []registry.Outcome
	reg, err := provideRegistry(registryDeps{
		Manifest:    man,
		Log:         log,
		Deprecation: zap.NewNop(),
		Observer: registry.ObserverFunc(func(_, _ string, o registry.Outcome) {
			seen = append(seen, o)
		}),
	})
	require.NoError(t, err)

	assert.Contains(t, reg.Keys(), "decay_gauss")
	assert.Contains(t, reg.Keys(), "gauss")

	_, err = reg.Resolve("decay_gauss", man.Registry.MatchPolicy(), registry.Location{})
	assert.ErrorIs(t, err, parsefield.ErrDeprecated)
	_, err = reg.Resolve("weight", man.Registry.MatchPolicy(), registry.Location{})
	assert.NoError(t, err)
	assert.Equal(t, []registry.Outcome{registry.OutcomeRejected, registry.OutcomeResolved}, seen)
}

func TestProvideManifestMissingFile(t *testing.T) {
	t.Setenv("SCOREFN_MANIFEST", filepath.Join(t.TempDir(), "absent.toml"))
	_, err := provideManifest(defaultConfig(), zap.NewNop())
	assert.Error(t, err)
}

func TestServerLifecycle(t *testing.T) {
	t.Setenv("SERVER_LISTEN_ADDRESS", "127.0.0.1:0")
	t.Setenv("SSL_SERVER_CERTIFICATE", "")
	lc := fxtest.NewLifecycle(t)
	registerHooks(lc, defaultConfig(), serverDeps{
		Logger: zaptest.NewLogger(t),
		App:    http.NotFoundHandler(),
	})
	lc.RequireStart().RequireStop()
}
