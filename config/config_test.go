package config_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/runcfg/config"
)

func TestResolve(t *testing.T) {
	doc, err := config.Resolve(config.Options{
		RootDir: "/repo",
		Lookup:  config.MapLookup(map[string]string{"CI": "true"}),
	})
	require.NoError(t, err)

	assert.True(t, doc.FailFast)
	assert.True(t, doc.Verbose)
	assert.Equal(t, 80.0, doc.CoverageThresholds[config.GlobalScope].Statements)
	assert.Equal(t, 4, doc.WorkerConcurrency.Workers(8))

	aliases, err := doc.PathAliases.Compile()
	require.NoError(t, err)
	target, ok := aliases.Rewrite("@/utils/date")
	require.True(t, ok)
	assert.Equal(t, "/repo/src/utils/date", target)
}

func TestValidate_ConfigurationError(t *testing.T) {
	doc := config.Default()
	doc.CoverageThresholds = map[string]config.Thresholds{
		config.GlobalScope: {Statements: 101},
	}

	err := config.Validate(doc)
	require.Error(t, err)

	var cerr *config.ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, config.KindThresholdOutOfRange, cerr.Kind)
	assert.True(t, config.HasKind(err, config.KindThresholdOutOfRange))
	assert.False(t, config.HasKind(err, config.KindMissingScope))
}

func TestGet_Once(t *testing.T) {
	first, err := config.Get()
	if err != nil {
		t.Skipf("process environment does not resolve: %v", err)
	}
	second := config.MustGet()
	assert.Same(t, first, second)
}
