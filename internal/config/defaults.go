package config

// RootDirToken is replaced by Document.RootDir during resolution.
const RootDirToken = "<rootDir>"

// Default returns the built-in declaration. Each call returns a fresh
// value, so callers may modify it freely.
func Default() *Document {
	return &Document{
		Environment: "node",
		TestFileGlobs: []string{
			"**/__tests__/**/*.{js,jsx,ts,tsx}",
			"**/*.{test,spec}.{js,jsx,ts,tsx}",
		},
		IgnorePaths: []string{
			"/node_modules/",
			"/build/",
			"/dist/",
			"/.cache/",
		},

		CoverageEnabled:   true,
		CoverageDirectory: "coverage",
		CoverageIncludeGlobs: []string{
			"src/**/*.{js,jsx,ts,tsx}",
		},
		CoverageExcludeGlobs: []string{
			"src/**/*.d.ts",
			"src/**/index.{js,ts}",
			"src/**/*.stories.{js,jsx,ts,tsx}",
			"src/**/*.config.{js,ts}",
			"src/**/node_modules/**",
		},
		CoverageThresholds: map[string]Thresholds{
			GlobalScope: {
				Statements: 80,
				Branches:   75,
				Functions:  80,
				Lines:      80,
			},
			// Critical paths require higher coverage.
			"./src/core/": {
				Statements: 90,
				Branches:   85,
				Functions:  90,
				Lines:      90,
			},
			"./src/security/": {
				Statements: 95,
				Branches:   90,
				Functions:  95,
				Lines:      95,
			},
		},

		WorkerConcurrency: "50%",

		Reporters: []string{
			"text",
			"text-summary",
			"lcov",
			"html",
			"json-summary",
		},
		SetupHooks: []string{
			RootDirToken + "/tests/setup.js",
		},
		Transforms: Mapping{
			{Pattern: `^.+\.(js|jsx|ts|tsx)$`, Target: "babel-jest"},
		},
		PathAliases: Mapping{
			{Pattern: `^@/(.*)$`, Target: RootDirToken + "/src/$1"},
			{Pattern: `^@test/(.*)$`, Target: RootDirToken + "/tests/$1"},
		},
		WatchPlugins: []string{
			"jest-watch-typeahead/filename",
			"jest-watch-typeahead/testname",
		},
	}
}
