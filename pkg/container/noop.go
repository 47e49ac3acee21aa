package container

import "github.com/shuldan/chassis/pkg/contracts"

// Defaults used when the caller wires no config or logger.

type emptyConfig struct{}

var _ contracts.Config = emptyConfig{}

func (emptyConfig) Has(string) bool { return false }

func (emptyConfig) Get(string) any { return nil }

func (emptyConfig) All() map[string]any { return map[string]any{} }

func (emptyConfig) GetString(_ string, defaultVal ...string) string {
	if len(defaultVal) > 0 {
		return defaultVal[0]
	}
	return ""
}

func (emptyConfig) GetInt(_ string, defaultVal ...int) int {
	if len(defaultVal) > 0 {
		return defaultVal[0]
	}
	return 0
}

func (emptyConfig) GetInt64(_ string, defaultVal ...int64) int64 {
	if len(defaultVal) > 0 {
		return defaultVal[0]
	}
	return 0
}

func (emptyConfig) GetFloat64(_ string, defaultVal ...float64) float64 {
	if len(defaultVal) > 0 {
		return defaultVal[0]
	}
	return 0
}

func (emptyConfig) GetBool(_ string, defaultVal ...bool) bool {
	if len(defaultVal) > 0 {
		return defaultVal[0]
	}
	return false
}

func (emptyConfig) GetStringSlice(string, ...string) []string { return nil }

func (emptyConfig) GetSub(string) (contracts.Config, bool) { return nil, false }

type noopLogger struct{}

var _ contracts.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any)           {}
func (noopLogger) Debug(string, ...any)           {}
func (noopLogger) Info(string, ...any)            {}
func (noopLogger) Warn(string, ...any)            {}
func (noopLogger) Error(string, ...any)           {}
func (noopLogger) Critical(string, ...any)        {}
func (n noopLogger) With(...any) contracts.Logger { return n }
