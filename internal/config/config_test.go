package config

import (
	"reflect"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	conf, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if conf.Execution.TimeoutSeconds != 10 {
		t.Errorf("TimeoutSeconds = %d, want 10", conf.Execution.TimeoutSeconds)
	}
	if conf.Execution.MaxCodeLength != 50000 {
		t.Errorf("MaxCodeLength = %d, want 50000", conf.Execution.MaxCodeLength)
	}
	if !reflect.DeepEqual(conf.Execution.DeniedPatterns, DefaultDeniedPatterns) {
		t.Errorf("DeniedPatterns = %v, want defaults", conf.Execution.DeniedPatterns)
	}
	if conf.Limiter.RequestsPerWindow != 50 || conf.Limiter.WindowSeconds != 3600 {
		t.Errorf("limiter defaults = %d/%ds, want 50/3600s",
			conf.Limiter.RequestsPerWindow, conf.Limiter.WindowSeconds)
	}
	if conf.Workers.Count != 5 {
		t.Errorf("Workers.Count = %d, want 5", conf.Workers.Count)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("FUTURIDE_EXECUTION_TIMEOUT", "3")
	t.Setenv("FUTURIDE_MAX_CODE_LENGTH", "1000")
	t.Setenv("FUTURIDE_DENIED_PATTERNS", "rm -rf, shutdown")
	t.Setenv("FUTURIDE_PYTHON_BIN", "/usr/local/bin/python3.12")

	conf, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if conf.Execution.TimeoutSeconds != 3 {
		t.Errorf("TimeoutSeconds = %d, want 3", conf.Execution.TimeoutSeconds)
	}
	if conf.Execution.MaxCodeLength != 1000 {
		t.Errorf("MaxCodeLength = %d, want 1000", conf.Execution.MaxCodeLength)
	}
	want := []string{"rm -rf", "shutdown"}
	if !reflect.DeepEqual(conf.Execution.DeniedPatterns, want) {
		t.Errorf("DeniedPatterns = %v, want %v", conf.Execution.DeniedPatterns, want)
	}
	if conf.Execution.PythonBin != "/usr/local/bin/python3.12" {
		t.Errorf("PythonBin = %q", conf.Execution.PythonBin)
	}
}

func TestLoadConfigRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("FUTURIDE_EXECUTION_TIMEOUT", "-1")

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig accepted a negative timeout")
	}
}

func TestEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("FUTURIDE_MAX_CODE_LENGTH", "not-a-number")

	conf, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if conf.Execution.MaxCodeLength != 50000 {
		t.Errorf("MaxCodeLength = %d, want default 50000", conf.Execution.MaxCodeLength)
	}
}
