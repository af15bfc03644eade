package contracts

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, SchemaVersion, info.SchemaVersion)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.OS+"/"+info.Architecture)
}

func TestGetFullVersionString(t *testing.T) {
	assert.Equal(t, "cohortetl v0.1.0 (schema v1)", GetVersionString())
	assert.Contains(t, GetFullVersionString(), "commit: unknown")
	assert.Contains(t, GetFullVersionString(), runtime.Version())
}
