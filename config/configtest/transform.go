// Package configtest provides structs and logic for declarative configuration
// tests.
package configtest

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taskcluster/idle-reclaimer/config"
	"github.com/taskcluster/idle-reclaimer/runtime/mocks"
)

// Case declares a transformation to run on Input, with Env set in the process
// environment, and the Result expected.
type Case struct {
	Transform string
	Env       map[string]string
	Input     map[string]interface{}
	Result    map[string]interface{}
	// Error is true, if the transformation is expected to fail
	Error bool
}

// Test will execute the test case failing t if Input doesn't become Result
func (c Case) Test(t *testing.T) {
	for k, v := range c.Env {
		prev, ok := os.LookupEnv(k)
		require.NoError(t, os.Setenv(k, v))
		defer func(k, prev string, ok bool) {
			if ok {
				os.Setenv(k, prev)
			} else {
				os.Unsetenv(k)
			}
		}(k, prev, ok)
	}

	monitor := mocks.NewMockMonitor(false)
	transform := config.Providers()[c.Transform]
	require.NotNil(t, transform, "unknown transform ", c.Transform)

	err := transform.Transform(c.Input, monitor)
	if c.Error {
		require.Error(t, err, "expected Transform(Input) to fail")
		return
	}
	require.NoError(t, err, "Transform(Input) failed")

	require.Equal(t, c.Result, c.Input, "unexpected result")
}
