package config

import (
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkerID(t *testing.T) {
	tests := []struct {
		executable string
		expected   string
	}{
		{executable: "/tmp/go-build123/b001/pages.test", expected: "pages-42"},
		{executable: "pages.test.exe", expected: "pages-42"},
		{executable: "./acceptance.test", expected: "acceptance-42"},
		{executable: "/usr/local/bin/my tests", expected: "my_tests-42"},
		{executable: "", expected: "worker-42"},
	}

	for _, tt := range tests {
		t.Run(tt.executable, func(t *testing.T) {
			assert.Equal(t, tt.expected, workerID(tt.executable, 42))
		})
	}
}

func TestDefaultWorkerID_IsUniquePerProcess(t *testing.T) {
	id := DefaultWorkerID()

	assert.Equal(t, "config-"+strconv.Itoa(os.Getpid()), id)
	assert.Equal(t, id, Default().WorkerID)
}
