package collector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/networkteam/browsertest/collector"
)

func TestRingBuffer_Basic(t *testing.T) {
	rb := collector.NewRingBuffer[string](3)

	assert.Equal(t, 0, rb.Size())
	assert.Equal(t, 3, rb.Capacity())

	rb.Add("line1")
	assert.Equal(t, 1, rb.Size())
	assert.Equal(t, []string{"line1"}, rb.All())

	rb.Add("line2")
	rb.Add("line3")

	assert.Equal(t, 3, rb.Size())
	assert.Equal(t, []string{"line1", "line2", "line3"}, rb.All())
}

func TestRingBuffer_Overwrite(t *testing.T) {
	rb := collector.NewRingBuffer[string](3)

	rb.Add("line1")
	rb.Add("line2")
	rb.Add("line3")
	rb.Add("line4")

	assert.Equal(t, 3, rb.Size())
	assert.Equal(t, []string{"line2", "line3", "line4"}, rb.All())

	rb.Add("line5")
	rb.Add("line6")

	assert.Equal(t, []string{"line4", "line5", "line6"}, rb.All())
}

func TestRingBuffer_Tail(t *testing.T) {
	rb := collector.NewRingBuffer[int](5)

	for i := 1; i <= 3; i++ {
		rb.Add(i)
	}

	assert.Equal(t, []int{2, 3}, rb.Tail(2))
	assert.Equal(t, []int{1, 2, 3}, rb.Tail(10))
	assert.Empty(t, rb.Tail(0))
	assert.Empty(t, rb.Tail(-1))

	for i := 4; i <= 7; i++ {
		rb.Add(i)
	}

	assert.Equal(t, []int{3, 4, 5, 6, 7}, rb.Tail(5))
	assert.Equal(t, []int{5, 6, 7}, rb.Tail(3))
}

func TestRingBuffer_EmptyBuffer(t *testing.T) {
	rb := collector.NewRingBuffer[string](3)

	assert.Empty(t, rb.All())
}

func TestRingBuffer_ZeroCapacityPanics(t *testing.T) {
	assert.Panics(t, func() {
		collector.NewRingBuffer[string](0)
	})
}
