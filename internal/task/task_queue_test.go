package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskQueue_Enqueue(t *testing.T) {
	queue := NewTaskQueue(2, discardLogger())

	require.NoError(t, queue.Enqueue(newMockTask(nil)))
	require.NoError(t, queue.Enqueue(newMockTask(nil)))
	assert.Equal(t, 2, queue.Len())

	err := queue.Enqueue(newMockTask(nil))
	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Equal(t, 2, queue.Len())

	<-queue.GetChannel()
	assert.NoError(t, queue.Enqueue(newMockTask(nil)), "space frees up after a read")
}

func TestTaskQueue_Close(t *testing.T) {
	queue := NewTaskQueue(1, discardLogger())
	task := newMockTask(nil)
	require.NoError(t, queue.Enqueue(task))

	queue.Close()
	queue.Close()

	assert.ErrorIs(t, queue.Enqueue(newMockTask(nil)), ErrQueueClosed)

	got, ok := <-queue.GetChannel()
	require.True(t, ok, "buffered tasks survive Close")
	assert.Equal(t, task.ID(), got.ID())

	_, ok = <-queue.GetChannel()
	assert.False(t, ok)
}

func TestNewTaskQueue_MinimumSize(t *testing.T) {
	queue := NewTaskQueue(0, discardLogger())
	assert.NoError(t, queue.Enqueue(newMockTask(nil)))
	assert.ErrorIs(t, queue.Enqueue(newMockTask(nil)), ErrQueueFull)
}
