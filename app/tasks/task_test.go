package tasks

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewTask(t *testing.T) {
	task := NewTask(TaskTypeMigrateFeed, "export.rss")

	if _, err := uuid.Parse(task.GetID()); err != nil {
		t.Errorf("Expected a UUID id, got '%s': %v", task.GetID(), err)
	}
	if task.GetType() != TaskTypeMigrateFeed {
		t.Errorf("Expected type '%s', got '%s'", TaskTypeMigrateFeed, task.GetType())
	}
	if task.GetFeedPath() != "export.rss" {
		t.Errorf("Expected feed path 'export.rss', got '%s'", task.GetFeedPath())
	}
	if task.GetDuration() != 0 {
		t.Errorf("Expected zero duration before start, got %v", task.GetDuration())
	}

	other := NewTask(TaskTypeMigrateFeed, "export.rss")
	if other.GetID() == task.GetID() {
		t.Error("Expected unique task ids")
	}
}

func TestMigrateFeedTaskAsTaskInterface(t *testing.T) {
	var task TaskInterface = NewMigrateFeedTask("export.rss", nil, testBlog, false, nil, nil, nil, nil, nil)

	if task.GetType() != TaskTypeMigrateFeed {
		t.Errorf("Expected type '%s', got '%s'", TaskTypeMigrateFeed, task.GetType())
	}
	if task.GetFeedPath() != "export.rss" {
		t.Errorf("Expected feed path 'export.rss', got '%s'", task.GetFeedPath())
	}
	if task.GetID() == "" {
		t.Error("Expected task id to be set")
	}
}
