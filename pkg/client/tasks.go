package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/darmiel/ticketbind/internal/api"
	"github.com/darmiel/ticketbind/internal/tasks"
)

// ListTasks retrieves the status of the registered background tasks.
func (c *Client) ListTasks(ctx context.Context) ([]tasks.TaskStatus, error) {
	var resp []tasks.TaskStatus
	_, err := c.get(ctx, c.url().
		setPath(api.ListTasksRoute).
		build(), &resp)
	return resp, err
}

// TriggerTask runs the named task out of schedule.
func (c *Client) TriggerTask(ctx context.Context, name string) (string, error) {
	route := strings.Replace(api.TriggerTaskRoute, "{name}", name, 1)
	correlation, err := c.post(ctx, c.url().setPath(route).build(), nil, nil)
	if err != nil {
		return correlation, fmt.Errorf("triggering task: %w", err)
	}
	return correlation, nil
}

// TaskLogs retrieves the log of a task's most recent run.
func (c *Client) TaskLogs(ctx context.Context, name string) ([]tasks.LogEntry, error) {
	route := strings.Replace(api.LogsForTaskRoute, "{name}", name, 1)
	var resp []tasks.LogEntry
	_, err := c.get(ctx, c.url().setPath(route).build(), &resp)
	return resp, err
}
