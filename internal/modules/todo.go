package modules

import "officegw/internal/domain"

// NewTodo covers task lists and tasks, including the dedicated complete
// shortcut.
func NewTodo(deps Deps) domain.ModuleDescriptor {
	return domain.ModuleDescriptor{
		ID:          "todo",
		DisplayName: "Tasks",
		Requires:    []string{"graph"},
		Capabilities: []string{
			"listTaskLists", "listTasks", "createTask",
			"updateTask", "completeTask", "deleteTask",
		},
		Handlers: map[string]domain.HandlerFunc{
			"listTaskLists": handler(deps, "todo", "listTaskLists", "listLists", normalizeTaskLists),
			"listTasks":     handler(deps, "todo", "listTasks", "list", normalizeTaskList),
			"createTask":    handler(deps, "todo", "createTask", "create", normalizeTask),
			"updateTask":    handler(deps, "todo", "updateTask", "update", normalizeTask),
			"completeTask":  handler(deps, "todo", "completeTask", "complete", normalizeTask),
			"deleteTask":    handler(deps, "todo", "deleteTask", "delete", nil),
		},
	}
}

func normalizeTaskLists(resp map[string]any) any {
	lists := []map[string]any{}
	for _, item := range items(resp) {
		l := asMap(item)
		lists = append(lists, map[string]any{
			"id":          strField(l, "id"),
			"displayName": strField(l, "displayName"),
			"isDefault":   field(l, "isOwner"),
		})
	}
	return map[string]any{"lists": lists, "count": len(lists)}
}

func normalizeTaskList(resp map[string]any) any {
	tasks := []map[string]any{}
	for _, item := range items(resp) {
		tasks = append(tasks, taskShape(asMap(item)))
	}
	return map[string]any{"tasks": tasks, "count": len(tasks)}
}

func normalizeTask(resp map[string]any) any {
	return taskShape(resp)
}

func taskShape(m map[string]any) map[string]any {
	return map[string]any{
		"id":         strField(m, "id"),
		"title":      strField(m, "title"),
		"status":     strField(m, "status"),
		"importance": strField(m, "importance"),
		"due":        field(m, "dueDateTime"),
		"createdAt":  strField(m, "createdDateTime"),
	}
}
