package app

import (
	"context"

	"waypoint/api/internal/store"
)

// fakeStore answers every call from its ...Fn field when set.
type fakeStore struct {
	listTasksFn        func(context.Context, store.Expand) ([]store.Task, error)
	getTaskFn          func(context.Context, int64, store.Expand) (store.Task, error)
	createTaskFn       func(context.Context, store.TaskFields) (store.Task, error)
	updateTaskFn       func(context.Context, int64, store.TaskFields) (store.Task, error)
	deleteTaskFn       func(context.Context, int64) error
	listMilestonesFn   func(context.Context, store.Expand) ([]store.Milestone, error)
	getMilestoneFn     func(context.Context, int64, store.Expand) (store.Milestone, error)
	createMilestoneFn  func(context.Context, store.MilestoneFields) (store.Milestone, error)
	updateMilestoneFn  func(context.Context, int64, store.MilestoneFields) (store.Milestone, error)
	deleteMilestoneFn  func(context.Context, int64) error
	listRoadmapsFn     func(context.Context, store.Expand) ([]store.Roadmap, error)
	getRoadmapFn       func(context.Context, int64, store.Expand) (store.Roadmap, error)
	createRoadmapFn    func(context.Context, store.EntityFields) (store.Roadmap, error)
	updateRoadmapFn    func(context.Context, int64, store.EntityFields) (store.Roadmap, error)
	deleteRoadmapFn    func(context.Context, int64) error
	listTagsFn         func(context.Context) ([]store.Tag, error)
	getTagFn           func(context.Context, int64) (store.Tag, error)
	createTagFn        func(context.Context, store.EntityFields) (store.Tag, error)
	updateTagFn        func(context.Context, int64, store.EntityFields) (store.Tag, error)
	deleteTagFn        func(context.Context, int64) error
	listAssigneesFn    func(context.Context) ([]store.Assignee, error)
	getAssigneeFn      func(context.Context, int64) (store.Assignee, error)
	createAssigneeFn   func(context.Context, store.AssigneeFields) (store.Assignee, error)
	updateAssigneeFn   func(context.Context, int64, store.AssigneeFields) (store.Assignee, error)
	deleteAssigneeFn   func(context.Context, int64) error
	listTaskStatusesFn func(context.Context) ([]store.TaskStatus, error)
	getTaskStatusFn    func(context.Context, int64) (store.TaskStatus, error)
	createTaskStatusFn func(context.Context, store.EntityFields) (store.TaskStatus, error)
	updateTaskStatusFn func(context.Context, int64, store.EntityFields) (store.TaskStatus, error)
	deleteTaskStatusFn func(context.Context, int64) error
	pingFn             func(context.Context) error
}

func (f *fakeStore) ListTasks(ctx context.Context, expand store.Expand) ([]store.Task, error) {
	if f.listTasksFn != nil {
		return f.listTasksFn(ctx, expand)
	}
	return nil, nil
}

func (f *fakeStore) GetTask(ctx context.Context, id int64, expand store.Expand) (store.Task, error) {
	if f.getTaskFn != nil {
		return f.getTaskFn(ctx, id, expand)
	}
	return store.Task{}, store.ErrNotFound
}

func (f *fakeStore) CreateTask(ctx context.Context, fields store.TaskFields) (store.Task, error) {
	if f.createTaskFn != nil {
		return f.createTaskFn(ctx, fields)
	}
	return store.Task{}, nil
}

func (f *fakeStore) UpdateTask(ctx context.Context, id int64, fields store.TaskFields) (store.Task, error) {
	if f.updateTaskFn != nil {
		return f.updateTaskFn(ctx, id, fields)
	}
	return store.Task{}, store.ErrNotFound
}

func (f *fakeStore) DeleteTask(ctx context.Context, id int64) error {
	if f.deleteTaskFn != nil {
		return f.deleteTaskFn(ctx, id)
	}
	return nil
}

func (f *fakeStore) ListMilestones(ctx context.Context, expand store.Expand) ([]store.Milestone, error) {
	if f.listMilestonesFn != nil {
		return f.listMilestonesFn(ctx, expand)
	}
	return nil, nil
}

func (f *fakeStore) GetMilestone(ctx context.Context, id int64, expand store.Expand) (store.Milestone, error) {
	if f.getMilestoneFn != nil {
		return f.getMilestoneFn(ctx, id, expand)
	}
	return store.Milestone{}, store.ErrNotFound
}

func (f *fakeStore) CreateMilestone(ctx context.Context, fields store.MilestoneFields) (store.Milestone, error) {
	if f.createMilestoneFn != nil {
		return f.createMilestoneFn(ctx, fields)
	}
	return store.Milestone{}, nil
}

func (f *fakeStore) UpdateMilestone(ctx context.Context, id int64, fields store.MilestoneFields) (store.Milestone, error) {
	if f.updateMilestoneFn != nil {
		return f.updateMilestoneFn(ctx, id, fields)
	}
	return store.Milestone{}, store.ErrNotFound
}

func (f *fakeStore) DeleteMilestone(ctx context.Context, id int64) error {
	if f.deleteMilestoneFn != nil {
		return f.deleteMilestoneFn(ctx, id)
	}
	return nil
}

func (f *fakeStore) ListRoadmaps(ctx context.Context, expand store.Expand) ([]store.Roadmap, error) {
	if f.listRoadmapsFn != nil {
		return f.listRoadmapsFn(ctx, expand)
	}
	return nil, nil
}

func (f *fakeStore) GetRoadmap(ctx context.Context, id int64, expand store.Expand) (store.Roadmap, error) {
	if f.getRoadmapFn != nil {
		return f.getRoadmapFn(ctx, id, expand)
	}
	return store.Roadmap{}, store.ErrNotFound
}

func (f *fakeStore) CreateRoadmap(ctx context.Context, fields store.EntityFields) (store.Roadmap, error) {
	if f.createRoadmapFn != nil {
		return f.createRoadmapFn(ctx, fields)
	}
	return store.Roadmap{}, nil
}

func (f *fakeStore) UpdateRoadmap(ctx context.Context, id int64, fields store.EntityFields) (store.Roadmap, error) {
	if f.updateRoadmapFn != nil {
		return f.updateRoadmapFn(ctx, id, fields)
	}
	return store.Roadmap{}, store.ErrNotFound
}

func (f *fakeStore) DeleteRoadmap(ctx context.Context, id int64) error {
	if f.deleteRoadmapFn != nil {
		return f.deleteRoadmapFn(ctx, id)
	}
	return nil
}

func (f *fakeStore) ListTags(ctx context.Context) ([]store.Tag, error) {
	if f.listTagsFn != nil {
		return f.listTagsFn(ctx)
	}
	return nil, nil
}

func (f *fakeStore) GetTag(ctx context.Context, id int64) (store.Tag, error) {
	if f.getTagFn != nil {
		return f.getTagFn(ctx, id)
	}
	return store.Tag{}, store.ErrNotFound
}

func (f *fakeStore) CreateTag(ctx context.Context, fields store.EntityFields) (store.Tag, error) {
	if f.createTagFn != nil {
		return f.createTagFn(ctx, fields)
	}
	return store.Tag{}, nil
}

func (f *fakeStore) UpdateTag(ctx context.Context, id int64, fields store.EntityFields) (store.Tag, error) {
	if f.updateTagFn != nil {
		return f.updateTagFn(ctx, id, fields)
	}
	return store.Tag{}, store.ErrNotFound
}

func (f *fakeStore) DeleteTag(ctx context.Context, id int64) error {
	if f.deleteTagFn != nil {
		return f.deleteTagFn(ctx, id)
	}
	return nil
}

func (f *fakeStore) ListAssignees(ctx context.Context) ([]store.Assignee, error) {
	if f.listAssigneesFn != nil {
		return f.listAssigneesFn(ctx)
	}
	return nil, nil
}

func (f *fakeStore) GetAssignee(ctx context.Context, id int64) (store.Assignee, error) {
	if f.getAssigneeFn != nil {
		return f.getAssigneeFn(ctx, id)
	}
	return store.Assignee{}, store.ErrNotFound
}

func (f *fakeStore) CreateAssignee(ctx context.Context, fields store.AssigneeFields) (store.Assignee, error) {
	if f.createAssigneeFn != nil {
		return f.createAssigneeFn(ctx, fields)
	}
	return store.Assignee{}, nil
}

func (f *fakeStore) UpdateAssignee(ctx context.Context, id int64, fields store.AssigneeFields) (store.Assignee, error) {
	if f.updateAssigneeFn != nil {
		return f.updateAssigneeFn(ctx, id, fields)
	}
	return store.Assignee{}, store.ErrNotFound
}

func (f *fakeStore) DeleteAssignee(ctx context.Context, id int64) error {
	if f.deleteAssigneeFn != nil {
		return f.deleteAssigneeFn(ctx, id)
	}
	return nil
}

func (f *fakeStore) ListTaskStatuses(ctx context.Context) ([]store.TaskStatus, error) {
	if f.listTaskStatusesFn != nil {
		return f.listTaskStatusesFn(ctx)
	}
	return nil, nil
}

func (f *fakeStore) GetTaskStatus(ctx context.Context, id int64) (store.TaskStatus, error) {
	if f.getTaskStatusFn != nil {
		return f.getTaskStatusFn(ctx, id)
	}
	return store.TaskStatus{}, store.ErrNotFound
}

func (f *fakeStore) CreateTaskStatus(ctx context.Context, fields store.EntityFields) (store.TaskStatus, error) {
	if f.createTaskStatusFn != nil {
		return f.createTaskStatusFn(ctx, fields)
	}
	return store.TaskStatus{}, nil
}

func (f *fakeStore) UpdateTaskStatus(ctx context.Context, id int64, fields store.EntityFields) (store.TaskStatus, error) {
	if f.updateTaskStatusFn != nil {
		return f.updateTaskStatusFn(ctx, id, fields)
	}
	return store.TaskStatus{}, store.ErrNotFound
}

func (f *fakeStore) DeleteTaskStatus(ctx context.Context, id int64) error {
	if f.deleteTaskStatusFn != nil {
		return f.deleteTaskStatusFn(ctx, id)
	}
	return nil
}

func (f *fakeStore) Ping(ctx context.Context) error {
	if f.pingFn != nil {
		return f.pingFn(ctx)
	}
	return nil
}
