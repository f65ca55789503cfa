package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"waypoint/api/internal/config"
	"waypoint/api/internal/images"
	"waypoint/api/internal/search"
	"waypoint/api/internal/store"
	"waypoint/api/internal/util"
	"waypoint/api/internal/validate"
)

type dataStore interface {
	ListTasks(context.Context, store.Expand) ([]store.Task, error)
	GetTask(context.Context, int64, store.Expand) (store.Task, error)
	CreateTask(context.Context, store.TaskFields) (store.Task, error)
	UpdateTask(context.Context, int64, store.TaskFields) (store.Task, error)
	DeleteTask(context.Context, int64) error
	ListMilestones(context.Context, store.Expand) ([]store.Milestone, error)
	GetMilestone(context.Context, int64, store.Expand) (store.Milestone, error)
	CreateMilestone(context.Context, store.MilestoneFields) (store.Milestone, error)
	UpdateMilestone(context.Context, int64, store.MilestoneFields) (store.Milestone, error)
	DeleteMilestone(context.Context, int64) error
	ListRoadmaps(context.Context, store.Expand) ([]store.Roadmap, error)
	GetRoadmap(context.Context, int64, store.Expand) (store.Roadmap, error)
	CreateRoadmap(context.Context, store.EntityFields) (store.Roadmap, error)
	UpdateRoadmap(context.Context, int64, store.EntityFields) (store.Roadmap, error)
	DeleteRoadmap(context.Context, int64) error
	ListTags(context.Context) ([]store.Tag, error)
	GetTag(context.Context, int64) (store.Tag, error)
	CreateTag(context.Context, store.EntityFields) (store.Tag, error)
	UpdateTag(context.Context, int64, store.EntityFields) (store.Tag, error)
	DeleteTag(context.Context, int64) error
	ListAssignees(context.Context) ([]store.Assignee, error)
	GetAssignee(context.Context, int64) (store.Assignee, error)
	CreateAssignee(context.Context, store.AssigneeFields) (store.Assignee, error)
	UpdateAssignee(context.Context, int64, store.AssigneeFields) (store.Assignee, error)
	DeleteAssignee(context.Context, int64) error
	ListTaskStatuses(context.Context) ([]store.TaskStatus, error)
	GetTaskStatus(context.Context, int64) (store.TaskStatus, error)
	CreateTaskStatus(context.Context, store.EntityFields) (store.TaskStatus, error)
	UpdateTaskStatus(context.Context, int64, store.EntityFields) (store.TaskStatus, error)
	DeleteTaskStatus(context.Context, int64) error
	Ping(ctx context.Context) error
}

type Service struct {
	cfg    config.Config
	store  dataStore
	images images.Store
	search *search.Service
}

// New wires the service. imageStore and searchService may be nil; the
// matching endpoints then report themselves unavailable or empty.
func New(cfg config.Config, dataStore *store.PostgresStore, imageStore images.Store, searchService *search.Service) *Service {
	return &Service{
		cfg:    cfg,
		store:  dataStore,
		images: imageStore,
		search: searchService,
	}
}

// Ping checks the health of service dependencies (database, etc.)
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// PingImages checks the image backend and reports whether one is configured.
func (s *Service) PingImages(ctx context.Context) (bool, error) {
	if s.images == nil {
		return false, nil
	}
	return true, s.images.Ping(ctx)
}

// storeError converts a store failure into the error returned to clients.
// Unclassified failures are logged and answered generically: 400 for
// writes, 404 for reads.
func storeError(resource string, err error, write bool) error {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, store.ErrNotFound) {
		return domainError(http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	}
	if table, ok := store.IsConflict(err); ok {
		return domainError(http.StatusNotFound, "IN_USE",
			fmt.Sprintf("%s is still referenced by %s", singular(resource), table),
			tableDetails(table))
	}
	var refErr *store.ReferenceError
	if errors.As(err, &refErr) {
		return domainError(http.StatusBadRequest, "REFERENCE_NOT_FOUND", "a referenced record does not exist",
			tableDetails(refErr.Table))
	}
	var dupErr *store.DuplicateError
	if errors.As(err, &dupErr) {
		return domainError(http.StatusBadRequest, "DUPLICATE", "record already exists",
			tableDetails(dupErr.Table))
	}
	var checkErr *store.CheckError
	if errors.As(err, &checkErr) {
		return domainError(http.StatusBadRequest, "VALIDATION_ERROR", "record violates "+checkErr.Constraint, nil)
	}

	log.Printf("%s: store error: %v", resource, err)
	if write {
		return domainError(http.StatusBadRequest, "STORE_ERROR", "Could not save "+singular(resource), nil)
	}
	return domainError(http.StatusNotFound, "STORE_ERROR", "Could not load "+resource, nil)
}

func singular(resource string) string {
	switch resource {
	case resourceTaskStatuses:
		return "task status"
	default:
		return strings.TrimSuffix(resource, "s")
	}
}

func (s *Service) index(typ search.ResultType, entity store.Entity) {
	if s.search == nil {
		return
	}
	s.search.Index(search.NewRecord(typ, entity.ID, entity.Name, entity.Description))
}

func (s *Service) unindex(typ search.ResultType, id int64) {
	if s.search == nil {
		return
	}
	s.search.Delete(typ, id)
}

// Tasks

func (s *Service) ListTasks(ctx context.Context, expand store.Expand) ([]map[string]any, error) {
	items, err := s.store.ListTasks(ctx, expand)
	if err != nil {
		return nil, storeError(resourceTasks, err, false)
	}
	payload := make([]map[string]any, 0, len(items))
	for _, item := range items {
		payload = append(payload, presentTask(item))
	}
	return payload, nil
}

func (s *Service) GetTask(ctx context.Context, id int64, expand store.Expand) (map[string]any, error) {
	item, err := s.store.GetTask(ctx, id, expand)
	if err != nil {
		return nil, storeError(resourceTasks, err, false)
	}
	return presentTask(item), nil
}

func (s *Service) CreateTask(ctx context.Context, body requestBody) (map[string]any, error) {
	fields, err := parseTaskFields(body)
	if err != nil {
		return nil, err
	}
	item, err := s.store.CreateTask(ctx, fields)
	if err != nil {
		return nil, storeError(resourceTasks, err, true)
	}
	s.index(search.ResultTask, item.Entity)
	return presentTask(item), nil
}

func (s *Service) UpdateTask(ctx context.Context, id int64, body requestBody) (map[string]any, error) {
	fields, err := parseTaskFields(body)
	if err != nil {
		return nil, err
	}
	item, err := s.store.UpdateTask(ctx, id, fields)
	if err != nil {
		return nil, storeError(resourceTasks, err, true)
	}
	s.index(search.ResultTask, item.Entity)
	return presentTask(item), nil
}

func (s *Service) DeleteTask(ctx context.Context, id int64) error {
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return storeError(resourceTasks, err, true)
	}
	s.unindex(search.ResultTask, id)
	return nil
}

// Milestones

func (s *Service) ListMilestones(ctx context.Context, expand store.Expand) ([]map[string]any, error) {
	items, err := s.store.ListMilestones(ctx, expand)
	if err != nil {
		return nil, storeError(resourceMilestones, err, false)
	}
	payload := make([]map[string]any, 0, len(items))
	for _, item := range items {
		payload = append(payload, presentMilestone(item))
	}
	return payload, nil
}

func (s *Service) GetMilestone(ctx context.Context, id int64, expand store.Expand) (map[string]any, error) {
	item, err := s.store.GetMilestone(ctx, id, expand)
	if err != nil {
		return nil, storeError(resourceMilestones, err, false)
	}
	return presentMilestone(item), nil
}

func (s *Service) CreateMilestone(ctx context.Context, body requestBody) (map[string]any, error) {
	fields, err := parseMilestoneFields(body)
	if err != nil {
		return nil, err
	}
	item, err := s.store.CreateMilestone(ctx, fields)
	if err != nil {
		return nil, storeError(resourceMilestones, err, true)
	}
	s.index(search.ResultMilestone, item.Entity)
	return presentMilestone(item), nil
}

func (s *Service) UpdateMilestone(ctx context.Context, id int64, body requestBody) (map[string]any, error) {
	fields, err := parseMilestoneFields(body)
	if err != nil {
		return nil, err
	}
	item, err := s.store.UpdateMilestone(ctx, id, fields)
	if err != nil {
		return nil, storeError(resourceMilestones, err, true)
	}
	s.index(search.ResultMilestone, item.Entity)
	return presentMilestone(item), nil
}

func (s *Service) DeleteMilestone(ctx context.Context, id int64) error {
	if err := s.store.DeleteMilestone(ctx, id); err != nil {
		return storeError(resourceMilestones, err, true)
	}
	s.unindex(search.ResultMilestone, id)
	return nil
}

// Roadmaps

func (s *Service) ListRoadmaps(ctx context.Context, expand store.Expand) ([]map[string]any, error) {
	items, err := s.store.ListRoadmaps(ctx, expand)
	if err != nil {
		return nil, storeError(resourceRoadmaps, err, false)
	}
	payload := make([]map[string]any, 0, len(items))
	for _, item := range items {
		payload = append(payload, presentRoadmap(item))
	}
	return payload, nil
}

func (s *Service) GetRoadmap(ctx context.Context, id int64, expand store.Expand) (map[string]any, error) {
	item, err := s.store.GetRoadmap(ctx, id, expand)
	if err != nil {
		return nil, storeError(resourceRoadmaps, err, false)
	}
	return presentRoadmap(item), nil
}

func (s *Service) CreateRoadmap(ctx context.Context, body requestBody) (map[string]any, error) {
	fields, err := parseRoadmapFields(body)
	if err != nil {
		return nil, err
	}
	item, err := s.store.CreateRoadmap(ctx, fields)
	if err != nil {
		return nil, storeError(resourceRoadmaps, err, true)
	}
	s.index(search.ResultRoadmap, item.Entity)
	return presentRoadmap(item), nil
}

func (s *Service) UpdateRoadmap(ctx context.Context, id int64, body requestBody) (map[string]any, error) {
	fields, err := parseRoadmapFields(body)
	if err != nil {
		return nil, err
	}
	item, err := s.store.UpdateRoadmap(ctx, id, fields)
	if err != nil {
		return nil, storeError(resourceRoadmaps, err, true)
	}
	s.index(search.ResultRoadmap, item.Entity)
	return presentRoadmap(item), nil
}

func (s *Service) DeleteRoadmap(ctx context.Context, id int64) error {
	if err := s.store.DeleteRoadmap(ctx, id); err != nil {
		return storeError(resourceRoadmaps, err, true)
	}
	s.unindex(search.ResultRoadmap, id)
	return nil
}

// Tags

func (s *Service) ListTags(ctx context.Context) ([]map[string]any, error) {
	items, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, storeError(resourceTags, err, false)
	}
	payload := make([]map[string]any, 0, len(items))
	for _, item := range items {
		payload = append(payload, presentEntity(item.Entity))
	}
	return payload, nil
}

func (s *Service) GetTag(ctx context.Context, id int64) (map[string]any, error) {
	item, err := s.store.GetTag(ctx, id)
	if err != nil {
		return nil, storeError(resourceTags, err, false)
	}
	return presentEntity(item.Entity), nil
}

func (s *Service) CreateTag(ctx context.Context, body requestBody) (map[string]any, error) {
	fields, err := parseTagFields(body)
	if err != nil {
		return nil, err
	}
	item, err := s.store.CreateTag(ctx, fields)
	if err != nil {
		return nil, storeError(resourceTags, err, true)
	}
	s.index(search.ResultTag, item.Entity)
	return presentEntity(item.Entity), nil
}

func (s *Service) UpdateTag(ctx context.Context, id int64, body requestBody) (map[string]any, error) {
	fields, err := parseTagFields(body)
	if err != nil {
		return nil, err
	}
	item, err := s.store.UpdateTag(ctx, id, fields)
	if err != nil {
		return nil, storeError(resourceTags, err, true)
	}
	s.index(search.ResultTag, item.Entity)
	return presentEntity(item.Entity), nil
}

func (s *Service) DeleteTag(ctx context.Context, id int64) error {
	if err := s.store.DeleteTag(ctx, id); err != nil {
		return storeError(resourceTags, err, true)
	}
	s.unindex(search.ResultTag, id)
	return nil
}

// Assignees

func (s *Service) ListAssignees(ctx context.Context) ([]map[string]any, error) {
	items, err := s.store.ListAssignees(ctx)
	if err != nil {
		return nil, storeError(resourceAssignees, err, false)
	}
	payload := make([]map[string]any, 0, len(items))
	for _, item := range items {
		payload = append(payload, presentAssignee(item))
	}
	return payload, nil
}

func (s *Service) GetAssignee(ctx context.Context, id int64) (map[string]any, error) {
	item, err := s.store.GetAssignee(ctx, id)
	if err != nil {
		return nil, storeError(resourceAssignees, err, false)
	}
	return presentAssignee(item), nil
}

func (s *Service) CreateAssignee(ctx context.Context, body requestBody) (map[string]any, error) {
	fields, err := parseAssigneeFields(body)
	if err != nil {
		return nil, err
	}
	item, err := s.store.CreateAssignee(ctx, fields)
	if err != nil {
		return nil, storeError(resourceAssignees, err, true)
	}
	s.index(search.ResultAssignee, item.Entity)
	return presentAssignee(item), nil
}

func (s *Service) UpdateAssignee(ctx context.Context, id int64, body requestBody) (map[string]any, error) {
	fields, err := parseAssigneeFields(body)
	if err != nil {
		return nil, err
	}
	item, err := s.store.UpdateAssignee(ctx, id, fields)
	if err != nil {
		return nil, storeError(resourceAssignees, err, true)
	}
	s.index(search.ResultAssignee, item.Entity)
	return presentAssignee(item), nil
}

func (s *Service) DeleteAssignee(ctx context.Context, id int64) error {
	if err := s.store.DeleteAssignee(ctx, id); err != nil {
		return storeError(resourceAssignees, err, true)
	}
	s.unindex(search.ResultAssignee, id)
	return nil
}

// Task statuses

func (s *Service) ListTaskStatuses(ctx context.Context) ([]map[string]any, error) {
	items, err := s.store.ListTaskStatuses(ctx)
	if err != nil {
		return nil, storeError(resourceTaskStatuses, err, false)
	}
	payload := make([]map[string]any, 0, len(items))
	for _, item := range items {
		payload = append(payload, presentEntity(item.Entity))
	}
	return payload, nil
}

func (s *Service) GetTaskStatus(ctx context.Context, id int64) (map[string]any, error) {
	item, err := s.store.GetTaskStatus(ctx, id)
	if err != nil {
		return nil, storeError(resourceTaskStatuses, err, false)
	}
	return presentEntity(item.Entity), nil
}

func (s *Service) CreateTaskStatus(ctx context.Context, body requestBody) (map[string]any, error) {
	fields, err := parseTaskStatusFields(body)
	if err != nil {
		return nil, err
	}
	item, err := s.store.CreateTaskStatus(ctx, fields)
	if err != nil {
		return nil, storeError(resourceTaskStatuses, err, true)
	}
	s.index(search.ResultTaskStatus, item.Entity)
	return presentEntity(item.Entity), nil
}

func (s *Service) UpdateTaskStatus(ctx context.Context, id int64, body requestBody) (map[string]any, error) {
	fields, err := parseTaskStatusFields(body)
	if err != nil {
		return nil, err
	}
	item, err := s.store.UpdateTaskStatus(ctx, id, fields)
	if err != nil {
		return nil, storeError(resourceTaskStatuses, err, true)
	}
	s.index(search.ResultTaskStatus, item.Entity)
	return presentEntity(item.Entity), nil
}

func (s *Service) DeleteTaskStatus(ctx context.Context, id int64) error {
	if err := s.store.DeleteTaskStatus(ctx, id); err != nil {
		return storeError(resourceTaskStatuses, err, true)
	}
	s.unindex(search.ResultTaskStatus, id)
	return nil
}

// Images

func (s *Service) maxImageBytes() int64 {
	if s.cfg.MaxImageBytes <= 0 {
		return config.DefaultMaxImageBytes
	}
	return s.cfg.MaxImageBytes
}

func (s *Service) UploadImage(ctx context.Context, data []byte) (map[string]any, error) {
	if s.images == nil {
		return nil, domainError(http.StatusServiceUnavailable, "IMAGES_UNAVAILABLE", "Image storage not configured", nil)
	}
	if limit := s.maxImageBytes(); int64(len(data)) > limit {
		return nil, domainError(http.StatusRequestEntityTooLarge, "IMAGE_TOO_LARGE",
			fmt.Sprintf("image exceeds %d bytes", limit), nil)
	}
	contentType, err := images.DetectContentType(data)
	if err != nil {
		return nil, domainError(http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	}
	image := images.Image{
		ID:          util.NewID(""),
		ContentType: contentType,
		Data:        data,
	}
	if err := s.images.Put(ctx, image); err != nil {
		log.Printf("images: put %s: %v", image.ID, err)
		return nil, domainError(http.StatusBadRequest, "STORE_ERROR", "Could not save image", nil)
	}
	return map[string]any{
		"id":          image.ID,
		"contentType": image.ContentType,
		"size":        len(image.Data),
	}, nil
}

func (s *Service) GetImage(ctx context.Context, id string) (images.Image, error) {
	if s.images == nil {
		return images.Image{}, domainError(http.StatusServiceUnavailable, "IMAGES_UNAVAILABLE", "Image storage not configured", nil)
	}
	if !util.ValidID("", id) {
		return images.Image{}, domainError(http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	}
	image, err := s.images.Get(ctx, id)
	if errors.Is(err, images.ErrNotFound) {
		return images.Image{}, domainError(http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	}
	if err != nil {
		log.Printf("images: get %s: %v", id, err)
		return images.Image{}, domainError(http.StatusNotFound, "STORE_ERROR", "Could not load image", nil)
	}
	return image, nil
}

// Search

func (s *Service) Search(ctx context.Context, text, typ string, limit int) (search.Response, error) {
	text = strings.TrimSpace(text)
	filter := search.ResultType(strings.TrimSpace(typ))
	if filter != "" && !filter.Valid() {
		return search.Response{}, domainError(http.StatusBadRequest, "VALIDATION_ERROR", "type is not a searchable kind", nil)
	}
	if s.search == nil || text == "" {
		return search.Response{Results: []search.Result{}, Query: text}, nil
	}
	return s.search.Search(ctx, search.Query{Text: text, FilterType: filter, Limit: limit}), nil
}

// Presenters

func presentEntity(entity store.Entity) map[string]any {
	return map[string]any{
		"id":          entity.ID,
		"name":        entity.Name,
		"description": entity.Description,
		"type":        entity.Type,
	}
}

func presentAssignee(item store.Assignee) map[string]any {
	payload := presentEntity(item.Entity)
	if item.ImageID != nil {
		payload["imageId"] = *item.ImageID
	} else {
		payload["imageId"] = nil
	}
	return payload
}

func presentTags(items []store.Tag) []map[string]any {
	payload := make([]map[string]any, 0, len(items))
	for _, item := range items {
		payload = append(payload, presentEntity(item.Entity))
	}
	return payload
}

func presentRoadmap(item store.Roadmap) map[string]any {
	payload := presentEntity(item.Entity)
	if item.Milestones != nil {
		milestones := make([]map[string]any, 0, len(item.Milestones))
		for _, milestone := range item.Milestones {
			milestones = append(milestones, presentMilestone(milestone))
		}
		payload["milestones"] = milestones
	}
	if item.Tags != nil {
		payload["tags"] = presentTags(item.Tags)
	}
	return payload
}

func presentRoadmaps(items []store.Roadmap) []map[string]any {
	payload := make([]map[string]any, 0, len(items))
	for _, item := range items {
		payload = append(payload, presentRoadmap(item))
	}
	return payload
}

func presentMilestone(item store.Milestone) map[string]any {
	payload := presentEntity(item.Entity)
	payload["date"] = item.Date.Format(validate.DateLayout)
	payload["taskStatus"] = presentEntity(item.TaskStatus.Entity)
	if item.Roadmaps != nil {
		payload["roadmaps"] = presentRoadmaps(item.Roadmaps)
	}
	if item.Tags != nil {
		payload["tags"] = presentTags(item.Tags)
	}
	return payload
}

func presentTask(item store.Task) map[string]any {
	payload := presentEntity(item.Entity)
	payload["startDate"] = item.StartDate.Format(validate.DateLayout)
	payload["endDate"] = item.EndDate.Format(validate.DateLayout)
	payload["duration"] = item.Duration
	payload["assignee"] = presentAssignee(item.Assignee)
	payload["taskStatus"] = presentEntity(item.TaskStatus.Entity)
	if item.Roadmaps != nil {
		payload["roadmaps"] = presentRoadmaps(item.Roadmaps)
	}
	if item.Tags != nil {
		payload["tags"] = presentTags(item.Tags)
	}
	return payload
}
