package app

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"waypoint/api/internal/store"
	"waypoint/api/internal/validate"
)

// requestBody is a decoded JSON object before normalization.
type requestBody map[string]any

func (b requestBody) lookup(keys ...string) (any, bool) {
	for _, key := range keys {
		if value, ok := b[key]; ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

func (b requestBody) text(key string) string {
	value, _ := b[key].(string)
	return value
}

// reference reads a single id given either as "assigneeId": 3 or as
// "assignee": {"id": 3}.
func (b requestBody) reference(idKey, objectKey string) any {
	value, _ := b.lookup(idKey, objectKey)
	return idOf(value)
}

// idList reads an id set given as "tagIds" or "tags". Each element may be an
// id or an object carrying one, and the whole array may arrive JSON-encoded
// in a string (form posts do this).
func (b requestBody) idList(idsKey, objectsKey string) (any, bool) {
	value, ok := b.lookup(idsKey, objectsKey)
	if !ok {
		return nil, false
	}
	if encoded, isString := value.(string); isString {
		var decoded any
		if err := json.Unmarshal([]byte(encoded), &decoded); err != nil {
			return value, true
		}
		value = decoded
	}
	items, isArray := value.([]any)
	if !isArray {
		return value, true
	}
	ids := make([]any, len(items))
	for i, item := range items {
		ids[i] = idOf(item)
	}
	return ids, true
}

func idOf(value any) any {
	if object, ok := value.(map[string]any); ok {
		return object["id"]
	}
	return value
}

func validationError(result validate.Result) error {
	return domainError(http.StatusBadRequest, "VALIDATION_ERROR", result.Message, nil)
}

// entityChecks are the name, description and type checks every entity runs.
// The type check is returned separately so callers can run it after their
// own date checks.
func entityChecks(body requestBody, descriptionOptional bool) (head []validate.Check, typeCheck validate.Check) {
	head = []validate.Check{
		func() validate.Result { return validate.Name(body.text("name")) },
		func() validate.Result { return validate.Description(body.text("description"), descriptionOptional) },
	}
	typeCheck = func() validate.Result {
		value, ok := body.lookup("type")
		if !ok {
			return validate.Result{Pass: true}
		}
		return validate.NonNegativeInt32("type", value)
	}
	return head, typeCheck
}

func entityFields(body requestBody) store.EntityFields {
	fields := store.EntityFields{
		Name:        strings.TrimSpace(body.text("name")),
		Description: strings.TrimSpace(body.text("description")),
	}
	if value, ok := body.lookup("type"); ok {
		typ, _ := validate.AsInt(value)
		fields.Type = int(typ)
	}
	return fields
}

func idArrayCheck(field string, value any, present bool) validate.Check {
	return func() validate.Result {
		if !present {
			return validate.Result{Pass: true}
		}
		return validate.IDArray(field, value)
	}
}

func idsOrEmpty(value any, present bool) []int64 {
	if !present {
		return []int64{}
	}
	return validate.AsIDs(value)
}

func parseDate(value string) time.Time {
	parsed, _ := time.Parse(validate.DateLayout, value)
	return parsed
}

func parseSimpleFields(body requestBody, descriptionOptional bool) (store.EntityFields, error) {
	head, typeCheck := entityChecks(body, descriptionOptional)
	if result := validate.First(append(head, typeCheck)...); !result.Pass {
		return store.EntityFields{}, validationError(result)
	}
	return entityFields(body), nil
}

func parseTagFields(body requestBody) (store.EntityFields, error) {
	return parseSimpleFields(body, true)
}

func parseTaskStatusFields(body requestBody) (store.EntityFields, error) {
	return parseSimpleFields(body, true)
}

func parseRoadmapFields(body requestBody) (store.EntityFields, error) {
	return parseSimpleFields(body, false)
}

func parseAssigneeFields(body requestBody) (store.AssigneeFields, error) {
	head, typeCheck := entityChecks(body, true)
	imageCheck := func() validate.Result {
		value, ok := body.lookup("imageId")
		if !ok {
			return validate.Result{Pass: true}
		}
		if _, isString := value.(string); !isString {
			return validate.Result{Message: "imageId must be a string"}
		}
		return validate.Result{Pass: true}
	}
	if result := validate.First(append(head, typeCheck, imageCheck)...); !result.Pass {
		return store.AssigneeFields{}, validationError(result)
	}

	fields := store.AssigneeFields{EntityFields: entityFields(body)}
	if imageID := strings.TrimSpace(body.text("imageId")); imageID != "" {
		fields.ImageID = &imageID
	}
	return fields, nil
}

func parseMilestoneFields(body requestBody) (store.MilestoneFields, error) {
	head, typeCheck := entityChecks(body, false)
	taskStatus := body.reference("taskStatusId", "taskStatus")
	tagIDs, hasTags := body.idList("tagIds", "tags")
	roadmapIDs, hasRoadmaps := body.idList("roadmapIds", "roadmaps")

	checks := append(head,
		func() validate.Result { return validate.Date("date", body.text("date")) },
		typeCheck,
		func() validate.Result { return validate.NonNegativeInt("taskStatusId", taskStatus) },
		idArrayCheck("tagIds", tagIDs, hasTags),
		idArrayCheck("roadmapIds", roadmapIDs, hasRoadmaps),
	)
	if result := validate.First(checks...); !result.Pass {
		return store.MilestoneFields{}, validationError(result)
	}

	statusID, _ := validate.AsInt(taskStatus)
	return store.MilestoneFields{
		EntityFields: entityFields(body),
		Date:         parseDate(body.text("date")),
		TaskStatusID: statusID,
		TagIDs:       idsOrEmpty(tagIDs, hasTags),
		RoadmapIDs:   idsOrEmpty(roadmapIDs, hasRoadmaps),
	}, nil
}

func parseTaskFields(body requestBody) (store.TaskFields, error) {
	head, typeCheck := entityChecks(body, false)
	start, end := body.text("startDate"), body.text("endDate")
	assignee := body.reference("assigneeId", "assignee")
	taskStatus := body.reference("taskStatusId", "taskStatus")
	tagIDs, hasTags := body.idList("tagIds", "tags")
	roadmapIDs, hasRoadmaps := body.idList("roadmapIds", "roadmaps")

	checks := append(head,
		func() validate.Result { return validate.Date("startDate", start) },
		func() validate.Result { return validate.Date("endDate", end) },
		func() validate.Result { return validate.DateOrder("startDate", start, "endDate", end) },
		typeCheck,
		func() validate.Result { return validate.NonNegativeInt("assigneeId", assignee) },
		func() validate.Result { return validate.NonNegativeInt("taskStatusId", taskStatus) },
		idArrayCheck("tagIds", tagIDs, hasTags),
		idArrayCheck("roadmapIds", roadmapIDs, hasRoadmaps),
	)
	if result := validate.First(checks...); !result.Pass {
		return store.TaskFields{}, validationError(result)
	}

	assigneeID, _ := validate.AsInt(assignee)
	statusID, _ := validate.AsInt(taskStatus)
	return store.TaskFields{
		EntityFields: entityFields(body),
		StartDate:    parseDate(start),
		EndDate:      parseDate(end),
		AssigneeID:   assigneeID,
		TaskStatusID: statusID,
		TagIDs:       idsOrEmpty(tagIDs, hasTags),
		RoadmapIDs:   idsOrEmpty(roadmapIDs, hasRoadmaps),
	}, nil
}
