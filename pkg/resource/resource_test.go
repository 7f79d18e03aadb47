package resource

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/database"
)

type widget struct {
	ID     uint
	Name   string
	Secret string
}

func widgetShape(w widget) Map {
	return Map{"id": w.ID, "name": w.Name}
}

func TestResourceRespond(t *testing.T) {
	rec := httptest.NewRecorder()
	New(widget{ID: 1, Name: "gear", Secret: "hidden"}, widgetShape).Respond(rec, 201)

	assert.Equal(t, 201, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "gear", data["name"])

	// The transformer decides the shape; untransformed fields never leak.
	assert.NotContains(t, data, "Secret")
	assert.NotContains(t, data, "secret")
}

func TestCollectionRespondWithPagination(t *testing.T) {
	items := []widget{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}

	rec := httptest.NewRecorder()
	CollectionOf(items, widgetShape).
		WithPagination(database.Pagination{Page: 1, Limit: 20, Total: 2, TotalPages: 1}).
		Respond(rec)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	data := body["data"].([]interface{})
	assert.Len(t, data, 2)

	pagination := body["pagination"].(map[string]interface{})
	assert.EqualValues(t, 2, pagination["total"])
}

func TestEmptyCollectionSerializesAsArray(t *testing.T) {
	rec := httptest.NewRecorder()
	CollectionOf(nil, widgetShape).Respond(rec)

	assert.Contains(t, rec.Body.String(), `"data":[]`)
}
