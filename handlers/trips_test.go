package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayplan/trip"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	Init(trip.NewStore())

	r := gin.New()
	r.POST("/api/trips", CreateTripHandler)
	r.GET("/api/trips/:id", GetTripHandler)
	r.GET("/api/trips/:id/itinerary", ItineraryHandler)
	r.POST("/api/trips/:id/collections/:name/items", SaveItemHandler)
	r.POST("/api/trips/:id/drag", DragHandler)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createTestTrip(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/trips", gin.H{
		"name": "Japan",
		"destinations": []gin.H{
			{"name": "Tokyo", "lat": 35.6762, "lng": 139.6503, "nights": 2},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created trip.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	return created.ID
}

func saveTestItem(t *testing.T, r *gin.Engine, tripID string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost,
		fmt.Sprintf("/api/trips/%s/collections/%s/items", tripID, trip.CollectionExperiences),
		gin.H{"name": "Senso-ji", "category": "experience"})
	require.Equal(t, http.StatusCreated, w.Code)

	var it trip.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &it))
	return it.ID
}

func TestCreateTrip_BadStartDate(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/trips", gin.H{
		"name":      "Japan",
		"startDate": "10/04/2026",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDrag_ScheduleFromCollection(t *testing.T) {
	r := newTestRouter(t)
	tripID := createTestTrip(t, r)
	itemID := saveTestItem(t, r, tripID)

	w := doJSON(t, r, http.MethodPost, "/api/trips/"+tripID+"/drag", gin.H{
		"sourceContainerId":      "collection-experiences",
		"sourceIndex":            0,
		"destinationContainerId": "day-1",
		"destinationIndex":       0,
		"draggedItemId":          itemID,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Outcome string `json:"outcome"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(trip.OutcomeScheduled), resp.Outcome)

	// The itinerary projection now shows the item on day 1.
	w = doJSON(t, r, http.MethodGet, "/api/trips/"+tripID+"/itinerary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var itin struct {
		CityBlocks []trip.CityBlock `json:"cityBlocks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &itin))
	require.Len(t, itin.CityBlocks, 1)
	require.Len(t, itin.CityBlocks[0].Days[1].Items, 1)
	assert.Equal(t, "Senso-ji", itin.CityBlocks[0].Days[1].Items[0].Name)
}

func TestDrag_CancelledDropIsNoOp(t *testing.T) {
	r := newTestRouter(t)
	tripID := createTestTrip(t, r)
	itemID := saveTestItem(t, r, tripID)

	w := doJSON(t, r, http.MethodPost, "/api/trips/"+tripID+"/drag", gin.H{
		"sourceContainerId": "collection-experiences",
		"sourceIndex":       0,
		"draggedItemId":     itemID,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Outcome string `json:"outcome"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(trip.OutcomeNone), resp.Outcome)
}

func TestDrag_MalformedContainerRejected(t *testing.T) {
	r := newTestRouter(t)
	tripID := createTestTrip(t, r)
	itemID := saveTestItem(t, r, tripID)

	w := doJSON(t, r, http.MethodPost, "/api/trips/"+tripID+"/drag", gin.H{
		"sourceContainerId":      "panel-3",
		"destinationContainerId": "day-0",
		"draggedItemId":          itemID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDrag_OutOfRangeDay(t *testing.T) {
	r := newTestRouter(t)
	tripID := createTestTrip(t, r) // 2 nights, days 0..2
	itemID := saveTestItem(t, r, tripID)

	w := doJSON(t, r, http.MethodPost, "/api/trips/"+tripID+"/drag", gin.H{
		"sourceContainerId":      "collection-experiences",
		"destinationContainerId": "day-9",
		"draggedItemId":          itemID,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetTrip_NotFound(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/api/trips/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
