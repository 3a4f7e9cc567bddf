package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dom/plantally/internal/domain"
	"github.com/dom/plantally/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlantHandler_Create(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := testutil.LoginAsRandomUser(t, ts)

	tests := []struct {
		name           string
		request        map[string]interface{}
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "valid plant",
			request:        testutil.NewPlantBuilder().WithName("Fern").Every(3).Request(),
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "empty name",
			request:        map[string]interface{}{"name": "", "waterFrequencyDays": 3},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "zero frequency",
			request:        map[string]interface{}{"name": "Fern", "waterFrequencyDays": 0},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "longest frequency",
			request:        testutil.NewPlantBuilder().Every(domain.MaxWaterFrequencyDays).Request(),
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "frequency beyond representable dates",
			request:        map[string]interface{}{"name": "Cactus", "waterFrequencyDays": 4000000},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "unknown light level",
			request:        testutil.NewPlantBuilder().WithLightLevel("blinding").Request(),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "humidity out of range",
			request:        testutil.NewPlantBuilder().WithHumidity(140).Request(),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.Do(t, http.MethodPost, ts.APIURL("/plants"), tt.request, token)

			if tt.expectedCode != "" {
				testutil.AssertErrorResponse(t, resp, tt.expectedStatus, tt.expectedCode)
				return
			}
			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
		})
	}
}

func TestPlantHandler_CreateDefaults(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := testutil.LoginAsRandomUser(t, ts)

	view := testutil.NewPlantBuilder().WithName("Monstera").Every(7).Create(t, ts, token)

	assert.NotEmpty(t, view.ID)
	assert.Equal(t, domain.LightLevelMedium, view.LightLevel)
	assert.Equal(t, domain.DefaultHumidity, view.Humidity)
	assert.Equal(t, domain.FullHealth, view.Health)
	assert.Equal(t, domain.PlantStatusAlive, view.Status)
	assert.True(t, testutil.TestEpoch.Equal(view.LastWatered))
	assert.True(t, testutil.TestEpoch.AddDate(0, 0, 7).Equal(view.NextWatering))
	assert.False(t, view.IsOverdue)
	assert.Equal(t, 7, view.DaysUntilNext)
	assert.Empty(t, view.History)
}

func TestPlantHandler_WaterAndOverdue(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := testutil.LoginAsRandomUser(t, ts)
	plant := testutil.NewPlantBuilder().Every(7).Create(t, ts, token)

	ts.Clock.AdvanceDays(8)

	resp := testutil.Do(t, http.MethodGet, ts.APIURL("/plants/"+plant.ID), nil, token)
	var before domain.PlantView
	testutil.AssertJSONResponse(t, resp, &before)
	assert.True(t, before.IsOverdue)
	assert.Equal(t, -1, before.DaysUntilNext)

	resp = testutil.Do(t, http.MethodPost, ts.APIURL("/plants/"+plant.ID+"/water"), nil, token)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var after domain.PlantView
	testutil.AssertJSONResponse(t, resp, &after)
	assert.False(t, after.IsOverdue)
	assert.Equal(t, 7, after.DaysUntilNext)
	require.Len(t, after.History, 1)
	assert.Equal(t, domain.WateredValue, after.History[0].Value)
	assert.True(t, ts.Clock.Now().Equal(after.LastWatered))
}

func TestPlantHandler_DeathLifecycle(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := testutil.LoginAsRandomUser(t, ts)
	plant := testutil.NewPlantBuilder().Create(t, ts, token)

	ts.Clock.AdvanceDays(12)

	resp := testutil.Do(t, http.MethodPost, ts.APIURL("/plants/"+plant.ID+"/dead"), nil, token)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var dead domain.PlantView
	testutil.AssertJSONResponse(t, resp, &dead)
	assert.Equal(t, domain.PlantStatusDead, dead.Status)
	assert.Equal(t, 0, dead.Health)
	require.NotNil(t, dead.DateDied)
	require.NotNil(t, dead.DaysLived)
	assert.Equal(t, 12, *dead.DaysLived)
	assert.False(t, dead.IsOverdue)

	resp = testutil.Do(t, http.MethodPost, ts.APIURL("/plants/"+plant.ID+"/water"), nil, token)
	testutil.AssertErrorResponse(t, resp, http.StatusConflict, "INVALID_STATE")

	resp = testutil.Do(t, http.MethodPost, ts.APIURL("/plants/"+plant.ID+"/dead"), nil, token)
	testutil.AssertErrorResponse(t, resp, http.StatusConflict, "INVALID_STATE")

	resp = testutil.Do(t, http.MethodDelete, ts.APIURL("/plants/"+plant.ID), nil, token)
	testutil.AssertStatusCode(t, resp, http.StatusNoContent)

	resp = testutil.Do(t, http.MethodGet, ts.APIURL("/plants/"+plant.ID), nil, token)
	testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "NOT_FOUND")
}

func TestPlantHandler_UnknownPlant(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := testutil.LoginAsRandomUser(t, ts)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "get", method: http.MethodGet, path: "/plants/missing"},
		{name: "water", method: http.MethodPost, path: "/plants/missing/water"},
		{name: "dead", method: http.MethodPost, path: "/plants/missing/dead"},
		{name: "delete", method: http.MethodDelete, path: "/plants/missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.Do(t, tt.method, ts.APIURL(tt.path), nil, token)
			testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "NOT_FOUND")
		})
	}
}

func TestPlantHandler_List(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := testutil.LoginAsRandomUser(t, ts)

	testutil.NewPlantBuilder().WithName("Fern").Every(2).Create(t, ts, token)
	testutil.NewPlantBuilder().WithName("Cactus").Every(14).Create(t, ts, token)

	ts.Clock.AdvanceDays(3)

	resp := testutil.Do(t, http.MethodGet, ts.APIURL("/plants"), nil, token)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var views []domain.PlantView
	testutil.AssertJSONResponse(t, resp, &views)
	require.Len(t, views, 2)

	assert.Equal(t, "Fern", views[0].Name)
	assert.True(t, views[0].IsOverdue)
	assert.Equal(t, "Cactus", views[1].Name)
	assert.False(t, views[1].IsOverdue)
	assert.Equal(t, 11, views[1].DaysUntilNext)
}

func TestPlantHandler_DemoLimit(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := testutil.StartDemo(t, ts)

	first := testutil.NewPlantBuilder().WithName("Pothos").Create(t, ts, token)
	testutil.NewPlantBuilder().WithName("Peace Lily").Create(t, ts, token)

	resp := testutil.Do(t, http.MethodPost, ts.APIURL("/plants"), testutil.NewPlantBuilder().Request(), token)
	testutil.AssertErrorResponse(t, resp, http.StatusForbidden, "DEMO_LIMIT_EXCEEDED")

	resp = testutil.Do(t, http.MethodGet, ts.APIURL("/plants"), nil, token)
	var views []domain.PlantView
	testutil.AssertJSONResponse(t, resp, &views)
	assert.Len(t, views, 5)

	// Deleting an added plant frees a slot.
	resp = testutil.Do(t, http.MethodDelete, ts.APIURL("/plants/"+first.ID), nil, token)
	testutil.AssertStatusCode(t, resp, http.StatusNoContent)
	testutil.NewPlantBuilder().WithName("Snake Plant").Create(t, ts, token)
}

func TestPlantHandler_DemoExpiry(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := testutil.StartDemo(t, ts)

	ts.Clock.Advance(59 * time.Second)
	resp := testutil.Do(t, http.MethodGet, ts.APIURL("/plants"), nil, token)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	ts.Clock.Advance(time.Second)
	resp = testutil.Do(t, http.MethodPost, ts.APIURL("/plants"), testutil.NewPlantBuilder().Request(), token)
	testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "SESSION_EXPIRED")

	resp = testutil.Do(t, http.MethodGet, ts.APIURL("/session"), nil, token)
	testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "SESSION_EXPIRED")
}
