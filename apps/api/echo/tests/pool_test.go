package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shakso89/pokeayman-16-sub001/core/pool"
	testutil "github.com/Shakso89/pokeayman-16-sub001/tests"
)

func Test_poolApi_initialize(t *testing.T) {
	app := setup(t)
	teacherToken := app.token(t, teacher)

	runTable(t, app, []httpTest{
		{name: "Auth required", method: http.MethodPost, path: "/v1/pool/initialize", wantCode: http.StatusUnauthorized},
		{
			name: "Staff required", method: http.MethodPost, path: "/v1/pool/initialize", token: app.token(t, ash),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "first call seeds", method: http.MethodPost, path: "/v1/pool/initialize", token: teacherToken,
			wantCode: http.StatusCreated, wantData: []byte(`{"organization_id":"green-hill","created":3}`),
		},
		{
			name: "second call is a no-op", method: http.MethodPost, path: "/v1/pool/initialize", token: teacherToken,
			wantCode: http.StatusOK, wantData: []byte(`{"organization_id":"green-hill","created":0}`),
		},
	})
}

func Test_poolApi_catalogUnavailable(t *testing.T) {
	app := setup(t, testutil.WithSource(brokenSource{}))
	rec := app.run(t, httpTest{method: http.MethodPost, path: "/v1/pool/initialize", token: app.token(t, teacher)})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func Test_poolApi_listAndRetrieve(t *testing.T) {
	app := setup(t)
	entries := app.InitPool(t, orgID)
	other := app.InitPool(t, "cerulean")
	pikachu := testutil.EntryByName(t, entries, "Pikachu")

	rec := app.run(t, httpTest{path: "/v1/pool", token: app.token(t, ash)})
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []pool.Entry
	unmarchall(t, rec, &listed)
	assert.Len(t, listed, 3)

	teacherToken := app.token(t, teacher)
	runTable(t, app, []httpTest{
		{
			name: "own organization", path: "/v1/pool/" + pikachu.ID, token: teacherToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, pikachu),
		},
		{name: "other organization", path: "/v1/pool/" + other[0].ID, token: teacherToken, wantCode: http.StatusNotFound},
		{name: "unknown", path: "/v1/pool/nope", token: teacherToken, wantCode: http.StatusNotFound},
		{name: "students may not inspect", path: "/v1/pool/" + pikachu.ID, token: app.token(t, ash), wantCode: http.StatusForbidden},
	})
}

func Test_poolApi_release(t *testing.T) {
	app := setup(t)
	entries := app.InitPool(t, orgID)
	pikachu := testutil.EntryByName(t, entries, "Pikachu")
	_, err := app.Pool.Claim(bg, pikachu.ID, ash.UserID)
	require.NoError(t, err)

	teacherToken := app.token(t, teacher)
	runTable(t, app, []httpTest{
		{
			name: "validation", method: http.MethodPost, path: "/v1/pool/release", token: teacherToken,
			body: []byte(`{"creature_id":"pikachu"}`), wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown creature", method: http.MethodPost, path: "/v1/pool/release", token: teacherToken,
			body: []byte(`{"creature_id":"missingno","student_id":"ash"}`), wantCode: http.StatusNotFound,
		},
		{
			name: "release", method: http.MethodPost, path: "/v1/pool/release", token: teacherToken,
			body: []byte(`{"creature_id":"pikachu","student_id":"ash"}`), wantCode: http.StatusOK,
		},
	})

	got, err := app.Pool.Get(bg, pikachu.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAvailable())
}
