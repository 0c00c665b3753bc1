package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shakso89/pokeayman-16-sub001/core/wheel"
)

func Test_wheelApi_spin(t *testing.T) {
	app := setup(t)
	app.InitPool(t, orgID)
	ashToken := app.token(t, ash)

	runTable(t, app, []httpTest{
		{name: "Auth required", method: http.MethodPost, path: "/v1/students/ash/wheel/spin", wantCode: http.StatusUnauthorized},
		{name: "not your wheel", method: http.MethodPost, path: "/v1/students/ash/wheel/spin", token: app.token(t, misty), wantCode: http.StatusForbidden},
		{
			name: "broke", method: http.MethodPost, path: "/v1/students/ash/wheel/spin", token: ashToken,
			wantCode: http.StatusPaymentRequired, wantData: marchallObj(t, httpErr{Error: "insufficient funds"}),
		},
	})

	app.Credit(t, ash.UserID, 5)
	rec := app.run(t, httpTest{method: http.MethodPost, path: "/v1/students/ash/wheel/spin", token: ashToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res wheel.SpinResult
	unmarchall(t, rec, &res)
	assert.Equal(t, wheel.OutcomeNewCreature, res.Outcome)
	require.NotNil(t, res.Creature)
	assert.EqualValues(t, 4, res.Balance)
	assert.Len(t, res.Entries, 2)

	// staff may spin on a student's behalf
	rec = app.run(t, httpTest{method: http.MethodPost, path: "/v1/students/ash/wheel/spin", token: app.token(t, teacher)})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func Test_wheelApi_noneAvailable(t *testing.T) {
	app := setup(t)
	app.Credit(t, ash.UserID, 5)

	rec := app.run(t, httpTest{method: http.MethodPost, path: "/v1/students/ash/wheel/spin", token: app.token(t, ash)})
	require.Equal(t, http.StatusOK, rec.Code)
	var res wheel.SpinResult
	unmarchall(t, rec, &res)
	assert.Equal(t, wheel.OutcomeNoneAvailable, res.Outcome)
	assert.Nil(t, res.Creature)
	assert.EqualValues(t, 5, res.Balance, "nothing is charged")
}

func Test_wheelApi_viewAndRefresh(t *testing.T) {
	app := setup(t)
	app.InitPool(t, orgID)
	app.Credit(t, ash.UserID, 3)
	ashToken := app.token(t, ash)

	rec := app.run(t, httpTest{path: "/v1/students/ash/wheel", token: ashToken})
	require.Equal(t, http.StatusOK, rec.Code)
	var view wheel.View
	unmarchall(t, rec, &view)
	assert.Len(t, view.Entries, 3)
	assert.True(t, view.CanRefreshToday)
	assert.EqualValues(t, 3, view.Balance)

	rec = app.run(t, httpTest{method: http.MethodPost, path: "/v1/students/ash/wheel/refresh", token: ashToken})
	require.Equal(t, http.StatusOK, rec.Code)
	unmarchall(t, rec, &view)
	assert.False(t, view.CanRefreshToday)
	assert.EqualValues(t, 2, view.Balance)

	rec = app.run(t, httpTest{method: http.MethodPost, path: "/v1/students/ash/wheel/refresh", token: ashToken})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	app.Clock.Advance(24 * time.Hour)
	rec = app.run(t, httpTest{method: http.MethodPost, path: "/v1/students/ash/wheel/refresh", token: ashToken})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, app.Balance(t, ash.UserID))
}
