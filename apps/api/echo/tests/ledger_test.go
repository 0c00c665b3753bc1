package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shakso89/pokeayman-16-sub001/core/ledger"
)

func Test_ledgerApi(t *testing.T) {
	app := setup(t)
	teacherToken := app.token(t, teacher)
	ashToken := app.token(t, ash)

	runTable(t, app, []httpTest{
		{
			name: "empty balance", path: "/v1/students/ash/balance", token: ashToken,
			wantCode: http.StatusOK, wantData: []byte(`{"student_id":"ash","earned":0,"spent":0,"balance":0}`),
		},
		{
			name: "Staff required", method: http.MethodPost, path: "/v1/students/ash/credits", token: ashToken,
			body: []byte(`{"amount":100}`), wantCode: http.StatusForbidden,
		},
		{
			name: "amount required", method: http.MethodPost, path: "/v1/students/ash/credits", token: teacherToken,
			body: []byte(`{"amount":0}`), wantCode: http.StatusBadRequest,
		},
		{
			name: "negative amount", method: http.MethodPost, path: "/v1/students/ash/credits", token: teacherToken,
			body: []byte(`{"amount":-4}`), wantCode: http.StatusBadRequest,
		},
		{
			name: "credit", method: http.MethodPost, path: "/v1/students/ash/credits", token: teacherToken,
			body:     []byte(`{"amount":7,"reason":"helped a classmate"}`),
			wantCode: http.StatusOK, wantData: []byte(`{"student_id":"ash","earned":7,"spent":0,"balance":7}`),
		},
		{
			name: "balance after credit", path: "/v1/students/ash/balance", token: ashToken,
			wantCode: http.StatusOK, wantData: []byte(`{"student_id":"ash","earned":7,"spent":0,"balance":7}`),
		},
		{
			name: "credit overflow", method: http.MethodPost, path: "/v1/students/ash/credits", token: teacherToken,
			body:     []byte(`{"amount":9223372036854775807}`),
			wantCode: http.StatusConflict, wantData: []byte(`{"error":"credit would overflow the earned total"}`),
		},
		{name: "someone else's balance", path: "/v1/students/misty/balance", token: ashToken, wantCode: http.StatusForbidden},
		{name: "bad limit", path: "/v1/students/ash/ledger?limit=lots", token: ashToken, wantCode: http.StatusBadRequest},
	})

	_, err := app.Ledger.Debit(bg, ash.UserID, 2, ledger.ReasonSpin)
	require.NoError(t, err)

	rec := app.run(t, httpTest{path: "/v1/students/ash/ledger", token: ashToken})
	require.Equal(t, http.StatusOK, rec.Code)
	var history []ledger.Entry
	unmarchall(t, rec, &history)
	require.Len(t, history, 2)
	reasons := []string{history[0].Reason, history[1].Reason}
	assert.ElementsMatch(t, []string{"helped a classmate", ledger.ReasonSpin}, reasons)

	rec = app.run(t, httpTest{path: "/v1/students/ash/ledger?limit=1", token: ashToken})
	require.Equal(t, http.StatusOK, rec.Code)
	unmarchall(t, rec, &history)
	assert.Len(t, history, 1)
}

func Test_ledgerApi_manualReason(t *testing.T) {
	app := setup(t)
	rec := app.run(t, httpTest{
		method: http.MethodPost, path: "/v1/students/misty/credits", token: app.token(t, teacher),
		body: []byte(`{"amount":3}`),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	history, err := app.Ledger.History(bg, misty.UserID, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, ledger.ReasonManual, history[0].Reason)
	assert.Equal(t, ledger.KindCredit, history[0].Kind)
}
