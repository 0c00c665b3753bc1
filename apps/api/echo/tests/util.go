package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"

	echoapi "github.com/Shakso89/pokeayman-16-sub001/apps/api/echo"
	"github.com/Shakso89/pokeayman-16-sub001/core"
	"github.com/Shakso89/pokeayman-16-sub001/core/catalog"
	testutil "github.com/Shakso89/pokeayman-16-sub001/tests"
)

const orgID = "green-hill"

var (
	admin   = core.Identity{UserID: "oak", Roles: []string{core.RoleAdmin}}
	teacher = core.Identity{UserID: "brock", OrganizationID: orgID, Roles: []string{core.RoleTeacher}}
	ash     = core.Identity{UserID: "ash", OrganizationID: orgID, Roles: []string{core.RoleStudent}}
	misty   = core.Identity{UserID: "misty", OrganizationID: orgID, Roles: []string{core.RoleStudent}}
	drifter = core.Identity{UserID: "drifter", Roles: []string{core.RoleStudent}}

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
	errNoOrg        = httpErr{Error: "identity has no organization"}
)

type testApp struct {
	*testutil.Stack
	server *echoapi.Server
	auth   *echoapi.Auth
}

// setup serves the in-memory engine stocked with Pikachu, Mewtwo and Rattata unless opts say otherwise.
func setup(t *testing.T, opts ...testutil.StackOption) *testApp {
	t.Helper()

	opts = append([]testutil.StackOption{
		testutil.WithCatalog(testutil.Pikachu, testutil.Mewtwo, testutil.Rattata),
	}, opts...)
	stack := testutil.NewStack(t, opts...)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	catalog.InitValidators(validate, translator)

	conf := &core.Config{TestMode: true, SecretKey: "secret"}
	auth := echoapi.NewAuth("PokeAyman", []byte(conf.SecretKey), time.Hour)

	server := echoapi.NewServer("", &echoapi.Deps{
		Conf:           conf,
		Logger:         core.NopLogger{},
		Validate:       validate,
		Translator:     translator,
		Auth:           auth,
		OrgSvc:         stack.Orgs,
		PoolSvc:        stack.Pool,
		AssignmentSvc:  stack.Assignment,
		LedgerSvc:      stack.Ledger,
		WheelSvc:       stack.Wheel,
		RewardSvc:      stack.Reward,
		Metrics:        promhttp.Handler(),
		DisableReqLogs: true,
	})
	return &testApp{Stack: stack, server: server, auth: auth}
}

func (app *testApp) token(t *testing.T, id core.Identity) string {
	t.Helper()
	token, err := app.auth.GenerateToken(id)
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}
	return token
}

// run executes tt against the app and returns the recorder.
func (app *testApp) run(t *testing.T, tt httpTest) *httptest.ResponseRecorder {
	t.Helper()
	method := tt.method
	if method == "" {
		method = http.MethodGet
	}
	req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
	app.server.ServeHTTP(rec, req)
	return rec
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func unmarchall(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("json.Unmarshal(%s) failed: %v", rec.Body.String(), err)
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

// checkCodeAndData compares the body only when tt.wantData is set.
func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runTable(t *testing.T, app *testApp, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, app.run(t, tt))
		})
	}
}
