package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/grouping"
	"github.com/trezcool/darasa/core/roster"
	emailsvc "github.com/trezcool/darasa/services/email"
	exportsvc "github.com/trezcool/darasa/services/export"
	dummydb "github.com/trezcool/darasa/storage/database/dummy"
	testutil "github.com/trezcool/darasa/tests"
)

var (
	conf   *core.Config
	db     *dummydb.DB
	app    *echoapi.Server
	logger *testutil.Logger

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
	errNotFound     = httpErr{Error: "not found"}
)

func TestMain(m *testing.M) {
	conf = testutil.NewConfig()
	validate, translator := testutil.NewValidator()
	logger = new(testutil.Logger)

	var err error
	db, err = dummydb.Open()
	if err != nil {
		panic(err)
	}

	svc := grouping.NewService(
		dummydb.NewRosterRepository(db),
		dummydb.NewGroupRepository(db),
		emailsvc.NewConsoleServiceMock(conf),
		exportsvc.NewXLSXExporter(),
		logger,
		validate,
		conf,
	)

	app = echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		GroupSvc:   svc,
		Validate:   validate,
		Translator: translator,
	})

	os.Exit(m.Run())
}

// resetClass seeds class-1 with six students; s1/s2 and s3/s4 must be kept apart.
func resetClass(t *testing.T) {
	t.Helper()
	db.AddClass(dummydb.Class{
		ID: "class-1",
		Students: []roster.Student{
			{ID: "s1", Name: "Amani", Gender: "F", SeparationList: "s2"},
			{ID: "s2", Name: "Baraka", Gender: "M"},
			{ID: "s3", Name: "Chausiku", Gender: "F", NeedsHelp: true},
			{ID: "s4", Name: "Daudi", Gender: "M"},
			{ID: "s5", Name: "Eshe", Gender: "F"},
			{ID: "s6", Name: "Faraji", Gender: "M"},
		},
		Constraints: []roster.Constraint{{StudentA: "s3", StudentB: "s4"}},
		Assessments: []roster.Assessment{{ID: "quiz", MaxScore: 20}},
		Entries: []roster.AssessmentEntry{
			{AssessmentID: "quiz", StudentID: "s1", Score: null.Float64From(18)},
			{AssessmentID: "quiz", StudentID: "s2", Score: null.Float64From(8)},
			{AssessmentID: "quiz", StudentID: "s3", Score: null.Float64From(11)},
		},
	})
	if _, err := dummydb.NewGroupRepository(db).DeleteGroups(context.Background(), "class-1"); err != nil {
		t.Fatalf("resetClass(): %v", err)
	}
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

func getToken(t *testing.T, admin bool, roles ...string) string {
	claims := echoapi.NewClaims(conf, "u1", "mwalimu", "mwalimu@test.test", admin, time.Hour)
	claims.Roles = roles
	token, err := echoapi.GenerateToken(conf, claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func getStudentToken(t *testing.T) string {
	claims := echoapi.NewClaims(conf, "u2", "mwanafunzi", "", false, time.Hour)
	claims.IsTeacher = false
	claims.IsStudent = true
	token, err := echoapi.GenerateToken(conf, claims)
	if err != nil {
		t.Fatalf("getStudentToken(): %v", err)
	}
	return token
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
