package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/darasa/core/grouping"
	emailsvc "github.com/trezcool/darasa/services/email"
)

const classPath = "/v1/classes/class-1"

func TestGroupAPI_Auth(t *testing.T) {
	resetClass(t)
	studentToken := getStudentToken(t)

	tests := []httpTest{
		{
			name:     "missing token",
			method:   http.MethodPost,
			path:     classPath + "/groups",
			wantCode: http.StatusUnauthorized,
			wantData: marshalObj(t, errMissingToken),
		},
		{
			name:     "student token",
			method:   http.MethodPost,
			path:     classPath + "/groups",
			token:    studentToken,
			wantCode: http.StatusForbidden,
			wantData: marshalObj(t, errForbidden),
		},
		{
			name:     "student token on profiles",
			method:   http.MethodGet,
			path:     classPath + "/profiles",
			token:    studentToken,
			wantCode: http.StatusForbidden,
			wantData: marshalObj(t, errForbidden),
		},
		{
			name:     "admin token",
			method:   http.MethodGet,
			path:     classPath + "/groups",
			token:    getToken(t, true),
			wantCode: http.StatusOK,
			wantData: []byte(`[]`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestGroupAPI_GenerateErrors(t *testing.T) {
	resetClass(t)
	token := getToken(t, false)

	tests := []httpTest{
		{
			name:     "group size too small",
			method:   http.MethodPost,
			path:     classPath + "/groups",
			body:     []byte(`{"group_size": 1}`),
			token:    token,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed body",
			method:   http.MethodPost,
			path:     classPath + "/groups",
			body:     []byte(`{"group_size": "two"`),
			token:    token,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown class",
			method:   http.MethodPost,
			path:     "/v1/classes/nope/groups",
			body:     []byte(`{"group_size": 2}`),
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: marshalObj(t, errNotFound),
		},
		{
			name:     "unknown class profiles",
			method:   http.MethodGet,
			path:     "/v1/classes/nope/profiles",
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: marshalObj(t, errNotFound),
		},
		{
			name:     "export without groups",
			method:   http.MethodGet,
			path:     classPath + "/groups/export",
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: marshalObj(t, errNotFound),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("validation errors are keyed by field", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, classPath+"/groups", token, []byte(`{"group_size": 1}`))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var fields map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fields))
		assert.Contains(t, fields, "group_size")
	})
}

func TestGroupAPI_Generate(t *testing.T) {
	resetClass(t)
	token := getToken(t, false)

	req, rec := newAuthRequest(http.MethodPost, classPath+"/groups", token, []byte(`{"group_size": 2, "prefix": "Team"}`))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var res grouping.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Persisted)
	assert.Equal(t, "class-1", res.ClassID)
	assert.Equal(t, 6, res.RosterSize)
	assert.Equal(t, res.RosterSize, res.Placed+len(res.Unplaced))

	seen := make(map[string]bool)
	for i, g := range res.Groups {
		assert.NotEmpty(t, g.ID)
		assert.Equal(t, i+1, g.Sequence)
		assert.Equal(t, grouping.GroupName("Team", i+1), g.Name)
		assert.LessOrEqual(t, len(g.Members), 2)

		ids := make(map[string]bool)
		for _, m := range g.Members {
			assert.False(t, seen[m.ID], "student %s placed twice", m.ID)
			seen[m.ID] = true
			ids[m.ID] = true
		}
		assert.False(t, ids["s1"] && ids["s2"], "s1 and s2 grouped together")
		assert.False(t, ids["s3"] && ids["s4"], "s3 and s4 grouped together")
	}

	t.Run("query returns the stored groups", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, classPath+"/groups", token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var groups []grouping.Group
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groups))
		require.Len(t, groups, len(res.Groups))
		for i := range groups {
			assert.Equal(t, res.Groups[i].ID, groups[i].ID)
		}
	})

	t.Run("export", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, classPath+"/groups/export", token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "groups-class-1.xlsx")

		f, err := excelize.OpenReader(rec.Body)
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows(f.GetSheetName(0))
		require.NoError(t, err)
		assert.Equal(t, "Class class-1", rows[0][0])
	})

	t.Run("clear", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, classPath+"/groups", token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)

		req, rec = newAuthRequest(http.MethodGet, classPath+"/groups", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`[]`)}, rec)
	})
}

func TestGroupAPI_GenerateDefaults(t *testing.T) {
	resetClass(t)
	token := getToken(t, false)

	req, rec := newAuthRequest(http.MethodPost, classPath+"/groups", token)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var res grouping.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(t, res.Groups)
	assert.Equal(t, "Group 1", res.Groups[0].Name)
}

func TestGroupAPI_GenerateNotify(t *testing.T) {
	resetClass(t)
	emailsvc.ResetSentMessages()
	token := getToken(t, false)

	req, rec := newAuthRequest(http.MethodPost, classPath+"/groups", token, []byte(`{"group_size": 3, "notify": true}`))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	sent := emailsvc.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "mwalimu@test.test", sent[0].To[0].Address)
	assert.True(t, sent[0].HasAttachments())
}

func TestGroupAPI_Preview(t *testing.T) {
	resetClass(t)
	token := getToken(t, false)

	req, rec := newAuthRequest(http.MethodPost, classPath+"/groups/preview", token, []byte(`{"group_size": 3, "balance_gender": true}`))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res grouping.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.Persisted)
	for _, g := range res.Groups {
		assert.Empty(t, g.ID)
	}

	req, rec = newAuthRequest(http.MethodGet, classPath+"/groups", token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`[]`)}, rec)
}

func TestGroupAPI_Profiles(t *testing.T) {
	resetClass(t)
	token := getToken(t, false)

	req, rec := newAuthRequest(http.MethodGet, classPath+"/profiles", token)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var profiles map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profiles))
	assert.Len(t, profiles, 6)
	assert.Contains(t, profiles, "s1")
}
