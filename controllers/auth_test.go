package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edu-feedback-api/models"
)

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := setupControllerTest(t)
	router := gin.New()
	router.POST("/register", Register)

	body := `{"username": "alice", "password": "longenough", "role": "student"}`
	w := postJSON(router, "/register", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Token  string `json:"token"`
		UserID uint   `json:"user_id"`
		Role   string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, "student", created.Role)

	// Same username again, even with a different role, conflicts.
	w = postJSON(router, "/register", `{"username": "alice", "password": "longenough", "role": "lecturer"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(1), users)

	var profiles int64
	require.NoError(t, db.Model(&models.Profile{}).Count(&profiles).Error)
	assert.Equal(t, int64(1), profiles)
}

func TestRegisterValidation(t *testing.T) {
	setupControllerTest(t)
	router := gin.New()
	router.POST("/register", Register)

	for name, body := range map[string]string{
		"short password": `{"username": "bob", "password": "short", "role": "student"}`,
		"bad role":       `{"username": "bob", "password": "longenough", "role": "admin"}`,
		"bad username":   `{"username": "has spaces", "password": "longenough", "role": "student"}`,
	} {
		w := postJSON(router, "/register", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
}

func TestLogin(t *testing.T) {
	setupControllerTest(t)
	router := gin.New()
	router.POST("/register", Register)
	router.POST("/login", Login)

	w := postJSON(router, "/register", `{"username": "carol", "password": "longenough", "role": "student"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(router, "/login", `{"username": "carol", "password": "longenough"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token"`)

	w = postJSON(router, "/login", `{"username": "carol", "password": "wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
