package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yeremiapane/hostel-app/controllers"
	"github.com/yeremiapane/hostel-app/database"
	"github.com/yeremiapane/hostel-app/models"
)

func setupUserRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	userCtrl := controllers.NewUserController(db)
	hostelCtrl := controllers.NewHostelController(db)
	router.POST("/register", userCtrl.Register)
	router.POST("/login", userCtrl.Login)
	router.GET("/hostels", hostelCtrl.GetAllHostels)
	router.POST("/admin/hostels", hostelCtrl.CreateHostel)
	return router
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	db.Create(&models.Hostel{Name: "North Block", Code: "NB"})
	router := setupUserRouter(db)

	register := map[string]interface{}{
		"full_name":   "Test Student",
		"email":       "Test@Example.com",
		"password":    "password123",
		"student_id":  "R-100",
		"hostel_code": "NB",
	}
	w, response := performJSON(router, http.MethodPost, "/register", register)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, true, response["status"])
	assert.NotNil(t, response["data"].(map[string]interface{})["user_id"])

	var student models.Student
	require.NoError(t, db.Preload("User").Where("student_id = ?", "R-100").First(&student).Error)
	assert.Equal(t, "test@example.com", student.User.Email)
	assert.Equal(t, models.RoleStudent, student.User.Role)

	w, _ = performJSON(router, http.MethodPost, "/register", register)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, response = performJSON(router, http.MethodPost, "/login", map[string]string{
		"email": "test@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, "student", data["user_role"])

	w, _ = performJSON(router, http.MethodPost, "/login", map[string]string{
		"email": "test@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterUnknownHostel(t *testing.T) {
	db := setupTestDB(t)
	router := setupUserRouter(db)

	w, response := performJSON(router, http.MethodPost, "/register", map[string]interface{}{
		"full_name":   "Lost Student",
		"email":       "lost@example.com",
		"password":    "password123",
		"student_id":  "R-404",
		"hostel_code": "XX",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "hostel not found", response["error"])

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Zero(t, count, "user row must be rolled back")
}

func TestCreateAndListHostels(t *testing.T) {
	db := setupTestDB(t)
	router := setupUserRouter(db)

	w, _ := performJSON(router, http.MethodPost, "/admin/hostels", map[string]string{"name": "South Block", "code": "sb"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = performJSON(router, http.MethodPost, "/admin/hostels", map[string]string{"name": "Another South", "code": "SB"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, response := performJSON(router, http.MethodGet, "/hostels", nil)
	require.Equal(t, http.StatusOK, w.Code)
	hostels := response["data"].([]interface{})
	require.Len(t, hostels, 1)
	assert.Equal(t, "SB", hostels[0].(map[string]interface{})["code"])
}

func TestRegisterAcceptsHostelCodeInAnyCase(t *testing.T) {
	db := setupTestDB(t)
	router := setupUserRouter(db)

	w, _ := performJSON(router, http.MethodPost, "/admin/hostels", map[string]string{"name": "North Block 1", "code": "nb1"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, response := performJSON(router, http.MethodPost, "/register", map[string]interface{}{
		"full_name":   "Lower Case",
		"email":       "lower@example.com",
		"password":    "password123",
		"student_id":  "R-501",
		"hostel_code": " nb1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, true, response["status"])

	var student models.Student
	require.NoError(t, db.Preload("Hostel").Where("student_id = ?", "R-501").First(&student).Error)
	assert.Equal(t, "NB1", student.Hostel.Code)
}

func TestSeededAdminCanLoginWithMixedCaseEmail(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, database.SeedAdmin(db, "Warden@Hostel.Test", "warden-pass"))
	router := setupUserRouter(db)

	for _, email := range []string{"Warden@Hostel.Test", "warden@hostel.test"} {
		w, response := performJSON(router, http.MethodPost, "/login", map[string]string{
			"email": email, "password": "warden-pass",
		})
		require.Equal(t, http.StatusOK, w.Code, email)
		assert.Equal(t, models.RoleAdmin, response["data"].(map[string]interface{})["user_role"])
	}
}
