package services

import (
	"testing"
	"time"

	"hr_flow_app_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db.AutoMigrate(&models.Session{}, &models.User{}, &models.Company{})
	return db
}

func TestPasswordHashing(t *testing.T) {
	password := "SecretPass123!"

	hash, err := HashPassword(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	assert.True(t, CheckPassword(password, hash))
	assert.False(t, CheckPassword("WrongPass", hash))
}

func TestSessionLifecycle(t *testing.T) {
	db := setupAuthTestDB()
	userID := "user-123"
	companyID := "company-456"
	ip := "127.0.0.1"
	ua := "TestAgent"

	// 1. Create Session
	session, err := CreateSession(db, userID, companyID, ip, ua)
	assert.NoError(t, err)
	assert.NotNil(t, session)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, userID, session.UserID)
	assert.Equal(t, companyID, session.CompanyID)
	assert.WithinDuration(t, time.Now().Add(DefaultSessionDuration), session.ExpiresAt, 10*time.Second)

	// 2. Validate Session (Valid)
	validSession, err := ValidateSession(db, session.Token)
	assert.NoError(t, err)
	assert.NotNil(t, validSession)
	assert.Equal(t, session.ID, validSession.ID)

	// 3. Validate Session (Invalid Token)
	invalidSession, err := ValidateSession(db, "invalid-token")
	assert.Error(t, err)
	assert.Nil(t, invalidSession)
	assert.Contains(t, err.Error(), "session not found")

	// 4. Delete Session
	err = DeleteSession(db, session.Token)
	assert.NoError(t, err)

	// 5. Validate Deleted Session
	deletedSession, err := ValidateSession(db, session.Token)
	assert.Error(t, err)
	assert.Nil(t, deletedSession)
}

func TestSessionExpiry(t *testing.T) {
	db := setupAuthTestDB()

	// Create a manually expired session
	expired := models.Session{
		ID:        "session-expired",
		UserID:    "user-exp",
		CompanyID: "company-exp",
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	assert.NoError(t, db.Create(&expired).Error)

	session, err := ValidateSession(db, "expired-token")
	assert.Error(t, err)
	assert.Nil(t, session)
	assert.Contains(t, err.Error(), "session expired")

	// Expired session is deleted on validation
	var count int64
	db.Model(&models.Session{}).Where("token = ?", "expired-token").Count(&count)
	assert.Zero(t, count)
}

func TestCleanupExpiredSessions(t *testing.T) {
	db := setupAuthTestDB()

	expired := models.Session{ID: "s1", UserID: "u1", CompanyID: "c1", Token: "t1", ExpiresAt: time.Now().Add(-time.Hour)}
	active := models.Session{ID: "s2", UserID: "u1", CompanyID: "c1", Token: "t2", ExpiresAt: time.Now().Add(time.Hour)}
	assert.NoError(t, db.Create(&expired).Error)
	assert.NoError(t, db.Create(&active).Error)

	assert.NoError(t, CleanupExpiredSessions(db))

	var count int64
	db.Model(&models.Session{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDeleteAllUserSessions(t *testing.T) {
	db := setupAuthTestDB()

	for _, token := range []string{"a", "b"} {
		_, err := CreateSession(db, "user-1", "company-1", "127.0.0.1", token)
		assert.NoError(t, err)
	}
	_, err := CreateSession(db, "user-2", "company-1", "127.0.0.1", "x")
	assert.NoError(t, err)

	assert.NoError(t, DeleteAllUserSessions(db, "user-1"))

	var count int64
	db.Model(&models.Session{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGenerateSessionToken(t *testing.T) {
	token1, err := GenerateSessionToken()
	assert.NoError(t, err)
	assert.Len(t, token1, SessionTokenLength*2) // hex encoded

	token2, err := GenerateSessionToken()
	assert.NoError(t, err)
	assert.NotEqual(t, token1, token2)
}
